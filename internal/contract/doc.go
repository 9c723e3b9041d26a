// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package contract provides validation constants and utilities for ctxforge's
// CLI inputs.
//
// This internal package validates the handful of inputs that can make a
// `ctxforge query` invocation invalid before any scanning or ranking begins:
// the token budget, the include/exclude glob patterns, and the source
// argument. A failed validation becomes the InvalidInput *errors.UserError
// the pipeline's error-handling contract names.
//
// # Budget Limits
//
//	result := contract.ValidateBudget(budget)
//	if !result.OK {
//	    log.Printf("Validation failed: %s", result.Message)
//	}
//
// # Configuration via Environment
//
// The budget ceiling can be adjusted via the CTXFORGE_MAX_BUDGET environment
// variable:
//
//	export CTXFORGE_MAX_BUDGET=2000000
//
// If the environment variable is not set or invalid, the default ceiling
// of ~1M tokens (DefaultMaxBudget) is used.
package contract
