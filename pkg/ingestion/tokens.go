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

package ingestion

// TokenCounter approximates how many LLM tokens text would consume. The
// budgeted selector never needs an exact count, only a consistent,
// deterministic one — callers may inject a real tokenizer's Count method
// here without changing any other component.
type TokenCounter func(text string) int

// CountTokens is the default TokenCounter: roughly 4 characters per token
// (len/4, at least 1 for non-empty text), the same rule of thumb the mock
// completion provider uses to estimate prompt tokens. Deterministic and
// dependency-free, which makes
// it suitable for tests that assert exact budget behavior.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}
	n := len(text) / 4
	if n == 0 {
		n = 1
	}
	return n
}
