// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pipeline

import "strings"

// repairJSON fixes the most common malformation in model-emitted JSON:
// an object key missing its opening quote, e.g. `{name": "Revenue"}`.
// Anything it does not recognize is copied through untouched.
func repairJSON(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+16)

	i := 0
	for i < len(in) {
		ch := in[i]
		out = append(out, ch)
		i++

		// Keys only start after an object opener or a field separator
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(in) && (in[i] == ' ' || in[i] == '\n' || in[i] == '\t') {
			out = append(out, in[i])
			i++
		}
		if i >= len(in) || in[i] == '"' || !isLetter(in[i]) {
			continue
		}

		// A bare word here is a candidate key; it is missing its opening
		// quote only when a lone closing quote and colon follow it.
		start := i
		for i < len(in) && (isLetter(in[i]) || in[i] == '_' || in[i] == ' ') {
			i++
		}
		if i+1 < len(in) && in[i] == '"' && in[i+1] == ':' {
			out = append(out, '"')
			out = append(out, []rune(strings.Trim(string(in[start:i]), " "))...)
			// The closing quote at in[i] is copied on the next iteration
			continue
		}
		out = append(out, in[start:i]...)
	}

	return string(out)
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
