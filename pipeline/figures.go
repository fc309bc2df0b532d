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

import (
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/poiesic/finsift/core"
)

// placeholderNames are emitted with value "Not found" when a response
// yields nothing parseable, so a completed document always carries a
// figures section.
var placeholderNames = []string{"Revenue", "Net Income", "Total Assets"}

// rawKeyFigure tolerates the shapes models actually return: values may be
// strings or numbers, and source pages may be numbers, numeric strings,
// or absent.
type rawKeyFigure struct {
	Name       string `json:"name"`
	Value      any    `json:"value"`
	SourcePage any    `json:"source_page"`
}

// ParseKeyFigures recovers key figures from a raw completion response.
// It tries, in order: decoding a JSON array embedded in the response
// (tolerating markdown fences and repairing malformed keys), a
// line-oriented fallback for name/value/source-page listings, and finally
// the fixed placeholders. It never returns an empty slice.
func ParseKeyFigures(response string) []core.KeyFigure {
	if figures := parseFigureJSON(response); len(figures) > 0 {
		return figures
	}
	if figures := parseFigureLines(response); len(figures) > 0 {
		return figures
	}
	return placeholderFigures()
}

// parseFigureJSON extracts and decodes the first JSON array found in the
// response. Returns nil when no array can be decoded.
func parseFigureJSON(response string) []core.KeyFigure {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	// The array is often embedded in surrounding prose
	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end <= start {
		return nil
	}
	payload := cleaned[start : end+1]

	var raw []rawKeyFigure
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		repaired := repairJSON(payload)
		if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
			slog.Debug("failed to decode key figure JSON", "error", err)
			return nil
		}
	}

	figures := make([]core.KeyFigure, 0, len(raw))
	for _, r := range raw {
		name := strings.TrimSpace(r.Name)
		value := stringifyValue(r.Value)
		if name == "" || value == "" {
			continue
		}
		figures = append(figures, core.KeyFigure{
			Name:       name,
			Value:      value,
			SourcePage: pageNumber(r.SourcePage),
		})
	}
	return figures
}

// parseFigureLines recovers figures from listing-style responses such as
//
//	Name: Revenue
//	Value: $1.25 billion
//	Source page: 12
//
// A figure is emitted once both name and value have been seen; a new name
// starts the next figure.
func parseFigureLines(response string) []core.KeyFigure {
	var figures []core.KeyFigure
	var current core.KeyFigure

	flush := func() {
		if current.Name != "" && current.Value != "" {
			figures = append(figures, current)
		}
		current = core.KeyFigure{}
	}

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimLeft(strings.TrimSpace(line), "-*• \t")
		key, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}

		switch normalizeFigureKey(key) {
		case "name", "figure", "metric":
			flush()
			current.Name = rest
		case "value", "amount":
			current.Value = rest
		case "sourcepage", "page":
			if n, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil && n > 0 {
				current.SourcePage = n
			}
		}
	}
	flush()

	return figures
}

func normalizeFigureKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, " ", "")
	return strings.ReplaceAll(key, "_", "")
}

// stringifyValue renders a decoded JSON value the way the model printed
// it where possible. Unsupported shapes render empty and drop the figure.
func stringifyValue(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		if value == math.Trunc(value) && math.Abs(value) < 1e15 {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return ""
	}
}

// pageNumber coerces a source page of any tolerated shape to an int.
// Unusable values report 0, meaning unattributed.
func pageNumber(v any) int {
	switch value := v.(type) {
	case float64:
		if value > 0 {
			return int(value)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func placeholderFigures() []core.KeyFigure {
	figures := make([]core.KeyFigure, 0, len(placeholderNames))
	for _, name := range placeholderNames {
		figures = append(figures, core.KeyFigure{Name: name, Value: "Not found"})
	}
	return figures
}
