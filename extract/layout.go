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


package extract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/finsift/core"
)

const (
	// pagesPerSection groups extracted pages into the coarse sections that
	// become parent blocks.
	pagesPerSection = 5

	// fullDocumentTitle names the single section produced for text that
	// carries no page markers.
	fullDocumentTitle = "Full Document"

	// metadataUnknown fills ticker and fiscal year when the filename does
	// not follow the TICKER_YEAR naming convention.
	metadataUnknown = "UNKNOWN"
)

var pageMarkerPattern = regexp.MustCompile(`(?m)^--- Page (\d+) ---$`)

// PageMarker formats the marker line preceding each extracted PDF page.
func PageMarker(page int) string {
	return fmt.Sprintf("--- Page %d ---", page)
}

// ParseLayout turns extracted text into the structured layout the chunker
// consumes. Page-marked text is grouped into sections of up to
// pagesPerSection pages, titled by their page range; text without markers
// becomes a single full-document section. Ticker and fiscal year are read
// from TICKER_YEAR style filenames.
func ParseLayout(text, filename string) *core.DocumentLayout {
	base := filepath.Base(filename)
	ticker, fiscalYear := parseDocumentName(base)

	layout := &core.DocumentLayout{
		Ticker:     ticker,
		FiscalYear: fiscalYear,
		Filename:   base,
	}

	pages := splitPages(text)
	if len(pages) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return layout
		}
		layout.Sections = []core.Section{{
			Title:     fullDocumentTitle,
			Content:   trimmed,
			PageStart: 1,
		}}
		return layout
	}

	for start := 0; start < len(pages); start += pagesPerSection {
		end := start + pagesPerSection
		if end > len(pages) {
			end = len(pages)
		}
		group := pages[start:end]

		contents := make([]string, 0, len(group))
		for _, p := range group {
			contents = append(contents, p.content)
		}
		layout.Sections = append(layout.Sections, core.Section{
			Title:     sectionTitle(group[0].number, group[len(group)-1].number),
			Content:   strings.TrimSpace(strings.Join(contents, "\n\n")),
			PageStart: group[0].number,
		})
	}
	return layout
}

// page is one marker-delimited region of extracted text.
type page struct {
	number  int
	content string
}

// splitPages slices marker-delimited text into pages. Returns nil when the
// text carries no page markers.
func splitPages(text string) []page {
	markers := pageMarkerPattern.FindAllStringSubmatchIndex(text, -1)
	if len(markers) == 0 {
		return nil
	}

	pages := make([]page, 0, len(markers))
	for i, m := range markers {
		number, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || number < 1 {
			number = i + 1
		}
		contentStart := m[1]
		contentEnd := len(text)
		if i+1 < len(markers) {
			contentEnd = markers[i+1][0]
		}
		pages = append(pages, page{
			number:  number,
			content: strings.TrimSpace(text[contentStart:contentEnd]),
		})
	}
	return pages
}

func sectionTitle(first, last int) string {
	if first == last {
		return fmt.Sprintf("Page %d", first)
	}
	return fmt.Sprintf("Pages %d-%d", first, last)
}

// parseDocumentName reads ticker and fiscal year from filenames following
// the TICKER_YEAR convention, e.g. AAPL_2024.pdf.
func parseDocumentName(base string) (ticker, fiscalYear string) {
	name := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(name, "_")
	if len(parts) >= 2 && parts[0] != "" && parts[1] != "" {
		return parts[0], parts[1]
	}
	return metadataUnknown, metadataUnknown
}
