package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedText builds marker-delimited text with one body line per page.
func pagedText(pages int) string {
	var b strings.Builder
	for i := 1; i <= pages; i++ {
		if i > 1 {
			b.WriteString("\n\n")
		}
		b.WriteString(PageMarker(i))
		b.WriteString("\n")
		fmt.Fprintf(&b, "Content of page %d.", i)
	}
	return b.String()
}

func TestParseLayout_NoMarkers(t *testing.T) {
	layout := ParseLayout("  Plain text with no page structure.  ", "AAPL_2024.txt")

	require.Len(t, layout.Sections, 1)
	assert.Equal(t, "Full Document", layout.Sections[0].Title)
	assert.Equal(t, "Plain text with no page structure.", layout.Sections[0].Content)
	assert.Equal(t, 1, layout.Sections[0].PageStart)
}

func TestParseLayout_EmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n\t"} {
		layout := ParseLayout(text, "AAPL_2024.txt")
		assert.Empty(t, layout.Sections, "blank text yields zero sections")
		assert.Equal(t, "AAPL", layout.Ticker, "metadata still parses from the filename")
	}
}

func TestParseLayout_PageGrouping(t *testing.T) {
	layout := ParseLayout(pagedText(12), "MSFT_2023.pdf")

	require.Len(t, layout.Sections, 3, "12 pages group into sections of 5")

	assert.Equal(t, "Pages 1-5", layout.Sections[0].Title)
	assert.Equal(t, 1, layout.Sections[0].PageStart)
	assert.Contains(t, layout.Sections[0].Content, "Content of page 1.")
	assert.Contains(t, layout.Sections[0].Content, "Content of page 5.")
	assert.NotContains(t, layout.Sections[0].Content, "Content of page 6.")

	assert.Equal(t, "Pages 6-10", layout.Sections[1].Title)
	assert.Equal(t, 6, layout.Sections[1].PageStart)

	assert.Equal(t, "Pages 11-12", layout.Sections[2].Title)
	assert.Equal(t, 11, layout.Sections[2].PageStart)
	assert.Contains(t, layout.Sections[2].Content, "Content of page 12.")
}

func TestParseLayout_SinglePage(t *testing.T) {
	layout := ParseLayout(pagedText(1), "TSLA_2022.pdf")

	require.Len(t, layout.Sections, 1)
	assert.Equal(t, "Page 1", layout.Sections[0].Title)
	assert.Equal(t, "Content of page 1.", layout.Sections[0].Content)
}

func TestParseLayout_ExactSectionBoundary(t *testing.T) {
	layout := ParseLayout(pagedText(10), "IBM_2024.pdf")

	require.Len(t, layout.Sections, 2)
	assert.Equal(t, "Pages 1-5", layout.Sections[0].Title)
	assert.Equal(t, "Pages 6-10", layout.Sections[1].Title)
}

func TestParseLayout_DocumentName(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		ticker     string
		fiscalYear string
		base       string
	}{
		{"standard", "AAPL_2024.pdf", "AAPL", "2024", "AAPL_2024.pdf"},
		{"no underscore", "report.pdf", "UNKNOWN", "UNKNOWN", "report.pdf"},
		{"extra parts", "MSFT_2023_Q4.txt", "MSFT", "2023", "MSFT_2023_Q4.txt"},
		{"full path", "/data/uploads/TSLA_2022.md", "TSLA", "2022", "TSLA_2022.md"},
		{"empty part", "_2024.pdf", "UNKNOWN", "UNKNOWN", "_2024.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := ParseLayout("some text", tt.filename)
			assert.Equal(t, tt.ticker, layout.Ticker)
			assert.Equal(t, tt.fiscalYear, layout.FiscalYear)
			assert.Equal(t, tt.base, layout.Filename)
		})
	}
}

func TestParseLayout_MarkerMidLineIgnored(t *testing.T) {
	text := "The report mentions --- Page 9 --- inline, which is not a marker."
	layout := ParseLayout(text, "doc.txt")

	require.Len(t, layout.Sections, 1)
	assert.Equal(t, "Full Document", layout.Sections[0].Title, "inline mentions are not page markers")
}
