package mock

import (
	"context"
	"strings"

	"github.com/poiesic/finsift/ai"
)

// Canned summaries keyed by document type hint.
var mockSummaries = map[string]string{
	ai.DocTypeAnnualReport: `This annual report presents the financial performance and strategic developments of the company for the fiscal year 2024.

Key highlights include:
- Revenue growth of 12.5% year-over-year, reaching $1.25 billion
- Operating margin improvement to 18.3%, up from 16.7% in the previous year
- Successful expansion into three new international markets
- Launch of two major product lines contributing 8% to total revenue
- Strategic acquisition of TechInnovate Inc. for $230 million

The company faced challenges including supply chain disruptions in Q2 and increased regulatory scrutiny in European markets. However, management implemented mitigation strategies including diversification of suppliers and enhanced compliance protocols.

The outlook for 2025 remains positive, with projected revenue growth of 8-10% and continued margin expansion through operational efficiencies and strategic pricing initiatives.`,

	ai.DocTypeQuarterlyReport: `The Q1 2025 quarterly report shows mixed results with some positive developments and ongoing challenges.

Key highlights include:
- Revenue of $328 million, up 5.2% compared to Q1 2024
- Earnings per share of $0.87, slightly below analyst expectations of $0.92
- Operating expenses increased by 7.8% due to ongoing expansion efforts
- Cash reserves of $412 million, providing strong liquidity position
- New customer acquisition up 12% year-over-year

Management has maintained its full-year guidance but acknowledged potential headwinds from increasing raw material costs and competitive pressures in the Asian market.`,

	ai.DocTypeFinancialStatement: `The consolidated financial statements for the fiscal year ending December 31, 2024, present a comprehensive view of the company's financial position.

The balance sheet shows total assets of $3.42 billion, up from $3.18 billion in the previous year. Current assets represent 38% of total assets, with cash and cash equivalents at $412 million. The company maintains a healthy liquidity position with a current ratio of 2.3.

Long-term debt decreased by $85 million to $920 million, improving the debt-to-equity ratio to 0.68. Shareholders' equity increased to $1.35 billion, reflecting retained earnings and minimal share repurchases during the year.

The income statement shows revenue of $1.25 billion and net income of $187 million, representing a net profit margin of 15%.`,
}

// Canned key-figure responses keyed by document type hint. Each value is a
// raw model response containing a JSON array, matching what a live
// completion service returns, so callers exercise their real parsing path.
var mockKeyFigureResponses = map[string]string{
	ai.DocTypeAnnualReport: `[
  {"name": "Annual Revenue", "value": "$1.25 billion", "source_page": 12},
  {"name": "Revenue Growth", "value": "12.5%", "source_page": 12},
  {"name": "Operating Margin", "value": "18.3%", "source_page": 15},
  {"name": "Net Income", "value": "$187 million", "source_page": 18},
  {"name": "Earnings Per Share", "value": "$3.42", "source_page": 18},
  {"name": "Total Assets", "value": "$3.42 billion", "source_page": 45},
  {"name": "Long-term Debt", "value": "$920 million", "source_page": 47},
  {"name": "Debt-to-Equity Ratio", "value": "0.68", "source_page": 48}
]`,
	ai.DocTypeQuarterlyReport: `[
  {"name": "Quarterly Revenue", "value": "$328 million", "source_page": 5},
  {"name": "Revenue Growth (YoY)", "value": "5.2%", "source_page": 5},
  {"name": "Earnings Per Share", "value": "$0.87", "source_page": 6},
  {"name": "Operating Expenses", "value": "$215 million", "source_page": 8},
  {"name": "Cash Reserves", "value": "$412 million", "source_page": 10},
  {"name": "New Customer Growth", "value": "12%", "source_page": 12}
]`,
	ai.DocTypeFinancialStatement: `[
  {"name": "Total Assets", "value": "$3.42 billion", "source_page": 3},
  {"name": "Current Assets", "value": "$1.30 billion", "source_page": 3},
  {"name": "Cash and Equivalents", "value": "$412 million", "source_page": 3},
  {"name": "Current Ratio", "value": "2.3", "source_page": 4},
  {"name": "Long-term Debt", "value": "$920 million", "source_page": 5},
  {"name": "Shareholders' Equity", "value": "$1.35 billion", "source_page": 6},
  {"name": "Revenue", "value": "$1.25 billion", "source_page": 8},
  {"name": "Net Income", "value": "$187 million", "source_page": 8}
]`,
}

// Canned answers chosen by keyword matching on the question.
var mockAnswers = map[string]string{
	"revenue":    "The company reported annual revenue of $1.25 billion for the fiscal year 2024, representing a growth of 12.5% compared to the previous year.",
	"profit":     "The company reported a net income of $187 million for fiscal year 2024, with a net profit margin of 15%.",
	"challenges": "The main challenges faced by the company in 2024 were supply chain disruptions during Q2 and increased regulatory scrutiny in European markets. Management addressed these through supplier diversification and enhanced compliance protocols.",
	"assets":     "The company reported total assets of $3.42 billion, up from $3.18 billion in the previous year, with cash and cash equivalents at $412 million.",
	"debt":       "The company's long-term debt decreased by $85 million to $920 million, improving the debt-to-equity ratio to 0.68.",
	"cash flow":  "The company generated $245 million in operational cash flow, with $120 million used for capital expenditures, $75 million for debt repayment, and $50 million returned to shareholders through dividends.",
	"guidance":   "Management has maintained its full-year guidance despite acknowledging potential headwinds from increasing raw material costs and competitive pressures in the Asian market.",
	"default":    "I don't have enough information to answer this question based on the document. The document may not contain this specific information, or it might be in sections that weren't included in the analysis.",
}

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields and returns
// deterministic financial-analysis data by default.
type MockCompleter struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, returns a canned summary for the document type.
	SummarizeFunc func(ctx context.Context, text, docType string) (string, error)

	// ExtractFiguresFunc is called by ExtractFigures if set.
	// If nil, returns a canned JSON-array response for the document type.
	ExtractFiguresFunc func(ctx context.Context, text, docType string) (string, error)

	// AnswerFunc is called by Answer if set.
	// If nil, answers by keyword matching against canned responses.
	AnswerFunc func(ctx context.Context, question, contextText string) (string, error)

	summarizeCalls int
	figuresCalls   int
	answerCalls    int
}

// NewMockCompleter creates a mock completer with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockCompleter().
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Summarize returns a canned summary for the document type.
func (m *MockCompleter) Summarize(ctx context.Context, text, docType string) (string, error) {
	m.summarizeCalls++

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, text, docType)
	}

	if summary, ok := mockSummaries[docType]; ok {
		return summary, nil
	}
	return mockSummaries[ai.DocTypeAnnualReport], nil
}

// ExtractFigures returns a canned JSON-array response for the document type.
func (m *MockCompleter) ExtractFigures(ctx context.Context, text, docType string) (string, error) {
	m.figuresCalls++

	if m.ExtractFiguresFunc != nil {
		return m.ExtractFiguresFunc(ctx, text, docType)
	}

	if response, ok := mockKeyFigureResponses[docType]; ok {
		return response, nil
	}
	return mockKeyFigureResponses[ai.DocTypeAnnualReport], nil
}

// Answer selects a canned answer by keyword matching on the question.
func (m *MockCompleter) Answer(ctx context.Context, question, contextText string) (string, error) {
	m.answerCalls++

	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, question, contextText)
	}

	return mockAnswers[answerKey(question)], nil
}

// answerKey maps a question to a canned-answer key.
func answerKey(question string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "revenue"):
		return "revenue"
	case strings.Contains(q, "profit"), strings.Contains(q, "income"), strings.Contains(q, "earnings"):
		return "profit"
	case strings.Contains(q, "challenge"), strings.Contains(q, "risk"):
		return "challenges"
	case strings.Contains(q, "asset"):
		return "assets"
	case strings.Contains(q, "debt"):
		return "debt"
	case strings.Contains(q, "cash"), strings.Contains(q, "flow"):
		return "cash flow"
	case strings.Contains(q, "guidance"), strings.Contains(q, "outlook"):
		return "guidance"
	default:
		return "default"
	}
}

// CallCount returns the total number of completion calls across all methods.
func (m *MockCompleter) CallCount() int {
	return m.summarizeCalls + m.figuresCalls + m.answerCalls
}

// SummarizeCount returns the number of times Summarize was called.
func (m *MockCompleter) SummarizeCount() int {
	return m.summarizeCalls
}

// ExtractFiguresCount returns the number of times ExtractFigures was called.
func (m *MockCompleter) ExtractFiguresCount() int {
	return m.figuresCalls
}

// AnswerCount returns the number of times Answer was called.
func (m *MockCompleter) AnswerCount() int {
	return m.answerCalls
}

// Reset clears the call counts and custom functions.
func (m *MockCompleter) Reset() {
	m.summarizeCalls = 0
	m.figuresCalls = 0
	m.answerCalls = 0
	m.SummarizeFunc = nil
	m.ExtractFiguresFunc = nil
	m.AnswerFunc = nil
}
