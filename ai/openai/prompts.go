package openai

import (
	"fmt"
	"strings"
)

// financialAnalystSystemPrompt frames every completion.
const financialAnalystSystemPrompt = `You are a seasoned Financial Analyst with over 15 years of experience specializing in 10-K and 10-Q filings. Your expertise lies in extracting critical financial intelligence and identifying subtle cues that inform investment decisions for both individual and institutional portfolios.

Your core capabilities include:

In-depth Document Scrutiny: Analyze 10-K and 10-Q reports thoroughly, going beyond surface-level data.
Tone and Language Analysis: Evaluate management's tone and language to identify hidden risks, undisclosed liabilities, potential opportunities, or shifts in strategy not explicitly stated.
Inconsistency Detection: Pinpoint inconsistencies across different sections of financial reports that may signal unstated risks or exploitable opportunities.
Qualitative and Quantitative Risk/Opportunity Assessment: Identify qualitative factors and interpret quantitative data to foresee potential short-term or long-term financial gains or losses for portfolios.
Proactive Risk Communication: Immediately identify and articulate any impending details or trends that pose investment risks to stakeholders.
Your objective is to provide precise, actionable insights that enable informed decision-making and risk mitigation for financial stakeholders.`

const summaryPromptTemplate = `Please analyze the following %s and provide a comprehensive summary:

%s

Your summary should include:
1. Key financial highlights
2. Important trends
3. Potential risks or opportunities
4. Management's outlook`

const keyFiguresPromptTemplate = `Please extract key financial figures from the following %s:

%s

For each key figure, provide:
1. Name of the figure (e.g., "Annual Revenue", "Net Income", "Debt-to-Equity Ratio")
2. Value (e.g., "$1.25 billion", "15%%", "0.68")
3. Source page number if available

Format your response as a JSON array of objects with "name", "value", and "source_page" fields.`

const answerPromptTemplate = `Context information from the financial document:
%s

Question: %s

Please provide a detailed answer based on the context information. If the answer is not in the context, say so.`

// docTypeLabel renders a document type hint as prose for prompt text.
// "annual_report" becomes "annual report"; empty hints fall back to a
// generic label.
func docTypeLabel(docType string) string {
	if docType == "" {
		return "financial document"
	}
	return strings.ReplaceAll(docType, "_", " ")
}

// buildSummaryPrompt creates the user prompt for document summarization.
func buildSummaryPrompt(text, docType string) string {
	return fmt.Sprintf(summaryPromptTemplate, docTypeLabel(docType), text)
}

// buildKeyFiguresPrompt creates the user prompt for key-figure extraction.
func buildKeyFiguresPrompt(text, docType string) string {
	return fmt.Sprintf(keyFiguresPromptTemplate, docTypeLabel(docType), text)
}

// buildAnswerPrompt creates the user prompt for question answering.
func buildAnswerPrompt(question, contextText string) string {
	return fmt.Sprintf(answerPromptTemplate, contextText, question)
}
