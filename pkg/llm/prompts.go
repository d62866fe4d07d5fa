package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/EnZ0cez/StockAgent/pkg/news"
)

const analysisSystemPrompt = `You are a senior equity research analyst. You receive collected market,
news and financial data for one stock and produce a comprehensive investment
analysis covering:
1. Current stock performance
2. News sentiment impact
3. Financial health assessment
4. Risk factors
5. Investment recommendation (Buy/Hold/Sell)

Output as JSON only, no other text:
{
  "summary": "Brief overview",
  "performance_analysis": "Detailed performance analysis",
  "sentiment_analysis": "News sentiment impact",
  "financial_health": "Financial health assessment",
  "risk_factors": ["List of risk factors"],
  "recommendation": "Buy/Hold/Sell with reasoning",
  "confidence_score": 0.8,
  "timestamp": "2024-01-01T00:00:00Z"
}`

const newsSummarySystemPrompt = `You are a financial news analyst. Given recent news articles about a stock,
provide:
1. Overall sentiment summary (2-3 sentences)
2. Impact analysis on stock price (positive/negative/neutral)
3. Key themes and topics mentioned
4. Confidence level in sentiment assessment (0-1)

Output as JSON only, no other text:
{
  "summary": "Overall sentiment summary",
  "impact_analysis": "Impact on stock price",
  "key_themes": ["theme1", "theme2"],
  "sentiment": "positive/negative/neutral",
  "confidence": 0.8
}`

const intentSystemPrompt = `You classify messages sent to a stock analysis assistant.

Classify the intent as one of:
1. "new_analysis" - user wants to analyze a new stock
2. "follow_up" - user asks follow-up questions about the previous analysis
3. "clarification" - user asks for clarification of the previous analysis
4. "comparison" - user wants to compare stocks
5. "general_question" - general question about investing or markets
6. "unknown" - cannot determine intent

Also extract stock symbols, time periods, specific questions and comparison
parameters mentioned in the message.

Output as JSON only, no other text:
{
  "type": "intent_type",
  "confidence": 0.8,
  "symbols": ["AAPL", "MSFT"],
  "time_period": "1y",
  "specific_questions": ["What if interest rates rise?"],
  "comparison_parameters": ["performance", "financial_health"]
}`

func analysisUserPrompt(input AnalysisInput) string {
	return fmt.Sprintf(`Analyze the following stock data for %s:

Stock Data: %s

News Sentiment: %s

Financial Data: %s`,
		input.Symbol,
		rawSection(input.StockData),
		rawSection(input.NewsData),
		rawSection(input.FinancialData))
}

func rawSection(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "Not available"
	}
	return string(raw)
}

// newsUserPrompt renders up to eight articles, truncating long content so
// the prompt stays within the configured token limit.
func newsUserPrompt(symbol string, articles []news.Article) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "News articles about %s stock:\n\n", symbol)

	for i, a := range articles {
		if i >= 8 {
			break
		}
		content := a.Content
		if len(content) > 300 {
			content = content[:300] + "..."
		}
		fmt.Fprintf(&sb, "Article %d: %s\n", i+1, a.Title)
		fmt.Fprintf(&sb, "Source: %s\n", a.Publisher)
		fmt.Fprintf(&sb, "Content: %s\n\n", content)
	}

	return sb.String()
}

func intentUserPrompt(message string, ictx IntentContext) string {
	return fmt.Sprintf(`User message: %q

Current context:
- Previous analysis symbol: %s
- Analysis complete: %t`,
		message, orNone(ictx.PreviousSymbol), ictx.AnalysisComplete)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
