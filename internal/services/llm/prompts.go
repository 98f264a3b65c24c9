package llm

import (
	"context"
	"fmt"

	"TradeSentry/internal/domain/models"
	domsvc "TradeSentry/internal/domain/service"
	"TradeSentry/pkg/util"
)

const verdictSystem = `You are 'TradeSentry', a Senior Quantitative Risk Manager at a top hedge fund.
Your goal is to synthesize conflicting data into a clear Buy/Sell/Hold decision.

RULES:
1. Be conservative. If Trend is UP but Price < Pivot, recommend 'WAIT'.
2. If Trend is DOWN and Price < Pivot, recommend 'SELL'.
3. Use the provided Stop Loss levels in your advice.
4. Output format: A concise decision and a 2-sentence explanation.`

const verdictUser = `Analyze %s. Here is the real-time data:

[1. MARKET STRUCTURE]
- Current Price: %.2f
- Pivot Point (Center): %.2f
- Resistance (Target): %.2f
- Support (Stop Loss): %.2f

[2. PREDICTIVE MODELS]
- Trend Model: %s (Confidence: %.2f%%)
- News Sentiment: %s

TASK:
Based on this, provide:
1. Verdict: (STRONG BUY | BUY | WAIT/HOLD | SELL | STRONG SELL)
2. Reasoning: Why? (Reference the Pivot levels and Model confidence).`

const chatSystem = `You are a helpful financial assistant for the TradeSentry platform.
Use the following real-time data to answer the user's question about %s.

CONTEXT DATA:
STOCK: %s
LIVE MARKET DATA:
- Current Price: %s
- AI Trend Prediction: %s
- Trend Confidence: %s%%
- Key Pivot Point: %s
- Resistance (Target): %s
- Support (Stop Loss): %s
- News Sentiment: %s

RULES:
1. Only answer based on the data provided above.
2. Keep answers short, factual, and professional.
3. If the user asks for advice, refer them to the specific Support/Resistance levels.`

// completer is the transport the prompt adapters need.
type completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Analyst renders verdict and chat prompts over a chat completion client.
type Analyst struct {
	llm completer
}

func NewAnalyst(c *Client) *Analyst {
	return &Analyst{llm: c}
}

// Verdict asks the model for a trading decision over the aggregated signals.
func (a *Analyst) Verdict(ctx context.Context, in models.VerdictInput) (string, error) {
	user := fmt.Sprintf(verdictUser,
		in.Symbol,
		in.Price,
		in.Pivots.PivotPoint,
		in.Pivots.Resistance1,
		in.Pivots.Support1,
		in.Trend.Label, in.Trend.Confidence,
		in.Sentiment.Label,
	)
	return a.llm.Complete(ctx, verdictSystem, user)
}

// Answer replies to a follow-up question using a previously returned analysis.
func (a *Analyst) Answer(ctx context.Context, in models.ChatInput) (string, error) {
	return a.llm.Complete(ctx, chatContext(in.Symbol, in.Context), in.Question)
}

func chatContext(symbol string, data map[string]interface{}) string {
	field := func(path ...string) string {
		v, _ := util.Lookup(data, path...)
		return util.AsString(v)
	}

	return fmt.Sprintf(chatSystem,
		symbol,
		symbol,
		field("price"),
		field("trend_signal", "signal"),
		field("trend_signal", "confidence"),
		field("support_resistance", "pivot_point"),
		field("support_resistance", "resistance", "target_1"),
		field("support_resistance", "support", "stop_1"),
		field("sentiment_signal"),
	)
}

var (
	_ domsvc.Verdicter     = (*Analyst)(nil)
	_ domsvc.ChatResponder = (*Analyst)(nil)
)
