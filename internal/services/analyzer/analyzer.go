package analyzer

import (
	"fmt"
	"strings"
)

// Sentiment labels
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Analysis is the fixed-shape summary derived from a call transcript.
type Analysis struct {
	Intent      string   `json:"intent"`
	Sentiment   string   `json:"sentiment"`
	ActionItems []string `json:"action_items"`
	Summary     string   `json:"summary"`
}

// Analyzer derives an Analysis from English text using a keyword table.
// It is pure: no I/O, no state, identical input gives identical output.
type Analyzer struct {
	table Table
}

// New creates an Analyzer over the given keyword table.
// A zero table falls back to DefaultTable.
func New(table Table) *Analyzer {
	if len(table.Intents) == 0 && len(table.Positive) == 0 {
		table = DefaultTable()
	}
	return &Analyzer{table: table}
}

// Analyze maps English text to an Analysis. Matching is case-insensitive
// substring presence; intent rules are evaluated in table order and the
// first match wins.
func (a *Analyzer) Analyze(text string) Analysis {
	lower := strings.ToLower(text)

	return Analysis{
		Intent:      a.detectIntent(lower),
		Sentiment:   a.detectSentiment(lower),
		ActionItems: a.extractActions(lower),
		Summary:     summarize(text),
	}
}

func (a *Analyzer) detectIntent(lower string) string {
	for _, rule := range a.table.Intents {
		if containsAny(lower, rule.Keywords) {
			return rule.Tag
		}
	}
	return a.table.FallbackIntent
}

func (a *Analyzer) detectSentiment(lower string) string {
	positive := countMatches(lower, a.table.Positive)
	negative := countMatches(lower, a.table.Negative)

	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func (a *Analyzer) extractActions(lower string) []string {
	var items []string
	for _, rule := range a.table.Actions {
		if !containsAny(lower, rule.Any) {
			continue
		}
		if len(rule.All) > 0 && !containsAll(lower, rule.All) {
			continue
		}
		items = append(items, rule.Item)
	}
	if len(items) == 0 && a.table.FallbackAction != "" {
		items = append(items, a.table.FallbackAction)
	}
	return items
}

// summarize keeps short text whole and clips long text to its head and tail.
func summarize(text string) string {
	runes := []rune(text)
	if len(runes) <= 150 {
		return text
	}
	return string(runes[:100]) + "..." + string(runes[len(runes)-50:])
}

// FormatText renders the analysis into the flat text column stored on the
// call record, mirroring the layout the history view expects.
func FormatText(a Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Intent:** %s\n", a.Intent)
	fmt.Fprintf(&b, "**Sentiment:** %s\n", a.Sentiment)
	b.WriteString("**Action Items:**\n")
	for _, item := range a.ActionItems {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	fmt.Fprintf(&b, "**Summary:** %s\n", a.Summary)
	return b.String()
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func containsAll(haystack string, needles []string) bool {
	for _, n := range needles {
		if !strings.Contains(haystack, n) {
			return false
		}
	}
	return true
}

func countMatches(haystack string, needles []string) int {
	count := 0
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, n) {
			count++
		}
	}
	return count
}
