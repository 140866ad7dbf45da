package analyzer

// IntentRule maps keywords to an intent tag. Rules are checked in order.
type IntentRule struct {
	Tag      string
	Keywords []string
}

// ActionRule emits an action item when any of Any matches and,
// if set, all of All match too.
type ActionRule struct {
	Item string
	Any  []string
	All  []string
}

// Table is the full keyword configuration for the analyzer.
type Table struct {
	Intents        []IntentRule
	FallbackIntent string
	Positive       []string
	Negative       []string
	Actions        []ActionRule
	FallbackAction string
}

// DefaultTable returns the built-in keyword table for reception calls.
func DefaultTable() Table {
	return Table{
		Intents: []IntentRule{
			{Tag: "sales_inquiry", Keywords: []string{"buy", "purchase", "order", "price", "cost"}},
			{Tag: "technical_support", Keywords: []string{"problem", "issue", "not working", "broken", "fix", "help"}},
			{Tag: "refund_request", Keywords: []string{"cancel", "refund", "return", "complaint"}},
			{Tag: "information_request", Keywords: []string{"information", "details", "tell me", "what is", "how to"}},
			{Tag: "appointment", Keywords: []string{"appointment", "schedule", "book", "meeting"}},
		},
		FallbackIntent: "general_inquiry",
		Positive:       []string{"thank", "great", "good", "excellent", "happy", "satisfied", "love", "appreciate"},
		Negative:       []string{"bad", "terrible", "awful", "hate", "angry", "frustrated", "disappointed", "poor"},
		Actions: []ActionRule{
			{Item: "Schedule callback", Any: []string{"call back", "callback"}},
			{Item: "Send email with information", Any: []string{"send", "forward"}, All: []string{"email"}},
			{Item: "Process refund/return request", Any: []string{"refund", "return"}},
			{Item: "Schedule appointment", Any: []string{"appointment", "schedule"}},
		},
		FallbackAction: "Follow up with customer",
	}
}
