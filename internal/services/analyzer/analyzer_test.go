package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeIntent(t *testing.T) {
	a := New(DefaultTable())

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "refund request",
			text:     "Hello, I want a refund for my last order",
			expected: "sales_inquiry", // "order" matches first in table order
		},
		{
			name:     "refund without sales words",
			text:     "Hello, I want a refund",
			expected: "refund_request",
		},
		{
			name:     "sales inquiry",
			text:     "What is the price of the premium plan?",
			expected: "sales_inquiry",
		},
		{
			name:     "technical support",
			text:     "My device is not working since yesterday",
			expected: "technical_support",
		},
		{
			name:     "information request",
			text:     "Could you give me more details about your services",
			expected: "information_request",
		},
		{
			name:     "appointment",
			text:     "I would like to schedule a visit next week",
			expected: "appointment",
		},
		{
			name:     "fallback",
			text:     "Just calling to say hi",
			expected: "general_inquiry",
		},
		{
			name:     "case insensitive",
			text:     "I WANT TO CANCEL MY SUBSCRIPTION",
			expected: "refund_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := a.Analyze(tt.text)
			assert.Equal(t, tt.expected, result.Intent)
		})
	}
}

func TestAnalyzeSentiment(t *testing.T) {
	a := New(DefaultTable())

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"positive", "Thank you so much, this is excellent service", SentimentPositive},
		{"negative", "This is terrible, I am very frustrated", SentimentNegative},
		{"neutral no keywords", "I am calling about my account", SentimentNeutral},
		{"tied counts stay neutral", "The service was good but the wait was bad", SentimentNeutral},
		{"negative outweighs positive", "Thanks, but this is awful and I am angry", SentimentNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := a.Analyze(tt.text)
			assert.Equal(t, tt.expected, result.Sentiment)
		})
	}
}

func TestAnalyzeActionItems(t *testing.T) {
	a := New(DefaultTable())

	t.Run("callback", func(t *testing.T) {
		result := a.Analyze("Please call back tomorrow morning")
		assert.Contains(t, result.ActionItems, "Schedule callback")
	})

	t.Run("email requires both words", func(t *testing.T) {
		result := a.Analyze("Can you send me the contract by email")
		assert.Contains(t, result.ActionItems, "Send email with information")

		result = a.Analyze("Can you send me the contract")
		assert.NotContains(t, result.ActionItems, "Send email with information")
	})

	t.Run("refund and appointment stack", func(t *testing.T) {
		result := a.Analyze("I want a refund and then schedule a new appointment")
		assert.Contains(t, result.ActionItems, "Process refund/return request")
		assert.Contains(t, result.ActionItems, "Schedule appointment")
	})

	t.Run("fallback action when nothing matches", func(t *testing.T) {
		result := a.Analyze("Just calling to say hi")
		assert.Equal(t, []string{"Follow up with customer"}, result.ActionItems)
	})
}

func TestSummarize(t *testing.T) {
	a := New(DefaultTable())

	t.Run("short text kept whole", func(t *testing.T) {
		text := "A short call transcript"
		result := a.Analyze(text)
		assert.Equal(t, text, result.Summary)
	})

	t.Run("long text clipped to head and tail", func(t *testing.T) {
		text := strings.Repeat("a", 300)
		result := a.Analyze(text)
		assert.Len(t, result.Summary, 153)
		assert.Equal(t, strings.Repeat("a", 100)+"..."+strings.Repeat("a", 50), result.Summary)
	})

	t.Run("boundary at 150 chars", func(t *testing.T) {
		text := strings.Repeat("b", 150)
		result := a.Analyze(text)
		assert.Equal(t, text, result.Summary)
	})
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := New(DefaultTable())
	text := "Thank you, I want a refund and please call back"

	first := a.Analyze(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, a.Analyze(text))
	}
}

func TestFormatText(t *testing.T) {
	analysis := Analysis{
		Intent:      "refund_request",
		Sentiment:   SentimentNegative,
		ActionItems: []string{"Process refund/return request"},
		Summary:     "I want a refund",
	}

	formatted := FormatText(analysis)
	assert.Contains(t, formatted, "**Intent:** refund_request")
	assert.Contains(t, formatted, "**Sentiment:** negative")
	assert.Contains(t, formatted, "- Process refund/return request")
	assert.Contains(t, formatted, "**Summary:** I want a refund")
}

func TestNewFallsBackToDefaultTable(t *testing.T) {
	a := New(Table{})
	result := a.Analyze("I want a refund")
	assert.Equal(t, "refund_request", result.Intent)
}
