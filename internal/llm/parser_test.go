package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain json untouched",
			input: `{"isSubscription": true}`,
			want:  `{"isSubscription": true}`,
		},
		{
			name:  "json fence",
			input: "```json\n{\"isSubscription\": true}\n```",
			want:  `{"isSubscription": true}`,
		},
		{
			name:  "bare fence",
			input: "```\n[\"a\", \"b\"]\n```",
			want:  `["a", "b"]`,
		},
		{
			name:  "surrounding whitespace",
			input: "  \n {\"a\": 1} \n ",
			want:  `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.input))
		})
	}
}

func TestDecodeExtraction(t *testing.T) {
	t.Run("full response", func(t *testing.T) {
		content := `{
			"isSubscription": true,
			"serviceName": "Netflix",
			"amount": 15.49,
			"currency": "USD",
			"billingCycle": "Billed monthly",
			"nextRenewalDate": "2026-10-01",
			"category": "Entertainment",
			"description": "Standard Plan"
		}`

		resp, err := decodeExtraction(content)
		require.NoError(t, err)
		assert.True(t, resp.IsSubscription)
		assert.Equal(t, "Netflix", resp.ServiceName)
		assert.InDelta(t, 15.49, resp.Amount, 0.001)
		assert.Equal(t, "Billed monthly", resp.BillingCycle)
		assert.Equal(t, "2026-10-01", resp.NextRenewalDate)
	})

	t.Run("fenced response", func(t *testing.T) {
		resp, err := decodeExtraction("```json\n{\"isSubscription\": false}\n```")
		require.NoError(t, err)
		assert.False(t, resp.IsSubscription)
	})

	t.Run("non-parseable text", func(t *testing.T) {
		_, err := decodeExtraction("I could not find a subscription in this email.")
		assert.Error(t, err)
	})
}

func TestDecodeStringArray(t *testing.T) {
	tips, err := DecodeStringArray("```json\n[\"Cancel unused plans.\", \"Go annual.\"]\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cancel unused plans.", "Go annual."}, tips)

	_, err = DecodeStringArray("{\"tips\": []}")
	assert.Error(t, err)
}
