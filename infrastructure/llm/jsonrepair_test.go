package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]any
		wantErr bool
	}{
		{
			name:  "clean object",
			input: `{"a":1}`,
			want:  map[string]any{"a": float64(1)},
		},
		{
			name:  "trailing comma",
			input: `{"a":1,}`,
			want:  map[string]any{"a": float64(1)},
		},
		{
			name:  "markdown fence with language tag",
			input: "```json\n{\"a\":1}\n```",
			want:  map[string]any{"a": float64(1)},
		},
		{
			name:  "markdown fence without language tag",
			input: "```\n{\"a\":1}\n```",
			want:  map[string]any{"a": float64(1)},
		},
		{
			name:  "surrounding prose",
			input: `Here you go: {"a":1} thanks!`,
			want:  map[string]any{"a": float64(1)},
		},
		{
			name:  "prose and trailing comma combined",
			input: "Sure!\n```json\n{\"a\": 1, \"b\": [1, 2,],}\n```\nLet me know.",
			want:  map[string]any{"a": float64(1), "b": []any{float64(1), float64(2)}},
		},
		{
			name:  "comma inside string untouched",
			input: `{"text": "one, two,}", "n": 3,}`,
			want:  map[string]any{"text": "one, two,}", "n": float64(3)},
		},
		{
			name:  "escaped quote inside string",
			input: `{"text": "say \"hi\", ok",}`,
			want:  map[string]any{"text": `say "hi", ok`},
		},
		{
			name:  "nested trailing commas",
			input: `{"outer": {"inner": 1,},}`,
			want:  map[string]any{"outer": map[string]any{"inner": float64(1)}},
		},
		{
			name:    "no JSON at all",
			input:   "I cannot help with that.",
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "unbalanced braces",
			input:   `{"a": 1`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSONObject(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSONCandidate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "whitespace trimmed",
			input: "  {\"a\":1}  \n",
			want:  `{"a":1}`,
		},
		{
			name:  "prose before and after",
			input: `The answer is {"a":1}. Anything else?`,
			want:  `{"a":1}`,
		},
		{
			name:  "outermost braces win",
			input: `x {"a": {"b": 2}} y`,
			want:  `{"a": {"b": 2}}`,
		},
		{
			name:  "no braces passes through",
			input: "no json here",
			want:  "no json here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONCandidate(tt.input))
		})
	}
}

func TestRepairJSON_PreservesValidInput(t *testing.T) {
	input := `{"a": 1, "b": "x, y", "c": [1, 2]}`
	assert.Equal(t, input, RepairJSON(input))
}
