package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswerResult_Citations(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{
			name: "single citation",
			text: "Paris is the capital of France [Source 1].",
			want: []int{1},
		},
		{
			name: "multiple citations in order",
			text: "See [Source 2] and also [Source 1].",
			want: []int{2, 1},
		},
		{
			name: "duplicate citations collapse",
			text: "[Source 1] and again [Source 1].",
			want: []int{1},
		},
		{
			name: "no citations",
			text: "The context does not contain enough information.",
			want: nil,
		},
		{
			name: "multi-digit index",
			text: "As noted in [Source 12].",
			want: []int{12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := AnswerResult{Text: tt.text}
			assert.Equal(t, tt.want, r.Citations())
		})
	}
}

func TestAnswerResult_CitationsResolvable(t *testing.T) {
	sources := []AnswerSource{
		{Index: 1, Excerpt: "first"},
		{Index: 2, Excerpt: "second"},
	}

	resolvable := AnswerResult{Text: "Both [Source 1] and [Source 2] agree.", Sources: sources}
	assert.True(t, resolvable.CitationsResolvable())

	dangling := AnswerResult{Text: "According to [Source 3].", Sources: sources}
	assert.False(t, dangling.CitationsResolvable())

	uncited := AnswerResult{Text: "No markers here.", Sources: sources}
	assert.True(t, uncited.CitationsResolvable())
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAssistant.IsValid())
	assert.False(t, Role("system").IsValid())
	assert.False(t, Role("").IsValid())
}
