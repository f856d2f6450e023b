package ai

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_Template(t *testing.T) {
	p := NewMockProvider()

	got, err := p.Complete(context.Background(), "Follow the conventional commit spec.", "diff --git a/f b/f\n+x")
	require.NoError(t, err)
	assert.Equal(t,
		"Mock Response\nSystem Prompt: Follow the conventional commit spec.\nUser Prompt: diff --git a/f b/f\n+x",
		got)
}

func TestMockProvider_EmptyPrompts(t *testing.T) {
	p := NewMockProvider()

	got, err := p.Complete(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "Mock Response\nSystem Prompt: \nUser Prompt: ", got)
}

func TestMockProvider_IgnoresCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockProvider().Complete(ctx, "s", "u")
	assert.NoError(t, err)
}

// Feature: ai-commit, Property: Deterministic provider is pure
//
// For any pair of prompts, the mock provider never fails, embeds both prompts
// verbatim, and returns the same text on every call.
func TestMockProvider_Pure_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	p := NewMockProvider()

	properties.Property("same inputs give the same templated output", prop.ForAll(
		func(system, user string) bool {
			first, err1 := p.Complete(context.Background(), system, user)
			second, err2 := p.Complete(context.Background(), system, user)
			if err1 != nil || err2 != nil {
				return false
			}
			want := "Mock Response\nSystem Prompt: " + system + "\nUser Prompt: " + user
			return first == second && first == want
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
