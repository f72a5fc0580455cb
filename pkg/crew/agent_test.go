package crew

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAgentSystemPrompt(t *testing.T) {
	prompt := MarketResearcher().SystemPrompt()
	require.True(t, len(prompt) > 0)
	require.Contains(t, prompt, "You are Market Research Analyst.\n")
	require.Contains(t, prompt, "Your personal goal is: Analyze market demand")
	require.Contains(t, prompt, "\n\nYou are an expert at understanding market dynamics")

	bare := Agent{Role: "Tester", Goal: "test"}.SystemPrompt()
	require.Equal(t, "You are Tester.\nYour personal goal is: test", bare)
}

func TestAgentsAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range []Agent{IdeaSpecialist(), MarketResearcher(), TechnicalEvaluator(), BusinessStrategist()} {
		require.NotEmpty(t, a.Name)
		require.False(t, seen[a.Role], a.Role)
		seen[a.Role] = true
	}
}
