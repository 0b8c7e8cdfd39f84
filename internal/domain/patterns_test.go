package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compliantBlueprint(pattern string, agents int) *Blueprint {
	team := make([]Agent, agents)
	for i := range team {
		team[i] = Agent{Name: "Agent", Role: "Role"}
	}
	return &Blueprint{
		BusinessObjective: "Reduce support response time by half",
		SelectedPattern:   pattern,
		PatternRationale:  "Matches the workload's coordination needs",
		DigitalTeam:       team,
		KPIImprovements: []KPIImprovement{
			{KPI: "Response time"},
			{KPI: "Resolution rate"},
			{KPI: "CSAT"},
		},
	}
}

func TestPatternCatalog(t *testing.T) {
	assert.Equal(t, []string{
		"Manager-Workers",
		"Plan-and-Execute",
		"ReAct",
		"Self-Reflection",
		"Tool-Use",
		"Voting-Ensemble",
	}, PatternNames())

	wantCounts := map[string]int{
		"Tool-Use":         1,
		"ReAct":            1,
		"Self-Reflection":  2,
		"Plan-and-Execute": 3,
		"Manager-Workers":  4,
		"Voting-Ensemble":  3,
	}

	for name, count := range wantCounts {
		def, err := LookupPattern(name)
		require.NoError(t, err)
		assert.Equal(t, count, def.AgentCount, "pattern %s", name)
		assert.Len(t, def.Agents, count, "pattern %s role list", name)
		assert.NotEmpty(t, def.Coordination)
		assert.NotEmpty(t, def.RiskProfile)
		assert.NotEmpty(t, def.Complexity)
	}
}

func TestLookupPattern_Unknown(t *testing.T) {
	_, err := LookupPattern("Swarm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pattern")
	assert.Contains(t, err.Error(), "Tool-Use")
}

func TestValidateCompliance(t *testing.T) {
	t.Run("compliant blueprint has no violations", func(t *testing.T) {
		b := compliantBlueprint("Manager-Workers", 4)
		assert.Empty(t, ValidateCompliance(b, "Manager-Workers"))
	})

	t.Run("agent count mismatch", func(t *testing.T) {
		b := compliantBlueprint("Manager-Workers", 2)
		violations := ValidateCompliance(b, "Manager-Workers")
		assert.Contains(t, violations, "Agent count mismatch")
	})

	t.Run("pattern mismatch", func(t *testing.T) {
		b := compliantBlueprint("ReAct", 1)
		violations := ValidateCompliance(b, "Tool-Use")
		assert.Contains(t, violations, "Pattern mismatch")
	})

	t.Run("too few KPI improvements", func(t *testing.T) {
		b := compliantBlueprint("ReAct", 1)
		b.KPIImprovements = b.KPIImprovements[:2]
		violations := ValidateCompliance(b, "ReAct")
		assert.Contains(t, violations, "KPI improvements must have at least 3 items")
	})

	t.Run("all checks reported together", func(t *testing.T) {
		b := &Blueprint{SelectedPattern: "Wrong"}
		violations := ValidateCompliance(b, "Manager-Workers")

		assert.ElementsMatch(t, []string{
			"Pattern mismatch",
			"Agent count mismatch",
			"Missing business objective",
			"Missing pattern rationale",
			"KPI improvements must have at least 3 items",
		}, violations)
	})

	t.Run("validation does not mutate the blueprint", func(t *testing.T) {
		b := compliantBlueprint("ReAct", 2)
		_ = ValidateCompliance(b, "ReAct")
		assert.Len(t, b.DigitalTeam, 2)
		assert.Equal(t, "ReAct", b.SelectedPattern)
	})
}
