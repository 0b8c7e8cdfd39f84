package domain

import (
	"fmt"
	"sort"
)

// AgentDefinition describes one required agent role within a pattern.
type AgentDefinition struct {
	Role      string
	Purpose   string
	KeySkills []string
}

// PatternDefinition is compiled-in reference data describing an agentic
// orchestration pattern. Definitions are immutable; generated blueprints
// are validated against them.
type PatternDefinition struct {
	Name         string
	AgentCount   int
	Agents       []AgentDefinition
	Coordination string
	RiskProfile  string
	Complexity   string
}

var patternCatalog = map[string]PatternDefinition{
	"Tool-Use": {
		Name:       "Tool-Use",
		AgentCount: 1,
		Agents: []AgentDefinition{
			{
				Role:      "Tool-Use Agent",
				Purpose:   "Executes well-scoped tasks by invoking external tools and APIs",
				KeySkills: []string{"tool selection", "API integration", "result synthesis"},
			},
		},
		Coordination: "Single agent with direct tool invocation; no inter-agent coordination required",
		RiskProfile:  "Low",
		Complexity:   "Low",
	},
	"ReAct": {
		Name:       "ReAct",
		AgentCount: 1,
		Agents: []AgentDefinition{
			{
				Role:      "Reasoning Agent",
				Purpose:   "Interleaves explicit reasoning steps with actions, observing results before each next step",
				KeySkills: []string{"chain-of-thought reasoning", "action planning", "observation analysis"},
			},
		},
		Coordination: "Single agent alternating thought and action in a closed loop",
		RiskProfile:  "Low",
		Complexity:   "Medium",
	},
	"Self-Reflection": {
		Name:       "Self-Reflection",
		AgentCount: 2,
		Agents: []AgentDefinition{
			{
				Role:      "Generator Agent",
				Purpose:   "Produces initial outputs for the task at hand",
				KeySkills: []string{"content generation", "task execution"},
			},
			{
				Role:      "Critic Agent",
				Purpose:   "Reviews generator output and produces actionable revision feedback",
				KeySkills: []string{"quality assessment", "error detection", "feedback articulation"},
			},
		},
		Coordination: "Generator-critic loop; critic feedback drives bounded revision cycles",
		RiskProfile:  "Low",
		Complexity:   "Medium",
	},
	"Plan-and-Execute": {
		Name:       "Plan-and-Execute",
		AgentCount: 3,
		Agents: []AgentDefinition{
			{
				Role:      "Planner Agent",
				Purpose:   "Decomposes the objective into an ordered task plan",
				KeySkills: []string{"task decomposition", "dependency analysis"},
			},
			{
				Role:      "Executor Agent",
				Purpose:   "Carries out planned tasks in order, reporting results",
				KeySkills: []string{"task execution", "tool use", "progress reporting"},
			},
			{
				Role:      "Reviewer Agent",
				Purpose:   "Verifies executed work against the plan and triggers replanning when needed",
				KeySkills: []string{"verification", "gap analysis"},
			},
		},
		Coordination: "Sequential pipeline with feedback edge from reviewer back to planner",
		RiskProfile:  "Medium",
		Complexity:   "Medium",
	},
	"Manager-Workers": {
		Name:       "Manager-Workers",
		AgentCount: 4,
		Agents: []AgentDefinition{
			{
				Role:      "Manager Agent",
				Purpose:   "Assigns work, tracks progress, and merges worker output",
				KeySkills: []string{"delegation", "progress tracking", "result aggregation"},
			},
			{
				Role:      "Research Worker",
				Purpose:   "Gathers and validates information needed by the team",
				KeySkills: []string{"information retrieval", "source validation"},
			},
			{
				Role:      "Analysis Worker",
				Purpose:   "Transforms gathered information into structured findings",
				KeySkills: []string{"data analysis", "pattern recognition"},
			},
			{
				Role:      "Output Worker",
				Purpose:   "Produces the final deliverable from the team's findings",
				KeySkills: []string{"synthesis", "formatting", "quality control"},
			},
		},
		Coordination: "Hub-and-spoke; manager delegates to workers and owns the merged result",
		RiskProfile:  "Medium",
		Complexity:   "High",
	},
	"Voting-Ensemble": {
		Name:       "Voting-Ensemble",
		AgentCount: 3,
		Agents: []AgentDefinition{
			{
				Role:      "Proposer Agent A",
				Purpose:   "Independently produces a candidate solution",
				KeySkills: []string{"independent reasoning", "solution design"},
			},
			{
				Role:      "Proposer Agent B",
				Purpose:   "Independently produces a candidate solution with a different strategy",
				KeySkills: []string{"independent reasoning", "alternative strategies"},
			},
			{
				Role:      "Arbiter Agent",
				Purpose:   "Compares candidates and selects or merges the best answer",
				KeySkills: []string{"comparative evaluation", "consensus building"},
			},
		},
		Coordination: "Parallel independent proposals resolved by an arbiter vote",
		RiskProfile:  "Low",
		Complexity:   "High",
	},
}

// LookupPattern returns the definition for the named pattern.
func LookupPattern(name string) (PatternDefinition, error) {
	def, ok := patternCatalog[name]
	if !ok {
		return PatternDefinition{}, fmt.Errorf("unknown pattern %q (valid patterns: %v)", name, PatternNames())
	}
	return def, nil
}

// PatternNames returns the catalog's pattern names in sorted order.
func PatternNames() []string {
	names := make([]string, 0, len(patternCatalog))
	for name := range patternCatalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateCompliance checks a generated blueprint against the named
// pattern's definition and returns every violation found. It never
// mutates or repairs the blueprint; callers decide how to react. An
// empty slice means the blueprint is compliant.
func ValidateCompliance(b *Blueprint, patternName string) []string {
	violations := []string{}

	def, ok := patternCatalog[patternName]

	if b.SelectedPattern != patternName {
		violations = append(violations, "Pattern mismatch")
	}
	if ok && len(b.DigitalTeam) != def.AgentCount {
		violations = append(violations, "Agent count mismatch")
	}
	if b.BusinessObjective == "" {
		violations = append(violations, "Missing business objective")
	}
	if b.PatternRationale == "" {
		violations = append(violations, "Missing pattern rationale")
	}
	if len(b.KPIImprovements) < 3 {
		violations = append(violations, "KPI improvements must have at least 3 items")
	}

	return violations
}
