package application

import (
	"fmt"
	"strings"

	"github.com/ahrav/go-blueprint/internal/domain"
)

// vendorFraming carries the per-vendor reasoning instruction embedded in
// the system prompt. Each vendor responds best to different phrasing.
var vendorFraming = map[string]string{
	"openai": "Use structured output reasoning: organize your analysis into explicit sections before producing the final JSON.",
	"claude": "Use extended thinking: reason carefully through the business context and pattern fit before producing the final JSON.",
	"gemini": "Use adaptive thinking: adjust the depth of your analysis to the complexity of the business objective before producing the final JSON.",
}

// BuildPrompts produces the system and user prompts for generating a
// blueprint with the given pattern and vendor. The prompts repeat the
// agent-count and KPI-minimum requirements several times because vendors
// have been observed to drop single-mention constraints.
func BuildPrompts(vendor string, def domain.PatternDefinition, objective, industry, companyProfile string) (systemPrompt, userPrompt string) {
	framing, ok := vendorFraming[vendor]
	if !ok {
		framing = vendorFraming["openai"]
	}

	var roles strings.Builder
	for i, agent := range def.Agents {
		fmt.Fprintf(&roles, "%d. %s: %s (key skills: %s)\n",
			i+1, agent.Role, agent.Purpose, strings.Join(agent.KeySkills, ", "))
	}

	systemPrompt = fmt.Sprintf(`You are an AI transformation consultant designing agentic AI systems for businesses.

%s

You are designing a blueprint using the %q agentic pattern:
- Coordination mechanism: %s
- Risk profile: %s
- Implementation complexity: %s

The pattern requires EXACTLY %d agent(s) in the digital team. The required roles are:
%s
Respond with a single JSON object with exactly these fields:
{
  "businessObjective": string,
  "selectedPattern": %q,
  "patternRationale": string,
  "digitalTeam": [exactly %d agent objects, each with "name", "role", "coreResponsibilities" (string array), "tools" (string array), "escalationPath"],
  "humanCheckpoints": [objects with "stage", "description", "criticality"],
  "agenticTimeline": {"totalDurationWeeks": number, "phases": [objects with "phase", "durationWeeks", "description", "milestones" (string array)]},
  "kpiImprovements": [AT LEAST 3 objects, each with "kpi", "currentValue", "targetValue", "improvementLogic", "timeframe"]
}

IMPORTANT: kpiImprovements must contain at least 3 entries.
REMINDER: responses with fewer than 3 kpiImprovements entries are invalid and will be rejected.
FINAL CHECK before answering: count your kpiImprovements entries. If there are fewer than 3, add more until there are at least 3.`,
		framing,
		def.Name,
		def.Coordination,
		def.RiskProfile,
		def.Complexity,
		def.AgentCount,
		roles.String(),
		def.Name,
		def.AgentCount,
	)

	var user strings.Builder
	fmt.Fprintf(&user, "Business objective: %s\n", objective)
	if industry != "" {
		fmt.Fprintf(&user, "Industry: %s\n", industry)
	}
	if companyProfile != "" {
		fmt.Fprintf(&user, "Company profile: %s\n", companyProfile)
	}
	fmt.Fprintf(&user, "\nDesign the %q blueprint for this business. Use exactly %d agent(s) in digitalTeam and at least 3 kpiImprovements entries.",
		def.Name, def.AgentCount)

	return systemPrompt, user.String()
}
