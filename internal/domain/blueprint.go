package domain

// Blueprint is the LLM-produced transformation plan. Field names mirror
// the JSON object the providers are instructed to return; this layer
// validates the document but does not persist it.
type Blueprint struct {
	BusinessObjective string            `json:"businessObjective"`
	SelectedPattern   string            `json:"selectedPattern"`
	PatternRationale  string            `json:"patternRationale"`
	DigitalTeam       []Agent           `json:"digitalTeam"`
	HumanCheckpoints  []HumanCheckpoint `json:"humanCheckpoints"`
	AgenticTimeline   AgenticTimeline   `json:"agenticTimeline"`
	KPIImprovements   []KPIImprovement  `json:"kpiImprovements"`
}

// Agent is one member of the digital team proposed by the model.
type Agent struct {
	Name                 string   `json:"name"`
	Role                 string   `json:"role"`
	CoreResponsibilities []string `json:"coreResponsibilities"`
	Tools                []string `json:"tools"`
	EscalationPath       string   `json:"escalationPath"`
}

// HumanCheckpoint marks a point in the workflow that requires human
// review before the agents proceed.
type HumanCheckpoint struct {
	Stage       string `json:"stage"`
	Description string `json:"description"`
	Criticality string `json:"criticality"`
}

// AgenticTimeline is the phased rollout plan for the digital team.
type AgenticTimeline struct {
	TotalDurationWeeks int             `json:"totalDurationWeeks"`
	Phases             []TimelinePhase `json:"phases"`
}

// TimelinePhase is one stage of the rollout.
type TimelinePhase struct {
	Phase         string   `json:"phase"`
	DurationWeeks int      `json:"durationWeeks"`
	Description   string   `json:"description"`
	Milestones    []string `json:"milestones"`
}

// KPIImprovement is a projected metric change attributed to the
// transformation.
type KPIImprovement struct {
	KPI              string `json:"kpi"`
	CurrentValue     string `json:"currentValue"`
	TargetValue      string `json:"targetValue"`
	ImprovementLogic string `json:"improvementLogic"`
	Timeframe        string `json:"timeframe"`
}
