package models

// Roadmap is a static catalog entry, not persisted. The catalog lives in
// the roadmap service; only per-user RoadmapProgress is stored.
type Roadmap struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Difficulty  string   `json:"difficulty"`
	Topics      []string `json:"topics"`
	Resources   []string `json:"resources"`
}

type RoadmapPhaseTopic struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Resources     []string `json:"resources"`
	EstimatedTime string   `json:"estimatedTime"`
}

type RoadmapPhase struct {
	Phase    string              `json:"phase"`
	Duration string              `json:"duration"`
	Topics   []RoadmapPhaseTopic `json:"topics"`
}

// GeneratedRoadmap is the AI-built learning path returned by the
// related-roadmaps endpoint.
type GeneratedRoadmap struct {
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	Phases           []GeneratedRoadmapPhase `json:"phases"`
	TotalDuration    string                  `json:"totalDuration"`
	Difficulty       string                  `json:"difficulty"`
	LearningOutcomes []string                `json:"learningOutcomes"`
	NextSteps        []string                `json:"nextSteps"`
}

type GeneratedRoadmapPhase struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Topics        []string `json:"topics"`
	Duration      string   `json:"duration"`
	Objectives    []string `json:"objectives"`
	Prerequisites []string `json:"prerequisites"`
}
