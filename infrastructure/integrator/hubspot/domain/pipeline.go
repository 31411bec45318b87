package domain

type StageMetadata struct {
	IsClosed    string `json:"isClosed"`
	Probability string `json:"probability,omitempty"`
}

type Stage struct {
	ID           string        `json:"id"`
	Label        string        `json:"label"`
	DisplayOrder int           `json:"displayOrder"`
	Metadata     StageMetadata `json:"metadata"`
}

type Pipeline struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Stages []Stage `json:"stages"`
}

type PipelinesResponse struct {
	Results []Pipeline `json:"results"`
}
