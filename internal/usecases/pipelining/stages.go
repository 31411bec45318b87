package pipelining

import (
	"strings"

	"github.com/artefactventures/artefact-mcp/internal/domain"
)

// DefaultStages returns the stock HubSpot sales pipeline, used when the CRM
// stage metadata is unavailable.
func DefaultStages() []domain.PipelineStage {
	return []domain.PipelineStage{
		{ID: "appointmentscheduled", Label: "Appointment Scheduled", DisplayOrder: 0},
		{ID: "qualifiedtobuy", Label: "Qualified to Buy", DisplayOrder: 1},
		{ID: "presentationscheduled", Label: "Presentation Scheduled", DisplayOrder: 2},
		{ID: "decisionmakerboughtin", Label: "Decision Maker Bought-In", DisplayOrder: 3},
		{ID: "contractsent", Label: "Contract Sent", DisplayOrder: 4},
	}
}

// IsClosedStage reports whether a deal sits in a terminal stage. Stage sets
// are customizable per deployment, so this trusts the is_closed flag first
// and falls back to label matching tolerant of variants like "Closed - Won".
func IsClosedStage(deal domain.Deal) bool {
	if deal.IsClosed {
		return true
	}
	label := strings.ToLower(deal.StageLabel)
	if label == "" {
		label = strings.ToLower(deal.StageID)
	}
	return strings.Contains(label, "closed") ||
		strings.Contains(label, "won") ||
		strings.Contains(label, "lost")
}

// IsWonDeal reports whether a closed deal was won.
func IsWonDeal(deal domain.Deal) bool {
	if deal.IsWon {
		return true
	}
	label := strings.ToLower(deal.StageLabel)
	if label == "" {
		label = strings.ToLower(deal.StageID)
	}
	return strings.Contains(label, "won")
}

// stageIndex maps stage ids to their pipeline position.
func stageIndex(stages []domain.PipelineStage) map[string]int {
	index := make(map[string]int, len(stages))
	for i, stage := range stages {
		index[stage.ID] = i
	}
	return index
}

// stageLabel resolves a display label, falling back to the raw id.
func stageLabel(stages []domain.PipelineStage, id string) string {
	for _, stage := range stages {
		if stage.ID == id {
			return stage.Label
		}
	}
	return id
}
