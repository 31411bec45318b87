package domain

import "time"

// Deal is a normalized CRM deal. Stage identifiers are deployment-specific,
// so open/closed classification relies on the IsClosed flag plus
// case-insensitive label matching rather than fixed stage ids.
type Deal struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Amount         float64    `json:"amount"`
	StageID        string     `json:"stage"`
	StageLabel     string     `json:"stage_label,omitempty"`
	Pipeline       string     `json:"pipeline,omitempty"`
	CreateDate     *time.Time `json:"create_date"`
	StageEnteredAt *time.Time `json:"stage_entered_at,omitempty"`
	CloseDate      *time.Time `json:"close_date,omitempty"`
	LastModified   *time.Time `json:"last_modified,omitempty"`
	IsClosed       bool       `json:"is_closed"`
	IsWon          bool       `json:"is_won"`
}

// PipelineStage is one stage definition of a deal pipeline, in display order.
type PipelineStage struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	DisplayOrder int    `json:"display_order"`
}

// ExitCriterionField names a deal field an exit criterion checks for presence.
type ExitCriterionField string

const (
	CriterionAmountSet       ExitCriterionField = "amount_set"
	CriterionCloseDateSet    ExitCriterionField = "close_date_set"
	CriterionRecentActivity  ExitCriterionField = "recent_activity"
	CriterionStageEntryKnown ExitCriterionField = "stage_entry_known"
)

// ExitCriterion is one named pass/fail condition a deal must satisfy to
// correctly occupy its stage.
type ExitCriterion struct {
	Name  string             `json:"name"`
	Field ExitCriterionField `json:"field"`
}

// ExitCriteria maps stage ids to the criteria required for that stage.
type ExitCriteria map[string][]ExitCriterion
