// Package sampledata ships the built-in demo dataset used by the free tier.
// Dates are generated relative to the caller's clock so recency and velocity
// numbers stay realistic no matter when the server runs.
package sampledata

import (
	"time"

	"github.com/artefactventures/artefact-mcp/internal/domain"
)

func daysAgo(now time.Time, days int) *time.Time {
	t := now.AddDate(0, 0, -days).UTC()
	return &t
}

func daysAhead(now time.Time, days int) *time.Time {
	return daysAgo(now, -days)
}

// Clients returns the demo customer base for RFM analysis.
func Clients(now time.Time) []domain.ClientRecord {
	return []domain.ClientRecord{
		{ID: "S001", Name: "Nextera Systems", TotalRevenue: 185000, TransactionCount: 8, LastPurchaseDate: daysAgo(now, 25), Industry: "SaaS", EmployeeBand: "51-200", RevenueBand: "$5M-$20M", Region: "Ontario"},
		{ID: "S002", Name: "Precision Components Group", TotalRevenue: 340000, TransactionCount: 12, LastPurchaseDate: daysAgo(now, 8), Industry: "Manufacturing", EmployeeBand: "201-500", RevenueBand: "$20M-$70M", Region: "Quebec"},
		{ID: "S003", Name: "Covalent Labs", TotalRevenue: 92000, TransactionCount: 4, LastPurchaseDate: daysAgo(now, 80), Industry: "Technology", EmployeeBand: "11-50", RevenueBand: "$1M-$5M", Region: "BC"},
		{ID: "S004", Name: "Bridgeport Advisory", TotalRevenue: 67000, TransactionCount: 3, LastPurchaseDate: daysAgo(now, 180), Industry: "Professional Services", EmployeeBand: "11-50", RevenueBand: "$1M-$5M", Region: "Nova Scotia"},
		{ID: "S005", Name: "Clearpath Distribution", TotalRevenue: 210000, TransactionCount: 6, LastPurchaseDate: daysAgo(now, 12), Industry: "Logistics", EmployeeBand: "51-200", RevenueBand: "$5M-$20M", Region: "Alberta"},
		{ID: "S006", Name: "Spark & Co Creative", TotalRevenue: 28000, TransactionCount: 1, LastPurchaseDate: daysAgo(now, 330), Industry: "Agency", EmployeeBand: "1-10", RevenueBand: "<$1M", Region: "Quebec"},
		{ID: "S007", Name: "MedBridge Health", TotalRevenue: 155000, TransactionCount: 5, LastPurchaseDate: daysAgo(now, 70), Industry: "Healthcare", EmployeeBand: "51-200", RevenueBand: "$5M-$20M", Region: "Ontario"},
		{ID: "S008", Name: "Vaulted Financial Technologies", TotalRevenue: 420000, TransactionCount: 15, LastPurchaseDate: daysAgo(now, 4), Industry: "FinTech", EmployeeBand: "51-200", RevenueBand: "$20M-$70M", Region: "BC"},
		{ID: "S009", Name: "Ironworks Building Corp", TotalRevenue: 45000, TransactionCount: 2, LastPurchaseDate: daysAgo(now, 590), Industry: "Construction", EmployeeBand: "201-500", RevenueBand: "$20M-$70M", Region: "Alberta"},
		{ID: "S010", Name: "Learnwell Platform", TotalRevenue: 73000, TransactionCount: 3, LastPurchaseDate: daysAgo(now, 115), Industry: "EdTech", EmployeeBand: "11-50", RevenueBand: "$1M-$5M", Region: "Quebec"},
		{ID: "S011", Name: "Signal Nine Media", TotalRevenue: 18000, TransactionCount: 1, LastPurchaseDate: daysAgo(now, 750), Industry: "Media", EmployeeBand: "1-10", RevenueBand: "<$1M", Region: "Ontario"},
		{ID: "S012", Name: "Harborstone Consulting", TotalRevenue: 125000, TransactionCount: 7, LastPurchaseDate: daysAgo(now, 150), Industry: "Professional Services", EmployeeBand: "11-50", RevenueBand: "$1M-$5M", Region: "Nova Scotia"},
	}
}

// Deals returns the demo open pipeline, including one stalled and one
// past-due deal so the health and signal tools have something to find.
func Deals(now time.Time) []domain.Deal {
	labels := map[string]string{}
	for _, stage := range Stages() {
		labels[stage.ID] = stage.Label
	}

	deal := func(id, name string, amount float64, stage string, createdDaysAgo, closeInDays, modifiedDaysAgo int) domain.Deal {
		return domain.Deal{
			ID:           id,
			Name:         name,
			Amount:       amount,
			StageID:      stage,
			StageLabel:   labels[stage],
			Pipeline:     "default",
			CreateDate:   daysAgo(now, createdDaysAgo),
			CloseDate:    daysAhead(now, closeInDays),
			LastModified: daysAgo(now, modifiedDaysAgo),
		}
	}

	return []domain.Deal{
		deal("D001", "Acme Corp - CRO Platform", 45000, "qualifiedtobuy", 101, 33, 5),
		deal("D002", "Northern Tech - Discovery", 28000, "appointmentscheduled", 31, 50, 2),
		deal("D003", "Maple Mfg - Full Engagement", 92000, "presentationscheduled", 148, 18, 21),
		deal("D004", "Atlantic Services - Audit", 15000, "decisionmakerboughtin", 71, 19, 9),
		deal("D005", "Prairie Logistics - Pipeline", 38000, "qualifiedtobuy", 113, 48, 26),
		deal("D006", "Halifax Consulting - Stalled", 22000, "appointmentscheduled", 224, -26, 113),
		deal("D007", "Vancouver FinTech - Expansion", 65000, "contractsent", 179, 10, 3),
		deal("D008", "Calgary Construction - Intro", 18000, "appointmentscheduled", 16, 80, 7),
	}
}

// Stages returns the demo pipeline's stage definitions.
func Stages() []domain.PipelineStage {
	return []domain.PipelineStage{
		{ID: "appointmentscheduled", Label: "Appointment Scheduled", DisplayOrder: 0},
		{ID: "qualifiedtobuy", Label: "Qualified to Buy", DisplayOrder: 1},
		{ID: "presentationscheduled", Label: "Presentation Scheduled", DisplayOrder: 2},
		{ID: "decisionmakerboughtin", Label: "Decision Maker Bought-In", DisplayOrder: 3},
		{ID: "contractsent", Label: "Contract Sent", DisplayOrder: 4},
	}
}
