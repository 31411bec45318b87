package sampledata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientsDatesRelativeToNow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	clients := Clients(now)
	require.Len(t, clients, 12)

	first := clients[0]
	assert.Equal(t, "S001", first.ID)
	assert.Equal(t, "Nextera Systems", first.Name)
	require.NotNil(t, first.LastPurchaseDate)
	assert.Equal(t, now.AddDate(0, 0, -25), *first.LastPurchaseDate)

	for _, client := range clients {
		require.NotNil(t, client.LastPurchaseDate, client.ID)
		assert.True(t, client.LastPurchaseDate.Before(now), client.ID)
		assert.Positive(t, client.TotalRevenue, client.ID)
		assert.Positive(t, client.TransactionCount, client.ID)
	}
}

func TestDealsCoverStagesAndRiskCases(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	deals := Deals(now)
	require.Len(t, deals, 8)

	stageIDs := map[string]bool{}
	for _, stage := range Stages() {
		stageIDs[stage.ID] = true
	}

	var pastDue, stalled bool
	for _, deal := range deals {
		assert.True(t, stageIDs[deal.StageID], deal.ID)
		assert.NotEmpty(t, deal.StageLabel, deal.ID)
		require.NotNil(t, deal.CreateDate, deal.ID)
		require.NotNil(t, deal.CloseDate, deal.ID)
		require.NotNil(t, deal.LastModified, deal.ID)

		if deal.CloseDate.Before(now) {
			pastDue = true
		}
		if now.Sub(*deal.LastModified) > 90*24*time.Hour {
			stalled = true
		}
	}

	assert.True(t, pastDue, "dataset should include a past-due deal")
	assert.True(t, stalled, "dataset should include a stalled deal")
}

func TestStagesOrdered(t *testing.T) {
	stages := Stages()
	require.Len(t, stages, 5)
	for i, stage := range stages {
		assert.Equal(t, i, stage.DisplayOrder)
	}
	assert.Equal(t, "appointmentscheduled", stages[0].ID)
	assert.Equal(t, "contractsent", stages[4].ID)
}
