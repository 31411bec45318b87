package hubspotclient

import (
	"net/http"
	"sort"
	"strings"

	hsdomain "github.com/artefactventures/artefact-mcp/infrastructure/integrator/hubspot/domain"
)

func (c *HubSpotClient) FetchPipelines() ([]hsdomain.Pipeline, error) {
	body, err := c.request(http.MethodGet, "/crm/v3/pipelines/deals", nil, nil)
	if err != nil {
		return nil, err
	}

	var response hsdomain.PipelinesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, err
	}
	return response.Results, nil
}

// FetchStages returns one pipeline's stage definitions in display order.
func (c *HubSpotClient) FetchStages(pipelineID string) ([]hsdomain.Stage, error) {
	if pipelineID == "" {
		pipelineID = "default"
	}

	body, err := c.request(http.MethodGet, "/crm/v3/pipelines/deals/"+pipelineID, nil, nil)
	if err != nil {
		return nil, err
	}

	var pipeline hsdomain.Pipeline
	if err := json.Unmarshal(body, &pipeline); err != nil {
		return nil, err
	}

	stages := pipeline.Stages
	sort.SliceStable(stages, func(i, j int) bool {
		return stages[i].DisplayOrder < stages[j].DisplayOrder
	})
	return stages, nil
}

// closedStageIDs collects closed stage ids across pipelines. HubSpot marks
// them in stage metadata; the well-known closedwon/closedlost ids are caught
// as a fallback.
func (c *HubSpotClient) closedStageIDs(pipelineID string) ([]string, error) {
	pipelines, err := c.FetchPipelines()
	if err != nil {
		return nil, err
	}

	var closed []string
	seen := map[string]bool{}
	for _, pipeline := range pipelines {
		if pipelineID != "" && pipeline.ID != pipelineID {
			continue
		}
		for _, stage := range pipeline.Stages {
			id := stage.ID
			lower := strings.ToLower(id)
			if stage.Metadata.IsClosed == "true" || lower == "closedwon" || lower == "closedlost" {
				if !seen[id] {
					seen[id] = true
					closed = append(closed, id)
				}
			}
		}
	}
	return closed, nil
}
