package hubspotclient

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	hsdomain "github.com/artefactventures/artefact-mcp/infrastructure/integrator/hubspot/domain"
)

const closedWonStage = "closedwon"

var dealProperties = []string{
	"dealname", "amount", "closedate", "dealstage",
	"pipeline", "createdate", "hs_lastmodifieddate",
}

// SearchOpenDeals fetches every open deal via the Search API, excluding
// closed stages server-side. Pagination stops at MaxPages as a safety limit.
func (c *HubSpotClient) SearchOpenDeals(pipelineID string) ([]hsdomain.Deal, error) {
	closedIDs, err := c.closedStageIDs(pipelineID)
	if err != nil {
		return nil, err
	}

	var filters []hsdomain.Filter
	if len(closedIDs) > 0 {
		filters = append(filters, hsdomain.Filter{
			PropertyName: "dealstage",
			Operator:     "NOT_IN",
			Values:       closedIDs,
		})
	}
	if pipelineID != "" {
		filters = append(filters, hsdomain.Filter{
			PropertyName: "pipeline",
			Operator:     "EQ",
			Value:        pipelineID,
		})
	}

	var deals []hsdomain.Deal
	after := "0"
	for page := 0; page < c.cfg.MaxPages; page++ {
		request := hsdomain.DealsSearchRequest{
			Properties: dealProperties,
			Limit:      c.cfg.PageSize,
			After:      after,
		}
		if len(filters) > 0 {
			request.FilterGroups = []hsdomain.FilterGroup{{Filters: filters}}
		}

		body, err := c.request(http.MethodPost, "/crm/v3/objects/deals/search", nil, request)
		if err != nil {
			return nil, err
		}

		var response hsdomain.DealsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, err
		}

		deals = append(deals, response.Results...)

		if response.Paging == nil || response.Paging.Next == nil {
			break
		}
		after = response.Paging.Next.After
	}

	return deals, nil
}

// FetchClosedWonDeals lists deals with company associations and keeps the
// closed-won ones. The list endpoint carries associations, which the Search
// API does not.
func (c *HubSpotClient) FetchClosedWonDeals() ([]hsdomain.Deal, error) {
	var deals []hsdomain.Deal
	after := ""
	for page := 0; page < c.cfg.MaxPages; page++ {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(c.cfg.PageSize))
		query.Set("properties", "dealname,amount,closedate,dealstage,pipeline")
		query.Set("associations", "companies")
		if after != "" {
			query.Set("after", after)
		}

		body, err := c.request(http.MethodGet, "/crm/v3/objects/deals", query, nil)
		if err != nil {
			return nil, err
		}

		var response hsdomain.DealsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, err
		}

		for _, deal := range response.Results {
			if strings.ToLower(deal.Properties["dealstage"]) == closedWonStage {
				deals = append(deals, deal)
			}
		}

		if response.Paging == nil || response.Paging.Next == nil {
			break
		}
		after = response.Paging.Next.After
	}

	return deals, nil
}
