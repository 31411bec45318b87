package hubspotclient

import (
	"net/http"
	"net/url"

	hsdomain "github.com/artefactventures/artefact-mcp/infrastructure/integrator/hubspot/domain"
)

var companyProperties = []string{
	"name", "domain", "industry", "numberofemployees",
	"annualrevenue", "state", "country",
}

// BatchReadCompanies reads companies in batches of BatchSize, keyed by id.
func (c *HubSpotClient) BatchReadCompanies(ids []string) (map[string]hsdomain.Company, error) {
	companies := make(map[string]hsdomain.Company, len(ids))
	if len(ids) == 0 {
		return companies, nil
	}

	for start := 0; start < len(ids); start += c.cfg.BatchSize {
		end := start + c.cfg.BatchSize
		if end > len(ids) {
			end = len(ids)
		}

		request := hsdomain.CompaniesBatchRequest{Properties: companyProperties}
		for _, id := range ids[start:end] {
			request.Inputs = append(request.Inputs, hsdomain.CompanyInput{ID: id})
		}

		body, err := c.request(http.MethodPost, "/crm/v3/objects/companies/batch/read", nil, request)
		if err != nil {
			return nil, err
		}

		var response hsdomain.CompaniesResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, err
		}
		for _, company := range response.Results {
			companies[company.ID] = company
		}
	}

	return companies, nil
}

func (c *HubSpotClient) FetchCompany(companyID string) (*hsdomain.Company, error) {
	query := url.Values{}
	query.Set("properties", "name,domain,industry,numberofemployees,annualrevenue,state,country,hs_analytics_source,lifecyclestage")

	body, err := c.request(http.MethodGet, "/crm/v3/objects/companies/"+companyID, query, nil)
	if err != nil {
		return nil, err
	}

	var company hsdomain.Company
	if err := json.Unmarshal(body, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *HubSpotClient) SearchCompanies(query string, limit int) ([]hsdomain.Company, error) {
	if limit > 100 {
		limit = 100 // HubSpot search maximum
	}

	request := hsdomain.CompanySearchRequest{
		Query:      query,
		Limit:      limit,
		Properties: companyProperties,
	}

	body, err := c.request(http.MethodPost, "/crm/v3/objects/companies/search", nil, request)
	if err != nil {
		return nil, err
	}

	var response hsdomain.CompaniesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, err
	}
	return response.Results, nil
}
