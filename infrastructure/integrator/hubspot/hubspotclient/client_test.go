package hubspotclient

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hsdomain "github.com/artefactventures/artefact-mcp/infrastructure/integrator/hubspot/domain"
	"github.com/artefactventures/artefact-mcp/internal/config"
	"github.com/artefactventures/artefact-mcp/pkg/apiErrors"
)

func newTestClient(t *testing.T, handler http.Handler) (Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.HubSpot{
		APIKey:                "pat-na1-test-key",
		BaseURL:               server.URL,
		MaxPages:              50,
		PageSize:              100,
		BatchSize:             2,
		RequestTimeoutSeconds: 5,
	})
	require.NoError(t, err)
	return client, server
}

const pipelinesBody = `{
	"results": [{
		"id": "default",
		"label": "Sales Pipeline",
		"stages": [
			{"id": "appointmentscheduled", "label": "Appointment Scheduled", "displayOrder": 0, "metadata": {"isClosed": "false"}},
			{"id": "qualifiedtobuy", "label": "Qualified to Buy", "displayOrder": 1, "metadata": {"isClosed": "false"}},
			{"id": "closedwon", "label": "Closed Won", "displayOrder": 2, "metadata": {"isClosed": "true"}},
			{"id": "closedlost", "label": "Closed Lost", "displayOrder": 3, "metadata": {"isClosed": "true"}}
		]
	}]
}`

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(config.HubSpot{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HUBSPOT_API_KEY")
}

func TestMaskedKey(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())
	assert.Equal(t, "pat-...-key", client.MaskedKey())
}

func TestSearchOpenDealsExcludesClosedStages(t *testing.T) {
	searchCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/crm/v3/pipelines/deals", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pipelinesBody))
	})
	mux.HandleFunc("/crm/v3/objects/deals/search", func(w http.ResponseWriter, r *http.Request) {
		searchCalls++
		assert.Equal(t, "Bearer pat-na1-test-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var request hsdomain.DealsSearchRequest
		require.NoError(t, json.Unmarshal(body, &request))
		require.Len(t, request.FilterGroups, 1)

		filter := request.FilterGroups[0].Filters[0]
		assert.Equal(t, "dealstage", filter.PropertyName)
		assert.Equal(t, "NOT_IN", filter.Operator)
		assert.ElementsMatch(t, []string{"closedwon", "closedlost"}, filter.Values)

		if searchCalls == 1 {
			assert.Equal(t, "0", request.After)
			_, _ = w.Write([]byte(`{
				"results": [{"id": "1", "properties": {"dealname": "One"}}, {"id": "2", "properties": {"dealname": "Two"}}],
				"paging": {"next": {"after": "100"}}
			}`))
			return
		}
		assert.Equal(t, "100", request.After)
		_, _ = w.Write([]byte(`{"results": [{"id": "3", "properties": {"dealname": "Three"}}]}`))
	})

	client, _ := newTestClient(t, mux)

	deals, err := client.SearchOpenDeals("")
	require.NoError(t, err)
	assert.Len(t, deals, 3)
	assert.Equal(t, 2, searchCalls)
}

func TestFetchClosedWonDealsFiltersStage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/crm/v3/objects/deals", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "companies", r.URL.Query().Get("associations"))
		_, _ = w.Write([]byte(`{
			"results": [
				{"id": "W1", "properties": {"dealstage": "closedwon", "amount": "1000"}},
				{"id": "O1", "properties": {"dealstage": "qualifiedtobuy", "amount": "500"}},
				{"id": "W2", "properties": {"dealstage": "ClosedWon", "amount": "2000"}}
			]
		}`))
	})

	client, _ := newTestClient(t, mux)

	deals, err := client.FetchClosedWonDeals()
	require.NoError(t, err)
	require.Len(t, deals, 2)
	assert.Equal(t, "W1", deals[0].ID)
	assert.Equal(t, "W2", deals[1].ID)
}

func TestBatchReadCompaniesChunks(t *testing.T) {
	var batchSizes []int
	mux := http.NewServeMux()
	mux.HandleFunc("/crm/v3/objects/companies/batch/read", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var request hsdomain.CompaniesBatchRequest
		require.NoError(t, json.Unmarshal(body, &request))
		batchSizes = append(batchSizes, len(request.Inputs))

		response := hsdomain.CompaniesResponse{}
		for _, input := range request.Inputs {
			response.Results = append(response.Results, hsdomain.Company{
				ID:         input.ID,
				Properties: map[string]string{"name": "Co " + input.ID},
			})
		}
		payload, _ := json.Marshal(response)
		_, _ = w.Write(payload)
	})

	client, _ := newTestClient(t, mux)

	companies, err := client.BatchReadCompanies([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, companies, 3)
	assert.Equal(t, []int{2, 1}, batchSizes)
	assert.Equal(t, "Co b", companies["b"].Properties["name"])
}

func TestFetchStagesSortedByDisplayOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/crm/v3/pipelines/deals/default", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": "default",
			"stages": [
				{"id": "late", "label": "Late", "displayOrder": 2},
				{"id": "early", "label": "Early", "displayOrder": 0},
				{"id": "mid", "label": "Mid", "displayOrder": 1}
			]
		}`))
	})

	client, _ := newTestClient(t, mux)

	stages, err := client.FetchStages("")
	require.NoError(t, err)
	require.Len(t, stages, 3)
	assert.Equal(t, "early", stages[0].ID)
	assert.Equal(t, "mid", stages[1].ID)
	assert.Equal(t, "late", stages[2].ID)
}

func TestStatusErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantCode: apiErrors.ErrCRMUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantCode: apiErrors.ErrCRMForbidden},
		{name: "rate limited", status: http.StatusTooManyRequests, wantCode: apiErrors.ErrCRMRateLimited},
		{name: "server error", status: http.StatusBadGateway, wantCode: apiErrors.ErrCRMUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			_, err := client.FetchPipelines()
			require.Error(t, err)

			var hubspotErr *Error
			require.ErrorAs(t, err, &hubspotErr)
			assert.Equal(t, tt.wantCode, hubspotErr.Code)
			assert.Equal(t, tt.status, hubspotErr.StatusCode)
		})
	}
}
