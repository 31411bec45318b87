package hubspot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hsdomain "github.com/artefactventures/artefact-mcp/infrastructure/integrator/hubspot/domain"
)

type fakeClient struct {
	closedWonDeals  []hsdomain.Deal
	closedWonCalls  int
	openDeals       []hsdomain.Deal
	companies       map[string]hsdomain.Company
	company         *hsdomain.Company
	searchedResults []hsdomain.Company
	stages          []hsdomain.Stage
}

func (f *fakeClient) SearchOpenDeals(string) ([]hsdomain.Deal, error) { return f.openDeals, nil }
func (f *fakeClient) FetchClosedWonDeals() ([]hsdomain.Deal, error) {
	f.closedWonCalls++
	return f.closedWonDeals, nil
}
func (f *fakeClient) BatchReadCompanies([]string) (map[string]hsdomain.Company, error) {
	return f.companies, nil
}
func (f *fakeClient) FetchCompany(string) (*hsdomain.Company, error) { return f.company, nil }
func (f *fakeClient) SearchCompanies(string, int) ([]hsdomain.Company, error) {
	return f.searchedResults, nil
}
func (f *fakeClient) FetchPipelines() ([]hsdomain.Pipeline, error) { return nil, nil }
func (f *fakeClient) FetchStages(string) ([]hsdomain.Stage, error) { return f.stages, nil }
func (f *fakeClient) MaskedKey() string                            { return "***" }

type memCache struct {
	entries map[string][]byte
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (m *memCache) Get(key string) ([]byte, bool, error) {
	payload, ok := m.entries[key]
	return payload, ok, nil
}

func (m *memCache) Set(key string, payload []byte, _ time.Duration) error {
	m.entries[key] = payload
	return nil
}

func (m *memCache) PurgeExpired() (int64, error) { return 0, nil }

func closedWonDeal(id, companyID, amount, closeDate string) hsdomain.Deal {
	deal := hsdomain.Deal{
		ID: id,
		Properties: map[string]string{
			"dealname":  "Deal " + id,
			"dealstage": "closedwon",
			"amount":    amount,
			"closedate": closeDate,
		},
	}
	if companyID != "" {
		deal.Associations = &hsdomain.Associations{
			Companies: hsdomain.AssociationResults{
				Results: []hsdomain.AssociationRef{{ID: companyID}},
			},
		}
	}
	return deal
}

func TestClientRecordsAggregation(t *testing.T) {
	client := &fakeClient{
		closedWonDeals: []hsdomain.Deal{
			closedWonDeal("D1", "C1", "40000", "2025-06-01T00:00:00Z"),
			closedWonDeal("D2", "C1", "25000", "2025-11-15T00:00:00Z"),
			closedWonDeal("D3", "C2", "10000", "2025-03-20T00:00:00Z"),
			closedWonDeal("D4", "", "99999", "2025-01-01T00:00:00Z"), // no company, dropped
		},
		companies: map[string]hsdomain.Company{
			"C1": {ID: "C1", Properties: map[string]string{
				"name":              "Acme Manufacturing",
				"industry":          "Manufacturing",
				"numberofemployees": "120",
				"annualrevenue":     "12000000",
				"state":             "Quebec",
			}},
		},
	}

	service := New(client, nil, time.Minute)

	records, err := service.ClientRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)

	acme := records[0]
	assert.Equal(t, "C1", acme.ID)
	assert.Equal(t, "Acme Manufacturing", acme.Name)
	assert.Equal(t, 65000.0, acme.TotalRevenue)
	assert.Equal(t, 2, acme.TransactionCount)
	require.NotNil(t, acme.LastPurchaseDate)
	assert.Equal(t, time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC), *acme.LastPurchaseDate)
	assert.Equal(t, "51-200", acme.EmployeeBand)
	assert.Equal(t, "$5M-$20M", acme.RevenueBand)
	assert.Equal(t, "Quebec", acme.Region)

	// Unknown company: deal kept, metadata falls back.
	other := records[1]
	assert.Equal(t, "C2", other.ID)
	assert.Equal(t, "Unknown", other.Name)
	assert.Equal(t, 10000.0, other.TotalRevenue)
}

func TestClientRecordsServedFromCache(t *testing.T) {
	client := &fakeClient{
		closedWonDeals: []hsdomain.Deal{
			closedWonDeal("D1", "C1", "1000", "2025-06-01T00:00:00Z"),
		},
		companies: map[string]hsdomain.Company{},
	}

	service := New(client, newMemCache(), time.Minute)

	first, err := service.ClientRecords()
	require.NoError(t, err)
	second, err := service.ClientRecords()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.closedWonCalls)
}

func TestOpenDealsNormalization(t *testing.T) {
	client := &fakeClient{
		openDeals: []hsdomain.Deal{
			{
				ID: "D10",
				Properties: map[string]string{
					"dealname":            "Big Deal",
					"amount":              "75000.50",
					"dealstage":           "qualifiedtobuy",
					"pipeline":            "default",
					"createdate":          "1736935800000", // ms epoch
					"closedate":           "2026-06-30T00:00:00Z",
					"hs_lastmodifieddate": "2026-02-01T09:30:00Z",
				},
			},
		},
		stages: []hsdomain.Stage{
			{ID: "qualifiedtobuy", Label: "Qualified to Buy", DisplayOrder: 1},
		},
	}

	service := New(client, nil, time.Minute)

	deals, err := service.OpenDeals("default")
	require.NoError(t, err)
	require.Len(t, deals, 1)

	deal := deals[0]
	assert.Equal(t, "Big Deal", deal.Name)
	assert.Equal(t, 75000.50, deal.Amount)
	assert.Equal(t, "qualifiedtobuy", deal.StageID)
	assert.Equal(t, "Qualified to Buy", deal.StageLabel)
	require.NotNil(t, deal.CreateDate)
	assert.Equal(t, 2025, deal.CreateDate.Year())
	require.NotNil(t, deal.CloseDate)
	assert.Equal(t, time.June, deal.CloseDate.Month())
}

func TestCompanyProfileFirmographics(t *testing.T) {
	client := &fakeClient{
		company: &hsdomain.Company{
			ID: "C9",
			Properties: map[string]string{
				"name":              "Northwind Logistics",
				"industry":          "Logistics",
				"numberofemployees": "85",
				"annualrevenue":     "9500000",
				"country":           "Canada",
			},
		},
	}

	service := New(client, nil, time.Minute)

	profile, err := service.CompanyProfile("C9")
	require.NoError(t, err)
	assert.Equal(t, "Northwind Logistics", profile.CompanyName)
	assert.Equal(t, "C9", profile.CRMID)
	assert.Equal(t, "Logistics", profile.Industry)
	require.NotNil(t, profile.AnnualRevenue)
	assert.Equal(t, 9500000.0, *profile.AnnualRevenue)
	require.NotNil(t, profile.EmployeeCount)
	assert.Equal(t, 85, *profile.EmployeeCount)
	assert.Equal(t, "Canada", profile.Geography)
}

func TestCompanyProfileMissingNumbersStayNil(t *testing.T) {
	client := &fakeClient{
		company: &hsdomain.Company{
			ID:         "C10",
			Properties: map[string]string{"name": "Mystery Co"},
		},
	}

	service := New(client, nil, time.Minute)

	profile, err := service.CompanyProfile("C10")
	require.NoError(t, err)
	assert.Nil(t, profile.AnnualRevenue)
	assert.Nil(t, profile.EmployeeCount)
	assert.Empty(t, profile.Industry)
}
