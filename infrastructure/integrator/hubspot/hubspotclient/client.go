package hubspotclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"

	hsdomain "github.com/artefactventures/artefact-mcp/infrastructure/integrator/hubspot/domain"
	"github.com/artefactventures/artefact-mcp/internal/config"
	"github.com/artefactventures/artefact-mcp/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client interface {
	SearchOpenDeals(pipelineID string) ([]hsdomain.Deal, error)
	FetchClosedWonDeals() ([]hsdomain.Deal, error)
	BatchReadCompanies(ids []string) (map[string]hsdomain.Company, error)
	FetchCompany(companyID string) (*hsdomain.Company, error)
	SearchCompanies(query string, limit int) ([]hsdomain.Company, error)
	FetchPipelines() ([]hsdomain.Pipeline, error)
	FetchStages(pipelineID string) ([]hsdomain.Stage, error)
	MaskedKey() string
}

// Error is a HubSpot API failure with an error-taxonomy code and remediation
// guidance for the operator.
type Error struct {
	Code       string
	StatusCode int
	Message    string
}

func (e *Error) Error() string { return e.Message }

type HubSpotClient struct {
	cfg        config.HubSpot
	httpClient *http.Client
}

func NewClient(cfg config.HubSpot) (Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("HubSpot API key required. Set HUBSPOT_API_KEY in your environment")
	}
	return &HubSpotClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
	}, nil
}

// MaskedKey returns the API key safe for logs.
func (c *HubSpotClient) MaskedKey() string {
	if len(c.cfg.APIKey) > 8 {
		return c.cfg.APIKey[:4] + "..." + c.cfg.APIKey[len(c.cfg.APIKey)-4:]
	}
	return "***"
}

func (c *HubSpotClient) request(method, path string, query url.Values, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	endpoint := c.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequest(method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{
			Code: apiErrors.ErrCRMUnavailable,
			Message: "Cannot connect to HubSpot API. Check your internet connection. " +
				"If you're behind a proxy or firewall, ensure api.hubapi.com is accessible.",
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, body)
	}
	return body, nil
}

func (c *HubSpotClient) statusError(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized:
		return &Error{
			Code:       apiErrors.ErrCRMUnauthorized,
			StatusCode: status,
			Message: "HubSpot API key is invalid or expired. " +
				"Go to HubSpot Settings > Integrations > Private Apps, create or regenerate a private app token " +
				"with scopes crm.objects.deals.read and crm.objects.companies.read, and set it as HUBSPOT_API_KEY.",
		}
	case http.StatusForbidden:
		return &Error{
			Code:       apiErrors.ErrCRMForbidden,
			StatusCode: status,
			Message: "HubSpot API key is missing required permissions. " +
				"Edit your private app's scopes and enable crm.objects.deals.read and crm.objects.companies.read, " +
				"then save and re-authorize the app.",
		}
	case http.StatusTooManyRequests:
		return &Error{
			Code:       apiErrors.ErrCRMRateLimited,
			StatusCode: status,
			Message: "HubSpot API rate limit exceeded. Wait a few seconds and try again. " +
				"HubSpot allows 100 requests per 10 seconds for private apps.",
		}
	default:
		snippet := body
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return &Error{
			Code:       apiErrors.ErrCRMUnavailable,
			StatusCode: status,
			Message:    fmt.Sprintf("HubSpot API error (%d): %s", status, snippet),
		}
	}
}
