package licensing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artefactventures/artefact-mcp/internal/config"
	"github.com/artefactventures/artefact-mcp/pkg/apiErrors"
)

func testLicenseConfig(t *testing.T, key, validateURL string) config.License {
	t.Helper()
	return config.License{
		Key:           key,
		ValidateURL:   validateURL,
		StoreID:       290340,
		ProductID:     822853,
		CachePath:     filepath.Join(t.TempDir(), "license.json"),
		CacheTTLHours: 24,
		GraceDays:     7,
	}
}

func licenseServer(t *testing.T, calls *int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

const validProBody = `{
	"valid": true,
	"meta": {"store_id": 290340, "product_id": 822853, "variant_name": "Pro"},
	"license_key": {"customer_name": "Acme Corp", "expires_at": "2027-01-01T00:00:00Z"}
}`

func TestValidateNoKeyIsFreeTier(t *testing.T) {
	svc := NewService(testLicenseConfig(t, "", "http://unused.invalid"))

	info := svc.Validate(context.Background(), "")

	assert.True(t, info.Valid)
	assert.Equal(t, TierFree, info.Tier)
}

func TestValidateCachesRemoteResult(t *testing.T) {
	calls := 0
	server := licenseServer(t, &calls, validProBody)
	defer server.Close()

	svc := NewService(testLicenseConfig(t, "KEY-1234", server.URL))

	info := svc.Validate(context.Background(), "")
	require.True(t, info.Valid)
	assert.Equal(t, TierPro, info.Tier)
	assert.Equal(t, "Acme Corp", info.CustomerName)

	// Second call must come from the cache.
	again := svc.Validate(context.Background(), "")
	assert.Equal(t, info, again)
	assert.Equal(t, 1, calls)
}

func TestValidateEnterpriseVariant(t *testing.T) {
	calls := 0
	server := licenseServer(t, &calls, `{
		"valid": true,
		"meta": {"store_id": 290340, "product_id": 822853, "variant_name": "Enterprise"},
		"license_key": {}
	}`)
	defer server.Close()

	svc := NewService(testLicenseConfig(t, "KEY-ENT", server.URL))

	info := svc.Validate(context.Background(), "")
	assert.True(t, info.Valid)
	assert.Equal(t, TierEnterprise, info.Tier)
}

func TestValidateRejectsForeignProductKey(t *testing.T) {
	calls := 0
	server := licenseServer(t, &calls, `{
		"valid": true,
		"meta": {"store_id": 999999, "product_id": 1, "variant_name": "Pro"},
		"license_key": {}
	}`)
	defer server.Close()

	svc := NewService(testLicenseConfig(t, "KEY-FOREIGN", server.URL))

	info := svc.Validate(context.Background(), "")
	assert.False(t, info.Valid)
	assert.Equal(t, TierFree, info.Tier)
	assert.Contains(t, info.Err, "does not belong to this product")
}

func TestValidateInvalidKey(t *testing.T) {
	calls := 0
	server := licenseServer(t, &calls, `{"valid": false, "error": "license_key not found"}`)
	defer server.Close()

	svc := NewService(testLicenseConfig(t, "KEY-BAD", server.URL))

	info := svc.Validate(context.Background(), "")
	assert.False(t, info.Valid)
	assert.Equal(t, "license_key not found", info.Err)

	// Invalid results are never cached; every call goes remote.
	svc.Validate(context.Background(), "")
	assert.Equal(t, 2, calls)
}

func TestValidateGraceOnNetworkFailure(t *testing.T) {
	calls := 0
	server := licenseServer(t, &calls, validProBody)

	cfg := testLicenseConfig(t, "KEY-GRACE", server.URL)
	svc := NewService(cfg)

	// Seed the cache, then take the license server away.
	seeded := svc.Validate(context.Background(), "")
	require.True(t, seeded.Valid)
	server.Close()

	// Expire the fresh-cache window so Validate is forced to go remote.
	cfg.CacheTTLHours = 0
	offline := NewService(cfg)

	info := offline.Validate(context.Background(), "")
	assert.True(t, info.Valid)
	assert.Equal(t, TierPro, info.Tier)
}

func TestValidateNetworkFailureWithoutCache(t *testing.T) {
	cfg := testLicenseConfig(t, "KEY-NONET", "http://127.0.0.1:1")
	svc := NewService(cfg)

	info := svc.Validate(context.Background(), "")
	assert.False(t, info.Valid)
	assert.Equal(t, TierFree, info.Tier)
	assert.Contains(t, info.Err, "Cannot reach license server")
}

func TestRequireSource(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		info     Info
		wantCode string
	}{
		{
			name:   "sample always allowed",
			source: "sample",
			info:   Info{Valid: true, Tier: TierFree},
		},
		{
			name:   "hubspot allowed on pro",
			source: "hubspot",
			info:   Info{Valid: true, Tier: TierPro},
		},
		{
			name:   "hubspot allowed on enterprise",
			source: "hubspot",
			info:   Info{Valid: true, Tier: TierEnterprise},
		},
		{
			name:     "hubspot blocked on free",
			source:   "hubspot",
			info:     Info{Valid: true, Tier: TierFree},
			wantCode: apiErrors.ErrLicenseMissing,
		},
		{
			name:     "hubspot blocked on rejected key",
			source:   "hubspot",
			info:     Info{Valid: false, Tier: TierFree, Err: "license_key not found"},
			wantCode: apiErrors.ErrLicenseInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireSource(tt.source, tt.info)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var licenseErr *Error
			require.ErrorAs(t, err, &licenseErr)
			assert.Equal(t, tt.wantCode, licenseErr.Code)
			assert.Contains(t, licenseErr.Message, "Pro license")
		})
	}
}

func TestTierOrdering(t *testing.T) {
	assert.True(t, TierEnterprise.AtLeast(TierPro))
	assert.True(t, TierPro.AtLeast(TierPro))
	assert.False(t, TierFree.AtLeast(TierPro))
}
