// Package licensing validates license keys against LemonSqueezy and gates
// data sources by tier. The free tier (sample data) never needs a key.
package licensing

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/artefactventures/artefact-mcp/internal/config"
	"github.com/artefactventures/artefact-mcp/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

var tierRank = map[Tier]int{
	TierFree:       0,
	TierPro:        1,
	TierEnterprise: 2,
}

func (t Tier) AtLeast(other Tier) bool {
	return tierRank[t] >= tierRank[other]
}

// Info is the outcome of one license validation.
type Info struct {
	Valid        bool   `json:"valid"`
	Tier         Tier   `json:"tier"`
	CustomerName string `json:"customer_name,omitempty"`
	ExpiresAt    string `json:"expires_at,omitempty"`
	Err          string `json:"error,omitempty"`
}

// Error is a license gating failure carrying an error-taxonomy code for the
// transport layer.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

const purchaseURL = "https://artefactventures.lemonsqueezy.com"

type Service struct {
	cfg    config.License
	client *http.Client
	mu     sync.Mutex
}

func NewService(cfg config.License) *Service {
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Validate resolves the license tier for a key, preferring the local cache.
// An empty key (argument and config) is the free tier.
func (s *Service) Validate(ctx context.Context, key string) Info {
	if key == "" {
		key = s.cfg.Key
	}
	if key == "" {
		return Info{Valid: true, Tier: TierFree}
	}

	if cached, ok := s.readCache(key, time.Duration(s.cfg.CacheTTLHours)*time.Hour); ok {
		return cached
	}
	return s.refresh(ctx, key)
}

// Refresh bypasses the fresh-cache fast path and revalidates remotely,
// rewriting the cache on success.
func (s *Service) Refresh(ctx context.Context) Info {
	if s.cfg.Key == "" {
		return Info{Valid: true, Tier: TierFree}
	}
	return s.refresh(ctx, s.cfg.Key)
}

// RequireSource checks that the requested data source is allowed by the tier.
// Sample data is always allowed; live CRM data needs pro or better.
func RequireSource(source string, info Info) error {
	if source == "" || source == "sample" {
		return nil
	}
	if info.Tier.AtLeast(TierPro) {
		return nil
	}

	code := apiErrors.ErrLicenseMissing
	if info.Err != "" {
		code = apiErrors.ErrLicenseInvalid
	}
	return &Error{
		Code: code,
		Message: fmt.Sprintf(
			"Live HubSpot data requires a Pro license. Purchase at %s, then set ARTEFACT_LICENSE_KEY in your environment to activate. Use source=\"sample\" for free demo data.",
			purchaseURL,
		),
	}
}

func (s *Service) refresh(ctx context.Context, key string) Info {
	info, netErr := s.validateRemote(ctx, key)
	if netErr != nil {
		// Extended-TTL cache read keeps paid users working through outages.
		grace := time.Duration(s.cfg.GraceDays) * 24 * time.Hour
		if cached, ok := s.readCache(key, grace); ok {
			return cached
		}
		return Info{
			Valid: false,
			Tier:  TierFree,
			Err:   "Cannot reach license server. Check your network.",
		}
	}
	if info.Valid {
		s.writeCache(key, info)
	}
	return info
}

type validateRequest struct {
	LicenseKey   string `json:"license_key"`
	InstanceName string `json:"instance_name"`
}

type validateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error"`
	Meta  struct {
		StoreID     int    `json:"store_id"`
		ProductID   int    `json:"product_id"`
		VariantName string `json:"variant_name"`
	} `json:"meta"`
	LicenseKey struct {
		CustomerName string `json:"customer_name"`
		ExpiresAt    string `json:"expires_at"`
	} `json:"license_key"`
}

func (s *Service) validateRemote(ctx context.Context, key string) (Info, error) {
	payload, err := json.Marshal(validateRequest{
		LicenseKey:   key,
		InstanceName: "artefact-mcp",
	})
	if err != nil {
		return Info{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.ValidateURL, bytes.NewReader(payload))
	if err != nil {
		return Info{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Info{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Info{
			Valid: false,
			Tier:  TierFree,
			Err:   fmt.Sprintf("License validation failed (HTTP %d)", resp.StatusCode),
		}, nil
	}

	var body validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Info{
			Valid: false,
			Tier:  TierFree,
			Err:   "License validation returned an unreadable response",
		}, nil
	}

	if !body.Valid {
		errMsg := body.Error
		if errMsg == "" {
			errMsg = "Invalid license key"
		}
		return Info{Valid: false, Tier: TierFree, Err: errMsg}, nil
	}

	// Store and product checks stop cross-product key reuse.
	if (s.cfg.StoreID != 0 && body.Meta.StoreID != 0 && body.Meta.StoreID != s.cfg.StoreID) ||
		(s.cfg.ProductID != 0 && body.Meta.ProductID != 0 && body.Meta.ProductID != s.cfg.ProductID) {
		return Info{
			Valid: false,
			Tier:  TierFree,
			Err:   fmt.Sprintf("License key does not belong to this product. Purchase a valid license at %s", purchaseURL),
		}, nil
	}

	tier := TierPro // valid keys with unrecognized variants default to pro
	if strings.EqualFold(body.Meta.VariantName, string(TierEnterprise)) {
		tier = TierEnterprise
	}

	return Info{
		Valid:        true,
		Tier:         tier,
		CustomerName: body.LicenseKey.CustomerName,
		ExpiresAt:    body.LicenseKey.ExpiresAt,
	}, nil
}

// cacheRecord stores a bcrypt hash of the key, never the key itself.
type cacheRecord struct {
	KeyHash      string `json:"key_hash"`
	Valid        bool   `json:"valid"`
	Tier         string `json:"tier"`
	CustomerName string `json:"customer_name,omitempty"`
	ExpiresAt    string `json:"expires_at,omitempty"`
	CachedAt     int64  `json:"cached_at"`
}

func (s *Service) readCache(key string, ttl time.Duration) (Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.cfg.CachePath)
	if err != nil {
		return Info{}, false
	}

	var record cacheRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return Info{}, false
	}
	if bcrypt.CompareHashAndPassword([]byte(record.KeyHash), []byte(key)) != nil {
		return Info{}, false
	}
	if time.Since(time.Unix(record.CachedAt, 0)) > ttl {
		return Info{}, false
	}

	return Info{
		Valid:        record.Valid,
		Tier:         Tier(record.Tier),
		CustomerName: record.CustomerName,
		ExpiresAt:    record.ExpiresAt,
	}, true
}

// writeCache failures are non-fatal: the next call just revalidates remotely.
func (s *Service) writeCache(key string, info Info) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Warn("could not hash license key for caching")
		return
	}

	record := cacheRecord{
		KeyHash:      string(hash),
		Valid:        info.Valid,
		Tier:         string(info.Tier),
		CustomerName: info.CustomerName,
		ExpiresAt:    info.ExpiresAt,
		CachedAt:     time.Now().Unix(),
	}
	raw, err := json.Marshal(record)
	if err != nil {
		logrus.WithError(err).Warn("could not encode license cache record")
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.cfg.CachePath), 0o700); err != nil {
		logrus.WithError(err).Warn("could not create license cache directory")
		return
	}
	if err := os.WriteFile(s.cfg.CachePath, raw, 0o600); err != nil {
		logrus.WithError(err).Warn("could not write license cache")
	}
}
