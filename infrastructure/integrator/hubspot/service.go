// Package hubspot normalizes HubSpot CRM data into the core domain shapes.
// Raw API responses pass through the TTL cache; computed results never do.
package hubspot

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/artefactventures/artefact-mcp/infrastructure/cache"
	hsdomain "github.com/artefactventures/artefact-mcp/infrastructure/integrator/hubspot/domain"
	"github.com/artefactventures/artefact-mcp/infrastructure/integrator/hubspot/hubspotclient"
	"github.com/artefactventures/artefact-mcp/internal/domain"
	"github.com/artefactventures/artefact-mcp/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:generate mockgen -source=./service.go -destination=./mocks/service.go -package=mocks

// Integrator is the data-source collaborator the analysis tools pull CRM
// inputs from.
type Integrator interface {
	ClientRecords() ([]domain.ClientRecord, error)
	OpenDeals(pipelineID string) ([]domain.Deal, error)
	Stages(pipelineID string) ([]domain.PipelineStage, error)
	CompanyProfile(companyID string) (*domain.ProspectProfile, error)
	SearchCompanies(query string) ([]domain.ProspectProfile, error)
}

type HubSpotIntegrator struct {
	Client   hubspotclient.Client
	cache    cache.ResponseCache
	cacheTTL time.Duration
}

func New(client hubspotclient.Client, responseCache cache.ResponseCache, cacheTTL time.Duration) *HubSpotIntegrator {
	return &HubSpotIntegrator{
		Client:   client,
		cache:    responseCache,
		cacheTTL: cacheTTL,
	}
}

// ClientRecords aggregates closed-won deals by their first associated company
// into the normalized records RFM scoring consumes.
func (s *HubSpotIntegrator) ClientRecords() ([]domain.ClientRecord, error) {
	var records []domain.ClientRecord
	if s.readCached("hubspot:clients", &records) {
		return records, nil
	}

	deals, err := s.Client.FetchClosedWonDeals()
	if err != nil {
		logrus.WithError(err).Error("hubspot: failed to fetch closed-won deals")
		return nil, err
	}

	companyIDs := map[string]bool{}
	for _, deal := range deals {
		for _, assoc := range dealCompanies(deal) {
			companyIDs[assoc.ID] = true
		}
	}
	ids := make([]string, 0, len(companyIDs))
	for id := range companyIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	companies, err := s.Client.BatchReadCompanies(ids)
	if err != nil {
		logrus.WithError(err).Error("hubspot: failed to batch read companies")
		return nil, err
	}

	records = aggregateByCompany(deals, companies)
	logrus.WithFields(logrus.Fields{
		"deals":   len(deals),
		"clients": len(records),
	}).Debug("hubspot: aggregated client records")

	s.writeCached("hubspot:clients", records)
	return records, nil
}

// OpenDeals fetches and normalizes the open deals of one pipeline (all
// pipelines when pipelineID is empty).
func (s *HubSpotIntegrator) OpenDeals(pipelineID string) ([]domain.Deal, error) {
	cacheKey := "hubspot:deals:" + pipelineID
	var deals []domain.Deal
	if s.readCached(cacheKey, &deals) {
		return deals, nil
	}

	raw, err := s.Client.SearchOpenDeals(pipelineID)
	if err != nil {
		logrus.WithError(err).Error("hubspot: failed to search open deals")
		return nil, err
	}

	stageLabels := map[string]string{}
	if stages, err := s.Stages(pipelineID); err == nil {
		for _, stage := range stages {
			stageLabels[stage.ID] = stage.Label
		}
	}

	deals = make([]domain.Deal, 0, len(raw))
	for _, wire := range raw {
		deal, err := normalizeDeal(wire, stageLabels)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"deal_id": wire.ID,
				"error":   err.Error(),
			}).Warn("hubspot: skipping deal with unparseable dates")
			continue
		}
		deals = append(deals, deal)
	}

	s.writeCached(cacheKey, deals)
	return deals, nil
}

// Stages returns a pipeline's stage definitions in display order.
func (s *HubSpotIntegrator) Stages(pipelineID string) ([]domain.PipelineStage, error) {
	cacheKey := "hubspot:stages:" + pipelineID
	var stages []domain.PipelineStage
	if s.readCached(cacheKey, &stages) {
		return stages, nil
	}

	raw, err := s.Client.FetchStages(pipelineID)
	if err != nil {
		logrus.WithError(err).Error("hubspot: failed to fetch pipeline stages")
		return nil, err
	}

	stages = make([]domain.PipelineStage, 0, len(raw))
	for _, stage := range raw {
		label := stage.Label
		if label == "" {
			label = stage.ID
		}
		stages = append(stages, domain.PipelineStage{
			ID:           stage.ID,
			Label:        label,
			DisplayOrder: stage.DisplayOrder,
		})
	}

	s.writeCached(cacheKey, stages)
	return stages, nil
}

// CompanyProfile fetches one company and maps its firmographics onto a
// prospect profile. Behavioral and strategic fields are not CRM properties
// and stay empty for the caller to fill.
func (s *HubSpotIntegrator) CompanyProfile(companyID string) (*domain.ProspectProfile, error) {
	company, err := s.Client.FetchCompany(companyID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"company_id": companyID,
			"error":      err.Error(),
		}).Error("hubspot: failed to fetch company")
		return nil, err
	}
	profile := companyProfile(*company)
	return &profile, nil
}

func (s *HubSpotIntegrator) SearchCompanies(query string) ([]domain.ProspectProfile, error) {
	companies, err := s.Client.SearchCompanies(query, 10)
	if err != nil {
		logrus.WithError(err).Error("hubspot: company search failed")
		return nil, err
	}

	profiles := make([]domain.ProspectProfile, 0, len(companies))
	for _, company := range companies {
		profiles = append(profiles, companyProfile(company))
	}
	return profiles, nil
}

func (s *HubSpotIntegrator) readCached(key string, out any) bool {
	if s.cache == nil {
		return false
	}
	payload, hit, err := s.cache.Get(key)
	if err != nil || !hit {
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false
	}
	return true
}

func (s *HubSpotIntegrator) writeCached(key string, value any) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(key, payload, s.cacheTTL); err != nil {
		logrus.WithError(err).Warn("hubspot: could not cache response")
	}
}

func dealCompanies(deal hsdomain.Deal) []hsdomain.AssociationRef {
	if deal.Associations == nil {
		return nil
	}
	return deal.Associations.Companies.Results
}

func normalizeDeal(wire hsdomain.Deal, stageLabels map[string]string) (domain.Deal, error) {
	props := wire.Properties

	createDate, err := utils.ParseCRMTimestamp(props["createdate"])
	if err != nil {
		return domain.Deal{}, fmt.Errorf("createdate: %w", err)
	}
	closeDate, err := utils.ParseCRMTimestamp(props["closedate"])
	if err != nil {
		return domain.Deal{}, fmt.Errorf("closedate: %w", err)
	}
	lastModified, err := utils.ParseCRMTimestamp(props["hs_lastmodifieddate"])
	if err != nil {
		return domain.Deal{}, fmt.Errorf("hs_lastmodifieddate: %w", err)
	}

	stageID := props["dealstage"]
	return domain.Deal{
		ID:           wire.ID,
		Name:         props["dealname"],
		Amount:       safeFloat(props["amount"]),
		StageID:      stageID,
		StageLabel:   stageLabels[stageID],
		Pipeline:     props["pipeline"],
		CreateDate:   createDate,
		CloseDate:    closeDate,
		LastModified: lastModified,
	}, nil
}

func aggregateByCompany(deals []hsdomain.Deal, companies map[string]hsdomain.Company) []domain.ClientRecord {
	byCompany := map[string]*domain.ClientRecord{}
	var order []string

	for _, deal := range deals {
		assocs := dealCompanies(deal)
		if len(assocs) == 0 || assocs[0].ID == "" {
			continue
		}
		companyID := assocs[0].ID

		record, seen := byCompany[companyID]
		if !seen {
			info := companies[companyID].Properties
			name := info["name"]
			if name == "" {
				name = "Unknown"
			}
			record = &domain.ClientRecord{
				ID:           companyID,
				Name:         name,
				Industry:     info["industry"],
				EmployeeBand: employeeBand(info["numberofemployees"]),
				RevenueBand:  revenueBand(info["annualrevenue"]),
				Region:       regionOf(info),
			}
			byCompany[companyID] = record
			order = append(order, companyID)
		}

		record.TotalRevenue += safeFloat(deal.Properties["amount"])
		record.TransactionCount++

		if closeDate, err := utils.ParseCRMTimestamp(deal.Properties["closedate"]); err == nil && closeDate != nil {
			if record.LastPurchaseDate == nil || closeDate.After(*record.LastPurchaseDate) {
				record.LastPurchaseDate = closeDate
			}
		}
	}

	records := make([]domain.ClientRecord, 0, len(order))
	for _, id := range order {
		records = append(records, *byCompany[id])
	}
	return records
}

func companyProfile(company hsdomain.Company) domain.ProspectProfile {
	props := company.Properties

	name := props["name"]
	if name == "" {
		name = "Unknown"
	}

	profile := domain.ProspectProfile{
		CompanyName: name,
		CRMID:       company.ID,
		Industry:    props["industry"],
		Geography:   regionOf(props),
	}
	if revenue, err := strconv.ParseFloat(props["annualrevenue"], 64); err == nil {
		profile.AnnualRevenue = &revenue
	}
	if count, err := strconv.Atoi(props["numberofemployees"]); err == nil {
		profile.EmployeeCount = &count
	}
	return profile
}

func regionOf(props map[string]string) string {
	if props["state"] != "" {
		return props["state"]
	}
	return props["country"]
}

func safeFloat(raw string) float64 {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

func employeeBand(raw string) string {
	count, err := strconv.Atoi(raw)
	if err != nil {
		return raw
	}
	switch {
	case count <= 10:
		return "1-10"
	case count <= 50:
		return "11-50"
	case count <= 200:
		return "51-200"
	case count <= 500:
		return "201-500"
	case count <= 1000:
		return "501-1000"
	default:
		return "1000+"
	}
}

func revenueBand(raw string) string {
	revenue, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	switch {
	case revenue < 1_000_000:
		return "<$1M"
	case revenue < 5_000_000:
		return "$1M-$5M"
	case revenue < 20_000_000:
		return "$5M-$20M"
	case revenue < 70_000_000:
		return "$20M-$70M"
	default:
		return "$70M+"
	}
}
