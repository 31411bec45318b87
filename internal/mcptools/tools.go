package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"

	"github.com/artefactventures/artefact-mcp/internal/domain"
	"github.com/artefactventures/artefact-mcp/internal/usecases/pipelining"
	"github.com/artefactventures/artefact-mcp/internal/usecases/qualifying"
)

func decodeArgs(req *mcp.CallToolRequest, out any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, out)
}

// --- run_rfm_analysis ---

type runRFMRequest struct {
	Source         string `json:"source"`
	IndustryPreset string `json:"industry_preset"`
}

func (s *Server) registerRFMTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name: "run_rfm_analysis",
		Description: "Run RFM (Recency, Frequency, Monetary) analysis on client data. " +
			"Scores clients on purchase behavior, segments them into 11 categories, " +
			"and extracts ICP patterns from top performers.",
		InputSchema: inputSchema(map[string]any{
			"source":          map[string]any{"type": "string", "enum": []any{"hubspot", "sample"}, "description": "Data source. \"hubspot\" pulls live CRM data, \"sample\" uses built-in demo data."},
			"industry_preset": map[string]any{"type": "string", "description": "Scoring preset: default, b2b_service, saas or manufacturing. Methodology files may add custom preset names."},
		}, nil),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var rr runRFMRequest
		if err := decodeArgs(req, &rr); err != nil {
			return errorResult(errors.Wrap(err, "invalid arguments")), nil
		}
		source := normalizeSource(rr.Source)

		if err := s.requireSource(source); err != nil {
			return errorResult(err), nil
		}
		preset, err := s.methodology.Preset(rr.IndustryPreset)
		if err != nil {
			return errorResult(err), nil
		}
		records, err := s.clients(source)
		if err != nil {
			return errorResult(err), nil
		}
		if len(records) == 0 {
			return errorResult(errors.New("no client data found")), nil
		}

		analysis, err := s.rfm.AnalyzePreset(records, preset, s.now())
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(analysis), nil
	})
}

// --- qualify_prospect ---

type qualifyRequest struct {
	CompanyID     string                      `json:"company_id,omitempty"`
	CompanyName   string                      `json:"company_name,omitempty"`
	CompanyData   *domain.ProspectProfile     `json:"company_data,omitempty"`
	ScoringConfig *qualifying.ScoringOverride `json:"scoring_config,omitempty"`
}

type qualifyCompany struct {
	Name     string `json:"name"`
	CRMID    string `json:"crm_id,omitempty"`
	Industry string `json:"industry,omitempty"`
}

type incompleteScoreNote struct {
	Warning       string   `json:"warning"`
	MissingFields []string `json:"missing_fields"`
	HowToFix      string   `json:"how_to_fix"`
}

type constraintRelevance struct {
	Constraint domain.ConstraintKey `json:"constraint"`
	Relevance  string               `json:"relevance"`
	Reason     string               `json:"reason"`
}

type constraintContext struct {
	ProspectConstraintFit []constraintRelevance `json:"prospect_constraint_fit"`
	Recommendation        string                `json:"recommendation"`
}

type qualifyResponse struct {
	Company qualifyCompany `json:"company"`
	domain.QualificationResult
	IncompleteScore   *incompleteScoreNote `json:"_incomplete_score,omitempty"`
	ScoringNote       string               `json:"_scoring_note,omitempty"`
	ConstraintContext constraintContext    `json:"constraint_context"`
}

func (s *Server) registerQualifyTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name: "qualify_prospect",
		Description: "Score a prospect against the 14.5-point ICP model: Firmographic Fit (5 pts), " +
			"Behavioral Fit (5 pts) and Strategic Fit (4.5 pts). Returns tier classification, " +
			"score breakdown and recommended engagement strategy. Provide company_id or " +
			"company_name (CRM lookup, requires a Pro license) or company_data.",
		InputSchema: inputSchema(map[string]any{
			"company_id":   map[string]any{"type": "string", "description": "HubSpot company ID to fetch and score."},
			"company_name": map[string]any{"type": "string", "description": "Company name to search in HubSpot; the best match is scored."},
			"company_data": map[string]any{
				"type": "object",
				"description": "Company attributes. Keys: industry, annual_revenue, employee_count, geography, " +
					"tech_stack (list), growth_signals (list), content_engagement (active|occasional|none), " +
					"purchase_history (regular|occasional|never), decision_maker_access " +
					"(c_suite|director|manager|indirect|none), budget_authority (dedicated|shared|possible|none), " +
					"strategic_alignment (strong|partial|misaligned).",
			},
			"scoring_config": map[string]any{
				"type": "object",
				"description": "Partial scoring overrides: primary_industries, adjacent_industries, " +
					"excluded_industries, revenue_range ([min, max]), employee_range ([min, max]), " +
					"minimum_revenue, primary_geography, secondary_geography.",
			},
		}, nil),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var rr qualifyRequest
		if err := decodeArgs(req, &rr); err != nil {
			return errorResult(errors.Wrap(err, "invalid arguments")), nil
		}
		if rr.CompanyID == "" && rr.CompanyName == "" && rr.CompanyData == nil {
			return errorResult(errors.New("one of company_id, company_name or company_data must be provided")), nil
		}

		profile, hubspotOnly, err := s.resolveProspect(rr)
		if err != nil {
			return errorResult(err), nil
		}

		base, err := s.methodology.ScoringConfig()
		if err != nil {
			return errorResult(err), nil
		}
		cfg, err := qualifying.Merge(base, rr.ScoringConfig)
		if err != nil {
			return errorResult(err), nil
		}

		result := qualifying.NewQualifier(cfg).Qualify(*profile)

		response := qualifyResponse{
			Company: qualifyCompany{
				Name:     profile.CompanyName,
				CRMID:    profile.CRMID,
				Industry: profile.Industry,
			},
			QualificationResult: result,
			ConstraintContext:   assessConstraintRelevance(*profile, result),
		}
		if response.Company.Name == "" {
			response.Company.Name = "Unknown"
		}
		if hubspotOnly {
			response.IncompleteScore = &incompleteScoreNote{
				Warning: "Score is based on firmographic data only (max ~5/14.5). " +
					"Behavioral Fit and Strategic Fit scored 0 because the CRM does not " +
					"store these fields natively.",
				MissingFields: []string{
					"tech_stack", "growth_signals", "content_engagement",
					"decision_maker_access", "budget_authority", "strategic_alignment",
				},
				HowToFix: "Re-run with company_data containing the missing fields alongside company_id.",
			}
		}
		if rr.ScoringConfig == nil {
			response.ScoringNote = "Scored using the default B2B model. " +
				"Pass scoring_config to customize industries, revenue range, " +
				"geography, and exclusions for your business."
		}
		return jsonResult(response), nil
	})
}

// resolveProspect builds the profile to score. With a company_id or
// company_name the firmographics come from the CRM and any company_data
// supplies the behavioral and strategic fields the CRM cannot know.
func (s *Server) resolveProspect(rr qualifyRequest) (*domain.ProspectProfile, bool, error) {
	if rr.CompanyID == "" && rr.CompanyName == "" {
		return rr.CompanyData, false, nil
	}

	if err := s.requireSource(sourceHubSpot); err != nil {
		return nil, false, err
	}
	if s.integrator == nil {
		return nil, false, errors.New("HubSpot is not configured. Set HUBSPOT_API_KEY in your environment.")
	}

	var profile *domain.ProspectProfile
	if rr.CompanyID != "" {
		fetched, err := s.integrator.CompanyProfile(rr.CompanyID)
		if err != nil {
			return nil, false, err
		}
		profile = fetched
	} else {
		matches, err := s.integrator.SearchCompanies(rr.CompanyName)
		if err != nil {
			return nil, false, err
		}
		if len(matches) == 0 {
			return nil, false, errors.Errorf("no CRM company matches %q", rr.CompanyName)
		}
		profile = &matches[0]
	}

	overrides := rr.CompanyData
	if overrides == nil {
		return profile, true, nil
	}
	profile.TechStack = overrides.TechStack
	profile.GrowthSignals = overrides.GrowthSignals
	profile.ContentEngagement = overrides.ContentEngagement
	profile.PurchaseHistory = overrides.PurchaseHistory
	profile.DecisionMakerAccess = overrides.DecisionMakerAccess
	profile.BudgetAuthority = overrides.BudgetAuthority
	profile.StrategicAlignment = overrides.StrategicAlignment

	hubspotOnly := len(overrides.TechStack) == 0 &&
		len(overrides.GrowthSignals) == 0 &&
		overrides.ContentEngagement == "" &&
		overrides.DecisionMakerAccess == "" &&
		overrides.BudgetAuthority == "" &&
		overrides.StrategicAlignment == ""
	return profile, hubspotOnly, nil
}

// assessConstraintRelevance relates a prospect to the four scaling
// constraints so an assistant can weigh pursuing it against the operation's
// dominant bottleneck.
func assessConstraintRelevance(profile domain.ProspectProfile, result domain.QualificationResult) constraintContext {
	tierNumber := result.Tier.Number
	var relevance []constraintRelevance

	if tierNumber <= 2 {
		relevance = append(relevance, constraintRelevance{
			Constraint: domain.ConstraintConversion,
			Relevance:  "high",
			Reason: fmt.Sprintf(
				"Tier %d prospect (%.1f/14.5). High-fit prospects convert at 2-3x the rate of low-fit. "+
					"Pursuing this prospect directly improves win rate.",
				tierNumber, result.TotalScore),
		})
	}

	if revenue := profile.AnnualRevenue; revenue != nil {
		switch {
		case *revenue > 10_000_000:
			relevance = append(relevance, constraintRelevance{
				Constraint: domain.ConstraintProfitability,
				Relevance:  "high",
				Reason: fmt.Sprintf(
					"Annual revenue $%.0f. Larger companies typically support higher ACVs, improving unit economics.",
					*revenue),
			})
		case *revenue > 5_000_000:
			relevance = append(relevance, constraintRelevance{
				Constraint: domain.ConstraintProfitability,
				Relevance:  "medium",
				Reason: fmt.Sprintf(
					"Annual revenue $%.0f. Mid-market company with solid ACV potential.", *revenue),
			})
		}
	}

	if profile.StrategicAlignment == "strong" {
		relevance = append(relevance, constraintRelevance{
			Constraint: domain.ConstraintDelivery,
			Relevance:  "medium",
			Reason: "Strong strategic alignment. Aligned clients are easier to deliver for " +
				"(faster onboarding, less scope creep, higher NRR).",
		})
	}

	if len(relevance) == 0 {
		relevance = append(relevance, constraintRelevance{
			Constraint: domain.ConstraintLeadGeneration,
			Relevance:  "low",
			Reason: fmt.Sprintf(
				"Tier %d prospect. Pursuing low-fit prospects does not address conversion or "+
					"profitability constraints. Focus resources on higher-tier leads.",
				tierNumber),
		})
	}

	recommendation := fmt.Sprintf("This Tier %d prospect ", tierNumber)
	if tierNumber <= 2 {
		recommendation += "directly addresses conversion constraints. Pursue with priority."
	} else {
		recommendation += "may not address your dominant constraint. " +
			"Consider opportunity cost vs. higher-tier prospects."
	}

	return constraintContext{
		ProspectConstraintFit: relevance,
		Recommendation:        recommendation,
	}
}

// --- score_pipeline_health ---

type scorePipelineRequest struct {
	PipelineID string `json:"pipeline_id,omitempty"`
	Source     string `json:"source"`
}

func (s *Server) registerPipelineTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name: "score_pipeline_health",
		Description: "Analyze pipeline health: overall score (0-100), stage velocity and bottlenecks, " +
			"stage-to-stage conversion rates, and stalled or overdue deals.",
		InputSchema: inputSchema(map[string]any{
			"pipeline_id": map[string]any{"type": "string", "description": "Optional pipeline ID filter. Default: all pipelines."},
			"source":      map[string]any{"type": "string", "enum": []any{"hubspot", "sample"}, "description": "Data source."},
		}, nil),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var rr scorePipelineRequest
		if err := decodeArgs(req, &rr); err != nil {
			return errorResult(errors.Wrap(err, "invalid arguments")), nil
		}
		source := normalizeSource(rr.Source)

		if err := s.requireSource(source); err != nil {
			return errorResult(err), nil
		}
		deals, stages, err := s.dealsAndStages(source, rr.PipelineID)
		if err != nil {
			return errorResult(err), nil
		}

		result := s.analyzer.Analyze(deals, stages, nil, pipelining.Window{}, s.now())
		return jsonResult(result), nil
	})
}

// --- detect_signals ---

type detectSignalsRequest struct {
	Source      string   `json:"source"`
	SignalTypes []string `json:"signal_types,omitempty"`
	PipelineID  string   `json:"pipeline_id,omitempty"`
}

func (s *Server) registerSignalsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name: "detect_signals",
		Description: "Scan the pipeline for evidence-backed GTM signals: velocity anomalies, " +
			"conversion drop-offs, stagnation clusters, concentration shifts and data-quality gaps. " +
			"Every signal carries a 0-1 strength and structured evidence.",
		InputSchema: inputSchema(map[string]any{
			"source": map[string]any{"type": "string", "enum": []any{"hubspot", "sample"}, "description": "Data source."},
			"signal_types": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Optional filter. Types: win_loss_pattern, conversion_drop_off, velocity_anomaly, spiced_frequency, attribution_shift, data_quality.",
			},
			"pipeline_id": map[string]any{"type": "string", "description": "Optional pipeline ID filter."},
		}, nil),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var rr detectSignalsRequest
		if err := decodeArgs(req, &rr); err != nil {
			return errorResult(errors.Wrap(err, "invalid arguments")), nil
		}
		source := normalizeSource(rr.Source)

		if err := s.requireSource(source); err != nil {
			return errorResult(err), nil
		}
		deals, stages, err := s.dealsAndStages(source, rr.PipelineID)
		if err != nil {
			return errorResult(err), nil
		}

		report := s.detector.Detect(deals, stages, s.now())
		if len(rr.SignalTypes) > 0 {
			report = filterSignalTypes(report, rr.SignalTypes)
		}
		return jsonResult(report), nil
	})
}

// filterSignalTypes narrows a report to the requested types and rebuilds the
// summary from what is left. Signals arrive sorted by strength, so the first
// survivor is the strongest.
func filterSignalTypes(report domain.SignalReport, types []string) domain.SignalReport {
	wanted := make(map[domain.SignalType]bool, len(types))
	for _, t := range types {
		wanted[domain.SignalType(t)] = true
	}

	var kept []domain.Signal
	for _, signal := range report.Signals {
		if wanted[signal.Type] {
			kept = append(kept, signal)
		}
	}

	summary := domain.SignalSummary{
		TotalSignals: len(kept),
		TypeCounts:   map[domain.SignalType]int{},
	}
	for _, signal := range kept {
		if summary.TypeCounts[signal.Type] == 0 {
			summary.TypesDetected = append(summary.TypesDetected, signal.Type)
		}
		summary.TypeCounts[signal.Type]++
	}
	if len(kept) > 0 {
		strongest := kept[0]
		summary.Strongest = &strongest
	}
	for _, signal := range report.Summary.Critical {
		if wanted[signal.Type] {
			summary.Critical = append(summary.Critical, signal)
		}
	}

	report.Signals = kept
	report.Summary = summary
	return report
}

// --- identify_constraint ---

type identifyConstraintRequest struct {
	Source     string  `json:"source"`
	PipelineID string  `json:"pipeline_id,omitempty"`
	Quota      float64 `json:"quota,omitempty"`
}

func (s *Server) registerConstraintTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name: "identify_constraint",
		Description: "Identify the dominant scaling constraint (lead_generation, conversion, delivery " +
			"or profitability) from pipeline evidence, with a revenue-formula breakdown and the " +
			"highest-leverage improvement point.",
		InputSchema: inputSchema(map[string]any{
			"source":      map[string]any{"type": "string", "enum": []any{"hubspot", "sample"}, "description": "Data source."},
			"pipeline_id": map[string]any{"type": "string", "description": "Optional pipeline ID filter."},
			"quota":       map[string]any{"type": "number", "description": "Optional quarterly revenue quota for pipeline coverage calculation."},
		}, nil),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var rr identifyConstraintRequest
		if err := decodeArgs(req, &rr); err != nil {
			return errorResult(errors.Wrap(err, "invalid arguments")), nil
		}
		source := normalizeSource(rr.Source)

		if err := s.requireSource(source); err != nil {
			return errorResult(err), nil
		}
		deals, stages, err := s.dealsAndStages(source, rr.PipelineID)
		if err != nil {
			return errorResult(err), nil
		}

		report := s.constraints.Identify(deals, stages, rr.Quota, s.now())
		return jsonResult(report), nil
	})
}
