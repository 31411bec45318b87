// Package mcptools exposes the revenue-intelligence engines as MCP tools and
// methodology resources. Tool failures are reported through the tool result,
// never as protocol errors, so assistants can read and relay them.
package mcptools

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/artefactventures/artefact-mcp/infrastructure/integrator/hubspot"
	"github.com/artefactventures/artefact-mcp/infrastructure/sampledata"
	"github.com/artefactventures/artefact-mcp/internal/config"
	"github.com/artefactventures/artefact-mcp/internal/domain"
	"github.com/artefactventures/artefact-mcp/internal/licensing"
	"github.com/artefactventures/artefact-mcp/internal/usecases/constraining"
	"github.com/artefactventures/artefact-mcp/internal/usecases/pipelining"
	"github.com/artefactventures/artefact-mcp/internal/usecases/rfmscoring"
	"github.com/artefactventures/artefact-mcp/internal/usecases/signaling"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	sourceSample  = "sample"
	sourceHubSpot = "hubspot"
)

// Deps are the collaborators the tool layer composes. Integrator may be nil
// when no CRM credentials are configured; License reports the entitlement in
// force at call time so background revalidation is picked up between calls.
type Deps struct {
	RFM         *rfmscoring.Service
	Analyzer    *pipelining.Analyzer
	Detector    *signaling.Detector
	Constraints *constraining.Service
	Integrator  hubspot.Integrator
	Methodology *config.MethodologyOverrides
	License     func() licensing.Info
	Now         func() time.Time
}

type Server struct {
	rfm         *rfmscoring.Service
	analyzer    *pipelining.Analyzer
	detector    *signaling.Detector
	constraints *constraining.Service
	integrator  hubspot.Integrator
	methodology *config.MethodologyOverrides
	license     func() licensing.Info
	now         func() time.Time
}

func New(deps Deps) *Server {
	s := &Server{
		rfm:         deps.RFM,
		analyzer:    deps.Analyzer,
		detector:    deps.Detector,
		constraints: deps.Constraints,
		integrator:  deps.Integrator,
		methodology: deps.Methodology,
		license:     deps.License,
		now:         deps.Now,
	}
	if s.license == nil {
		s.license = func() licensing.Info { return licensing.Info{Valid: true, Tier: licensing.TierFree} }
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Register adds every tool and methodology resource to an MCP server.
func (s *Server) Register(srv *mcp.Server) {
	s.registerRFMTool(srv)
	s.registerQualifyTool(srv)
	s.registerPipelineTool(srv)
	s.registerSignalsTool(srv)
	s.registerConstraintTool(srv)
	registerResources(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func jsonResult(v any) *mcp.CallToolResult {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(errors.Wrap(err, "encoding tool result"))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res
}

// requireSource gates a data source against the current license tier.
func (s *Server) requireSource(source string) error {
	return licensing.RequireSource(source, s.license())
}

func normalizeSource(source string) string {
	if source == "" {
		return sourceHubSpot
	}
	return source
}

func (s *Server) clients(source string) ([]domain.ClientRecord, error) {
	switch source {
	case sourceSample:
		return sampledata.Clients(s.now()), nil
	case sourceHubSpot:
		if s.integrator == nil {
			return nil, errors.New("HubSpot is not configured. Set HUBSPOT_API_KEY in your environment.")
		}
		return s.integrator.ClientRecords()
	default:
		return nil, errors.Errorf("invalid source %q: use %q or %q", source, sourceHubSpot, sourceSample)
	}
}

func (s *Server) dealsAndStages(source, pipelineID string) ([]domain.Deal, []domain.PipelineStage, error) {
	switch source {
	case sourceSample:
		return sampledata.Deals(s.now()), sampledata.Stages(), nil
	case sourceHubSpot:
		if s.integrator == nil {
			return nil, nil, errors.New("HubSpot is not configured. Set HUBSPOT_API_KEY in your environment.")
		}
		deals, err := s.integrator.OpenDeals(pipelineID)
		if err != nil {
			return nil, nil, err
		}
		stages, err := s.integrator.Stages(pipelineID)
		if err != nil || len(stages) == 0 {
			// Stage metadata is a nice-to-have; the stock pipeline order
			// keeps the analysis usable when the fetch fails.
			logrus.WithError(err).Warn("mcptools: falling back to default pipeline stages")
			stages = pipelining.DefaultStages()
		}
		return deals, stages, nil
	default:
		return nil, nil, errors.Errorf("invalid source %q: use %q or %q", source, sourceHubSpot, sourceSample)
	}
}
