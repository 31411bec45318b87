package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/artefactventures/artefact-mcp/infrastructure/cache"
	"github.com/artefactventures/artefact-mcp/infrastructure/database/sqlite"
	"github.com/artefactventures/artefact-mcp/infrastructure/integrator/hubspot"
	"github.com/artefactventures/artefact-mcp/infrastructure/integrator/hubspot/hubspotclient"
	"github.com/artefactventures/artefact-mcp/internal/api"
	"github.com/artefactventures/artefact-mcp/internal/config"
	"github.com/artefactventures/artefact-mcp/internal/licensing"
	"github.com/artefactventures/artefact-mcp/internal/mcptools"
	"github.com/artefactventures/artefact-mcp/internal/usecases/constraining"
	"github.com/artefactventures/artefact-mcp/internal/usecases/pipelining"
	"github.com/artefactventures/artefact-mcp/internal/usecases/rfmscoring"
	"github.com/artefactventures/artefact-mcp/internal/usecases/segmenting"
	"github.com/artefactventures/artefact-mcp/internal/usecases/signaling"
)

const (
	serverName = "artefact-revenue-operations"
	version    = "1.0.0"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("invalid log level %q, using info", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	// On stdio the protocol owns stdout; everything else goes to stderr.
	logrus.SetOutput(os.Stderr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	licenseService := licensing.NewService(cfg.License)
	initialInfo := licenseService.Validate(ctx, "")
	logLicenseStatus(initialInfo)

	revalidator := licensing.NewRevalidator(licenseService, cfg.License)
	if err := revalidator.Start(ctx); err != nil {
		logrus.WithError(err).Error("could not start license revalidation")
	}

	licenseInfo := func() licensing.Info {
		if info, at := revalidator.LastResult(); !at.IsZero() {
			return info
		}
		return initialInfo
	}

	methodology, err := config.LoadMethodology(cfg.Methodology.File)
	if err != nil {
		logrus.WithError(err).Fatal("could not load methodology file")
	}
	if methodology != nil {
		logrus.WithField("file", cfg.Methodology.File).Info("methodology overrides loaded")
	}

	integrator := buildIntegrator(ctx, cfg)

	classifier := segmenting.NewClassifier(11)
	rfmService := rfmscoring.NewService(classifier, segmenting.NewExtractor(classifier, 3))

	analyzer, err := pipelining.NewAnalyzer(pipelining.DefaultAnalyzerConfig())
	if err != nil {
		logrus.WithError(err).Fatal("could not build pipeline analyzer")
	}
	detector := signaling.NewDetector(analyzer, signaling.DefaultConfig())
	constraints := constraining.NewService(analyzer, constraining.DefaultBenchmarks())

	tools := mcptools.New(mcptools.Deps{
		RFM:         rfmService,
		Analyzer:    analyzer,
		Detector:    detector,
		Constraints: constraints,
		Integrator:  integrator,
		Methodology: methodology,
		License:     licenseInfo,
	})

	srv := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	tools.Register(srv)

	switch cfg.Server.Transport {
	case config.TransportHTTP:
		runHTTP(ctx, cfg, srv)
	default:
		runStdio(ctx, srv)
	}
}

func runStdio(ctx context.Context, srv *mcp.Server) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.Info("MCP server listening on stdio")
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logrus.WithError(err).Fatal("stdio transport terminated")
	}
}

func runHTTP(ctx context.Context, cfg *config.Config, srv *mcp.Server) {
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return srv
	}, nil)

	server, err := api.New(cfg, version, mcpHandler)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// buildIntegrator wires the HubSpot integrator with its SQLite response
// cache. Without an API key the server runs sample-only and the integrator
// stays nil.
func buildIntegrator(ctx context.Context, cfg *config.Config) hubspot.Integrator {
	if cfg.HubSpot.APIKey == "" {
		logrus.Info("HUBSPOT_API_KEY not set, live CRM data disabled")
		return nil
	}

	client, err := hubspotclient.NewClient(cfg.HubSpot)
	if err != nil {
		logrus.WithError(err).Fatal("could not build HubSpot client")
	}

	var responseCache cache.ResponseCache
	conn, err := sqlite.NewConnection(ctx, cfg.Cache.Path)
	if err != nil {
		logrus.WithError(err).Warn("response cache unavailable, HubSpot calls will not be cached")
	} else {
		responseCache, err = cache.NewResponseCache(conn)
		if err != nil {
			logrus.WithError(err).Warn("could not initialize response cache")
			responseCache = nil
		}
	}

	ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	return hubspot.New(client, responseCache, ttl)
}

func logLicenseStatus(info licensing.Info) {
	if info.Tier.AtLeast(licensing.TierPro) {
		logrus.WithFields(logrus.Fields{
			"tier":        info.Tier,
			"licensed_to": info.CustomerName,
		}).Info("license validated")
		return
	}
	if info.Err != "" {
		logrus.WithField("error", info.Err).Warn("license validation failed, running in free mode")
	} else {
		logrus.Info("running in free mode: sample data only")
	}
	logrus.Info("purchase a license at https://artefactventures.lemonsqueezy.com to unlock live CRM data")
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
