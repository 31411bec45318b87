package licensing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/artefactventures/artefact-mcp/internal/config"
)

// Revalidator refreshes the cached license entitlement in the background so
// long-running servers notice expired or refunded keys without a restart.
type Revalidator struct {
	scheduler *gocron.Scheduler
	service   *Service
	cfg       config.License

	mu        sync.Mutex
	running   bool
	lastRunAt time.Time
	lastInfo  Info
}

func NewRevalidator(service *Service, cfg config.License) *Revalidator {
	return &Revalidator{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		cfg:       cfg,
	}
}

func (r *Revalidator) Start(ctx context.Context) error {
	if r.cfg.Key == "" {
		logrus.Info("no license key configured, background revalidation disabled")
		return nil
	}

	logrus.WithField("cron", r.cfg.RevalidateCron).Info("starting license revalidation scheduler")

	_, err := r.scheduler.Cron(r.cfg.RevalidateCron).Do(func() {
		r.revalidate(ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduling license revalidation: %w", err)
	}

	r.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("stopping license revalidation scheduler")
		r.scheduler.Stop()
	}()

	return nil
}

func (r *Revalidator) revalidate(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		logrus.Info("license revalidation already running, skipping")
		return
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	info := r.service.Refresh(ctx)

	r.mu.Lock()
	r.lastRunAt = time.Now()
	r.lastInfo = info
	r.mu.Unlock()

	if !info.Valid {
		logrus.WithField("error", info.Err).Warn("license no longer validates, falling back to free tier")
		return
	}
	logrus.WithField("tier", info.Tier).Info("license revalidated")
}

// LastResult reports the most recent background validation outcome.
func (r *Revalidator) LastResult() (Info, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastInfo, r.lastRunAt
}
