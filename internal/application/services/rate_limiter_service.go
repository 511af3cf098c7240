package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/ratelimit"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var (
	rateLimitDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_rate_limit_decisions_total",
			Help: "Rate limiter admit decisions",
		},
		[]string{"decision"},
	)
	rateLimitTrackedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "crm_rate_limit_tracked_clients",
			Help: "Clients holding sliding window state after the last sweep",
		},
	)
	rateLimitEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_rate_limit_evictions_total",
			Help: "Idle clients removed by the periodic sweep",
		},
	)
)

func init() {
	prometheus.MustRegister(rateLimitDecisions, rateLimitTrackedClients, rateLimitEvictions)
}

// RateLimiterConfig groups configuration parameters for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	// SweepInterval defaults to Window.
	SweepInterval time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// RateLimiterService applies one sliding-window policy to every client and owns
// the background sweep that forgets idle clients.
type RateLimiterService struct {
	store         ports.RateLimitStore
	policy        ratelimit.Policy
	sweepInterval time.Duration
	clock         func() time.Time
	logger        *logrus.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRateLimiterService(store ports.RateLimitStore, cfg *RateLimiterConfig, logger *logrus.Logger) *RateLimiterService {
	// Apply defaults
	limit := ratelimit.DefaultLimit
	window := ratelimit.DefaultWindow
	var sweep time.Duration
	clock := time.Now
	if cfg != nil {
		if cfg.RequestsPerWindow > 0 {
			limit = cfg.RequestsPerWindow
		}
		if cfg.Window > 0 {
			window = cfg.Window
		}
		sweep = cfg.SweepInterval
		if cfg.Clock != nil {
			clock = cfg.Clock
		}
	}
	if sweep <= 0 {
		sweep = window
	}
	return &RateLimiterService{
		store:         store,
		policy:        ratelimit.Policy{Limit: limit, Window: window},
		sweepInterval: sweep,
		clock:         clock,
		logger:        logger,
	}
}

func (s *RateLimiterService) Admit(ctx context.Context, clientID string) (ratelimit.Decision, error) {
	if clientID == "" {
		clientID = ratelimit.UnknownClient
	}
	decision, err := s.store.Admit(ctx, clientID, s.clock(), s.policy)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"client_id": clientID}).WithError(err).Error("rate limiter: store admit failed")
		}
		// fail open
		rateLimitDecisions.WithLabelValues(ratelimit.Allowed.String()).Inc()
		return ratelimit.Allowed, err
	}
	rateLimitDecisions.WithLabelValues(decision.String()).Inc()
	return decision, nil
}

// Start launches the sweep goroutine. Calling Start twice without Stop is a no-op.
func (s *RateLimiterService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	sweepCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go s.runSweep(sweepCtx)
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"interval": s.sweepInterval.String()}).Info("rate limiter sweep started")
	}
}

// Stop cancels the sweep and blocks until the goroutine has returned.
func (s *RateLimiterService) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	if s.logger != nil {
		s.logger.Info("rate limiter sweep stopped")
	}
}

func (s *RateLimiterService) runSweep(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil && s.logger != nil {
				s.logger.WithError(err).Error("rate limiter sweep failed")
			}
		}
	}
}

// SweepOnce runs a single eviction pass. A panic inside the store is converted to an error
// so the periodic loop keeps running.
func (s *RateLimiterService) SweepOnce(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sweep panic: %v", r)
		}
	}()

	evicted, err := s.store.Sweep(ctx, s.clock(), s.policy.Window)
	if err != nil {
		return err
	}
	rateLimitEvictions.Add(float64(evicted))
	tracked, err := s.store.Tracked(ctx)
	if err != nil {
		return err
	}
	rateLimitTrackedClients.Set(float64(tracked))
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"evicted": evicted, "tracked": tracked}).Debug("rate limiter sweep")
	}
	return nil
}

func (s *RateLimiterService) Stats(ctx context.Context) (*ratelimit.Stats, error) {
	tracked, err := s.store.Tracked(ctx)
	if err != nil {
		return nil, err
	}
	return &ratelimit.Stats{
		TrackedClients: tracked,
		Limit:          s.policy.Limit,
		WindowSeconds:  int(s.policy.Window / time.Second),
	}, nil
}

var _ ports.RateLimiterService = (*RateLimiterService)(nil)
