package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SweepResult summarizes one scheduler tick.
type SweepResult struct {
	CheckedOut []uint          `json:"checkedOut"`
	Failed     []uint          `json:"failed"`
	Alerts     []CheckoutAlert `json:"alerts"`
}

// AutoCheckoutService checks out overdue stays and raises upcoming-checkout alerts on a cron
// schedule, and once immediately on Start.
type AutoCheckoutService struct {
	allocations *AllocationService
	alerts      *AlertCenter
	logger      *logrus.Logger
	cron        *cron.Cron
	spec        string
	window      time.Duration

	runMu sync.Mutex
	// the sweep Start launches outside cron
	initial sync.WaitGroup
}

func NewAutoCheckoutService(allocations *AllocationService, alerts *AlertCenter, logger *logrus.Logger, spec string, window time.Duration) *AutoCheckoutService {
	if spec == "" {
		spec = "@every 60s"
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	c := cron.New(cron.WithChain(
		cron.Recover(cron.PrintfLogger(logger)),
		cron.SkipIfStillRunning(cron.PrintfLogger(logger)),
	))
	return &AutoCheckoutService{
		allocations: allocations,
		alerts:      alerts,
		logger:      logger,
		cron:        c,
		spec:        spec,
		window:      window,
	}
}

func (s *AutoCheckoutService) Start() error {
	s.logger.WithField("schedule", s.spec).Info("🕐 Starting auto-checkout scheduler")
	if _, err := s.cron.AddFunc(s.spec, s.tick); err != nil {
		return fmt.Errorf("failed to schedule auto-checkout job: %w", err)
	}
	s.cron.Start()
	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		s.tick()
	}()
	return nil
}

func (s *AutoCheckoutService) Stop() {
	s.logger.Info("🛑 Stopping auto-checkout scheduler")
	<-s.cron.Stop().Done()
	s.initial.Wait()
}

func (s *AutoCheckoutService) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
	defer cancel()
	s.RunOnce(ctx)
}

// RunOnce runs both passes. Ticks never overlap; a manual run waits for a scheduled one.
func (s *AutoCheckoutService) RunOnce(ctx context.Context) SweepResult {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	var res SweepResult
	active, err := s.allocations.ListActive(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load active allocations")
		return res
	}
	now := s.allocations.Now()

	for _, a := range active {
		if a.CheckOut.IsZero() || a.CheckOut.After(now) {
			continue
		}
		if _, err := s.allocations.checkOut(ctx, a.ID, nil, true); err != nil {
			var ce *ConflictError
			if errors.As(err, &ce) || errors.Is(err, ErrNotFound) {
				// checked out or removed since the list was read
				continue
			}
			res.Failed = append(res.Failed, a.ID)
			s.logger.WithError(err).WithField("allocation_id", a.ID).Error("Auto-checkout failed")
			continue
		}
		res.CheckedOut = append(res.CheckedOut, a.ID)
	}
	if len(res.CheckedOut) > 0 {
		s.logger.WithField("count", len(res.CheckedOut)).Info("Auto-checked out overdue stays")
	}

	res.Alerts = s.alerts.Scan(active, now, s.window)
	return res
}
