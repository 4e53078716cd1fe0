// Package scheduler runs the daily overdue-debt reminder sweep.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/jfjewelry/backend/internal/domain/debt"
	"github.com/jfjewelry/backend/internal/domain/notification"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// Config holds reminder scheduler configuration
type Config struct {
	Enabled bool

	// SweepHour and SweepMinute set the local time of day for the
	// daily sweep (24h format)
	SweepHour   int
	SweepMinute int

	// CheckInterval is how often to check whether it is time to run
	CheckInterval time.Duration
}

// DefaultConfig returns the default reminder scheduler configuration.
// 9am keeps reminders inside shop hours.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		SweepHour:     9,
		SweepMinute:   0,
		CheckInterval: time.Minute,
	}
}

// Reminder is one overdue debt surfaced by a sweep, with the message
// the shop sends to the customer.
type Reminder struct {
	CustomerName string
	Phone        string
	Message      string
	DaysOverdue  int
}

// ReminderScheduler sweeps for overdue debts once a day and logs the
// reminder message for each, so the operator knows who to contact.
type ReminderScheduler struct {
	config   Config
	debtRepo debt.Repository
	logger   *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewReminderScheduler creates a new ReminderScheduler
func NewReminderScheduler(config Config, debtRepo debt.Repository, logger *zap.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		config:   config,
		debtRepo: debtRepo,
		logger:   logger,
	}
}

// Start starts the daily sweep loop
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Reminder scheduler started",
		zap.Int("sweep_hour", s.config.SweepHour),
		zap.Int("sweep_minute", s.config.SweepMinute),
		zap.Duration("check_interval", s.config.CheckInterval),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *ReminderScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Reminder scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Reminder scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *ReminderScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndSweep(ctx)
		}
	}
}

// checkAndSweep runs the sweep once per day at the configured time
func (s *ReminderScheduler) checkAndSweep(ctx context.Context) {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	s.mu.Lock()
	alreadyRan := s.lastRunDate == currentDate
	s.mu.Unlock()
	if alreadyRan {
		return
	}

	if now.Hour() != s.config.SweepHour || now.Minute() != s.config.SweepMinute {
		return
	}

	s.mu.Lock()
	s.lastRunDate = currentDate
	s.mu.Unlock()

	reminders, err := s.SweepNow(ctx)
	if err != nil {
		s.logger.Error("Reminder sweep failed", zap.Error(err))
		return
	}

	s.logger.Info("Reminder sweep completed", zap.Int("overdue_debts", len(reminders)))
}

// SweepNow finds every unpaid debt past its due date and returns the
// reminder for each. Debts without a due date are never overdue.
func (s *ReminderScheduler) SweepNow(ctx context.Context) ([]Reminder, error) {
	debts, err := s.debtRepo.FindAll(ctx, shared.Filter{
		Filters: map[string]interface{}{"contact_only": false},
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reminders := make([]Reminder, 0)
	for i := range debts {
		d := &debts[i]
		if d.Status == debt.StatusSettled || d.DueDate == nil || !d.DueDate.Before(now) {
			continue
		}

		r := Reminder{
			CustomerName: d.CustomerName,
			Phone:        d.Phone,
			Message:      notification.DebtReminder(d.ItemsDescription, valueobject.NewMoneyRWF(d.OutstandingAmount)),
			DaysOverdue:  int(now.Sub(*d.DueDate).Hours() / 24),
		}
		reminders = append(reminders, r)

		s.logger.Info("Debt overdue",
			zap.String("customer", r.CustomerName),
			zap.String("phone", r.Phone),
			zap.Int("days_overdue", r.DaysOverdue),
			zap.String("message", r.Message),
		)
	}

	return reminders, nil
}
