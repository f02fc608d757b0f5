package usecase

import (
	"fmt"
	"sync"
	"time"

	"ytbulkedit/domain/model"
	"ytbulkedit/domain/repository"
	"ytbulkedit/infrastructure/logger"
)

const quotaDateLayout = "2006-01-02"

// QuotaLedger tracks estimated daily unit usage and persists after every change.
// It is read by status surfaces while a batch writes to it, so access is guarded.
type QuotaLedger struct {
	mu        sync.Mutex
	store     repository.IQuotaStore
	costs     map[string]int
	limit     int
	now       func() time.Time
	date      string
	units     int
	exhausted bool
}

// NewQuotaLedger builds a ledger. A nil cost table or non-positive limit falls back to the defaults.
func NewQuotaLedger(store repository.IQuotaStore, costs map[string]int, limit int, now func() time.Time) *QuotaLedger {
	if costs == nil {
		costs = model.DefaultCosts()
	}
	if limit <= 0 {
		limit = model.DefaultDailyQuota
	}
	if now == nil {
		now = time.Now
	}
	return &QuotaLedger{store: store, costs: costs, limit: limit, now: now}
}

// Load reads the persisted entry. An entry dated before today is reset and written back at once.
func (l *QuotaLedger) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	today := l.today()
	l.date, l.units = today, 0
	entry, err := l.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load quota ledger: %w", err)
	}
	if entry == nil {
		return nil
	}
	if entry.Date >= today {
		l.date, l.units = entry.Date, entry.Units
		return nil
	}
	logger.GetLogger().WithFields(map[string]interface{}{"storedDate": entry.Date, "storedUnits": entry.Units}).Info("Quota day rolled over, resetting usage")
	return l.persist()
}

// RecordUsage adds cost*multiplier for method and persists. It returns the units charged.
func (l *QuotaLedger) RecordUsage(method string, multiplier int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollover()
	cost := l.costs[method] * multiplier
	l.units += cost
	if err := l.persist(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to persist quota ledger")
	}
	return cost
}

// Remaining returns the daily limit minus today's usage.
func (l *QuotaLedger) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rollover()
	return l.limit - l.units
}

// Estimate returns the units a batch of n updates would cost.
func (l *QuotaLedger) Estimate(n int, withThumbnail bool) int {
	per := l.costs[model.MethodVideosUpdate]
	if withThumbnail {
		per += l.costs[model.MethodThumbnailsSet]
	}
	return n * per
}

// MarkExhausted flips the status indicator after the platform reported the quota as spent.
func (l *QuotaLedger) MarkExhausted() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.exhausted = true
}

func (l *QuotaLedger) Exhausted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rollover()
	return l.exhausted
}

// Snapshot returns the current state for display.
func (l *QuotaLedger) Snapshot() model.QuotaSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rollover()
	return model.QuotaSnapshot{
		Date:      l.date,
		Used:      l.units,
		Limit:     l.limit,
		Remaining: l.limit - l.units,
		Exhausted: l.exhausted,
	}
}

func (l *QuotaLedger) today() string {
	return l.now().Format(quotaDateLayout)
}

// rollover resets usage when the process outlives the day. Callers hold mu.
func (l *QuotaLedger) rollover() {
	today := l.today()
	if l.date == "" {
		l.date = today
		return
	}
	if l.date < today {
		l.date, l.units, l.exhausted = today, 0, false
		if err := l.persist(); err != nil {
			logger.GetLogger().WithField("error", err).Error("Failed to persist quota ledger")
		}
	}
}

func (l *QuotaLedger) persist() error {
	return l.store.Save(model.QuotaEntry{Date: l.date, Units: l.units})
}
