package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytbulkedit/domain/model"
	"ytbulkedit/usecase"
)

type memoryQuotaStore struct {
	entry *model.QuotaEntry
	saves []model.QuotaEntry
}

func (s *memoryQuotaStore) Load() (*model.QuotaEntry, error) { return s.entry, nil }

func (s *memoryQuotaStore) Save(e model.QuotaEntry) error {
	s.entry = &e
	s.saves = append(s.saves, e)
	return nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestQuotaLedger_YesterdayResetsOnLoad(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 2, 9, 0, 0, 0, time.Local)}
	store := &memoryQuotaStore{entry: &model.QuotaEntry{Date: "2024-05-01", Units: 9000}}
	ledger := usecase.NewQuotaLedger(store, nil, 0, clock.Now)

	require.NoError(t, ledger.Load())

	assert.Equal(t, 10000, ledger.Remaining())
	require.Len(t, store.saves, 1)
	assert.Equal(t, model.QuotaEntry{Date: "2024-05-02", Units: 0}, store.saves[0])
}

func TestQuotaLedger_TodayIsKept(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 2, 9, 0, 0, 0, time.Local)}
	store := &memoryQuotaStore{entry: &model.QuotaEntry{Date: "2024-05-02", Units: 120}}
	ledger := usecase.NewQuotaLedger(store, nil, 0, clock.Now)

	require.NoError(t, ledger.Load())

	assert.Equal(t, 9880, ledger.Remaining())
	assert.Empty(t, store.saves)
}

func TestQuotaLedger_RecordUsagePersistsEveryTime(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 2, 9, 0, 0, 0, time.Local)}
	store := &memoryQuotaStore{}
	ledger := usecase.NewQuotaLedger(store, nil, 0, clock.Now)
	require.NoError(t, ledger.Load())

	assert.Equal(t, 50, ledger.RecordUsage(model.MethodVideosUpdate, 1))
	assert.Equal(t, 2, ledger.RecordUsage(model.MethodVideosList, 2))
	assert.Equal(t, 0, ledger.RecordUsage("unknown.method", 1))

	assert.Equal(t, 10000-52, ledger.Remaining())
	require.Len(t, store.saves, 3)
	assert.Equal(t, 52, store.saves[2].Units)
}

func TestQuotaLedger_RollsOverWhileRunning(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 2, 23, 59, 0, 0, time.Local)}
	store := &memoryQuotaStore{}
	ledger := usecase.NewQuotaLedger(store, nil, 100, clock.Now)
	require.NoError(t, ledger.Load())
	ledger.RecordUsage(model.MethodVideosUpdate, 1)
	ledger.MarkExhausted()
	assert.True(t, ledger.Exhausted())

	clock.t = clock.t.Add(2 * time.Minute)

	snap := ledger.Snapshot()
	assert.Equal(t, "2024-05-03", snap.Date)
	assert.Equal(t, 0, snap.Used)
	assert.Equal(t, 100, snap.Remaining)
	assert.False(t, snap.Exhausted)
}

func TestQuotaLedger_Estimate(t *testing.T) {
	ledger := usecase.NewQuotaLedger(&memoryQuotaStore{}, nil, 0, nil)
	assert.Equal(t, 150, ledger.Estimate(3, false))
	assert.Equal(t, 300, ledger.Estimate(3, true))
}
