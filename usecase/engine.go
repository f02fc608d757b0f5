package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"ytbulkedit/domain/model"
	"ytbulkedit/domain/repository"
	"ytbulkedit/infrastructure/logger"
	"ytbulkedit/infrastructure/retry"
)

// State is the engine lifecycle: Idle → Listing → Ready → Executing → Ready.
type State int32

const (
	StateIdle State = iota
	StateListing
	StateReady
	StateExecuting
)

func (s State) String() string {
	switch s {
	case StateListing:
		return "listing"
	case StateReady:
		return "ready"
	case StateExecuting:
		return "executing"
	}
	return "idle"
}

// Stores groups the file-backed collaborators the engine writes through.
type Stores struct {
	Backups   repository.IBackupStore
	Plans     repository.IPlanStore
	Settings  repository.ISettingsStore
	CSV       repository.ICSVStore
	UpdateLog repository.IUpdateLog
}

// IBatchEngine is what the CLI and the HTTP API call.
type IBatchEngine interface {
	Connect(ctx context.Context) (string, error)
	ListItems(ctx context.Context, forceRefresh bool) ([]*model.Item, error)
	Items() []*model.Item
	Search(term string) []*model.Item
	Select(ids []string) ([]*model.Item, error)
	Validate(rules model.RuleSet) error
	Preview(items []*model.Item, rules model.RuleSet) ([]string, error)
	DryRun(items []*model.Item, rules model.RuleSet) (string, error)
	Execute(ctx context.Context, items []*model.Item, rules model.RuleSet) (*BatchResult, error)
	Backup(ctx context.Context, items []*model.Item) (string, error)
	Restore(ctx context.Context, path string) (*BatchResult, error)
	ExportCSV(items []*model.Item, path string) error
	ImportCSV(ctx context.Context, path string) (int, error)
	SaveSettings(rules model.RuleSet, path string) (string, error)
	LoadSettings(path string) (model.RuleSet, error)
	Quota() model.QuotaSnapshot
	Busy() bool
	State() State
}

// BatchEngine owns the ledger, the cache and the item mirror for one process.
type BatchEngine struct {
	youtube   repository.IYouTube
	ledger    *QuotaLedger
	cache     *ItemCache
	executor  *Executor
	stores    Stores
	publisher Publisher
	paths     model.Paths
	retryCfg  retry.Config

	mu      sync.RWMutex
	items   []*model.Item
	byID    map[string]*model.Item
	channel string
	state   atomic.Int32
}

// NewBatchEngine wires the engine. yt may be nil until the account is connected.
func NewBatchEngine(yt repository.IYouTube, ledger *QuotaLedger, cache *ItemCache, stores Stores,
	publisher Publisher, paths model.Paths, cfg ExecutorConfig, sleep func(context.Context, time.Duration) error) *BatchEngine {
	if publisher == nil {
		publisher = discardPublisher{}
	}
	e := &BatchEngine{
		youtube:   yt,
		ledger:    ledger,
		cache:     cache,
		stores:    stores,
		publisher: publisher,
		paths:     paths,
		retryCfg:  cfg.Retry,
		byID:      map[string]*model.Item{},
	}
	if sleep != nil {
		e.retryCfg.Sleep = sleep
	}
	e.executor = NewExecutor(yt, ledger, stores.UpdateLog, e, publisher, cfg, sleep, nil)
	return e
}

func (e *BatchEngine) State() State { return State(e.state.Load()) }

func (e *BatchEngine) Busy() bool { return e.executor.Busy() }

// Connect reads the authenticated channel and loads the item listing.
func (e *BatchEngine) Connect(ctx context.Context) (string, error) {
	if e.youtube == nil {
		return "", model.ErrNotConnected
	}
	var channel *model.YouTubeChannel
	err := chargedCall(ctx, e.ledger, e.retryCfg, model.MethodChannelsList, func(ctx context.Context) error {
		var callErr error
		channel, callErr = e.youtube.GetMyChannel(ctx)
		return callErr
	})
	if err != nil {
		return "", fmt.Errorf("failed to read channel: %w", err)
	}
	e.mu.Lock()
	e.channel = channel.Title
	e.mu.Unlock()

	if _, err := e.ListItems(ctx, false); err != nil {
		return channel.Title, err
	}
	logger.GetLogger().WithFields(map[string]interface{}{"channel": channel.Title, "items": len(e.Items())}).Info("Account connected")
	return channel.Title, nil
}

// ListItems loads the listing through the cache and replaces the mirror.
func (e *BatchEngine) ListItems(ctx context.Context, forceRefresh bool) ([]*model.Item, error) {
	if e.Busy() {
		return nil, model.ErrBusy
	}
	prev := State(e.state.Swap(int32(StateListing)))
	items, err := e.cache.Load(ctx, forceRefresh)
	if err != nil {
		e.state.Store(int32(prev))
		return nil, err
	}
	e.replace(items)
	e.state.Store(int32(StateReady))
	return e.Items(), nil
}

// Items returns deep copies so readers never observe a batch mid-write.
func (e *BatchEngine) Items() []*model.Item {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*model.Item, len(e.items))
	for i, it := range e.items {
		out[i] = it.Clone()
	}
	return out
}

func (e *BatchEngine) Search(term string) []*model.Item {
	return Search(e.Items(), term)
}

// Select resolves ids in the given order.
func (e *BatchEngine) Select(ids []string) ([]*model.Item, error) {
	if len(ids) == 0 {
		return nil, model.ErrNoSelection
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*model.Item, 0, len(ids))
	for _, id := range ids {
		it, ok := e.byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: item %s", model.ErrNotFound, id)
		}
		out = append(out, it.Clone())
	}
	return out, nil
}

func (e *BatchEngine) Validate(rules model.RuleSet) error {
	return ValidateRules(rules)
}

func (e *BatchEngine) Preview(items []*model.Item, rules model.RuleSet) ([]string, error) {
	return Preview(items, rules, e.ledger)
}

// DryRun builds the plans execute would send and writes them as JSON.
func (e *BatchEngine) DryRun(items []*model.Item, rules model.RuleSet) (string, error) {
	if len(items) == 0 {
		return "", model.ErrNoSelection
	}
	plans, err := BuildPlans(items, rules)
	if err != nil {
		return "", err
	}
	if err := e.stores.Plans.Write(e.paths.DryRun, plans); err != nil {
		return "", fmt.Errorf("failed to write dry run: %w", err)
	}
	logger.GetLogger().WithFields(map[string]interface{}{"items": len(plans), "path": e.paths.DryRun}).Info("Dry run saved")
	return e.paths.DryRun, nil
}

// Execute validates the rules, then applies one plan per item in selection order.
func (e *BatchEngine) Execute(ctx context.Context, items []*model.Item, rules model.RuleSet) (*BatchResult, error) {
	if e.youtube == nil {
		return nil, model.ErrNotConnected
	}
	if len(items) == 0 {
		return nil, model.ErrNoSelection
	}
	plans, err := BuildPlans(items, rules)
	if err != nil {
		e.publishError("", err)
		return nil, err
	}
	jobs := make([]Job, 0, len(plans))
	for i, plan := range plans {
		jobs = append(jobs, Job{Plan: plan, Base: e.base(plan.ID, items[i])})
	}
	return e.run(ctx, e.executor.UpdateOperation(), jobs)
}

// Backup snapshots the items' snippet, status and recording details into the backup file.
func (e *BatchEngine) Backup(ctx context.Context, items []*model.Item) (string, error) {
	if e.youtube == nil {
		return "", model.ErrNotConnected
	}
	if len(items) == 0 {
		return "", model.ErrNoSelection
	}
	records := make([]*model.BackupRecord, 0, len(items))
	for start := 0; start < len(items); start += PageSize {
		end := start + PageSize
		if end > len(items) {
			end = len(items)
		}
		ids := make([]string, 0, end-start)
		for _, it := range items[start:end] {
			ids = append(ids, it.ID)
		}
		var batch []*model.BackupRecord
		err := chargedCall(ctx, e.ledger, e.retryCfg, model.MethodVideosList, func(ctx context.Context) error {
			var callErr error
			batch, callErr = e.youtube.GetSnapshots(ctx, ids)
			return callErr
		})
		if err != nil {
			return "", fmt.Errorf("failed to read backup snapshot: %w", err)
		}
		records = append(records, batch...)
	}
	if err := e.stores.Backups.Write(e.paths.Backup, records); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	logger.GetLogger().WithFields(map[string]interface{}{"records": len(records), "path": e.paths.Backup}).Info("Backup saved")
	return e.paths.Backup, nil
}

// Restore replays a backup file through the executor. An empty path uses the default backup file.
func (e *BatchEngine) Restore(ctx context.Context, path string) (*BatchResult, error) {
	if e.youtube == nil {
		return nil, model.ErrNotConnected
	}
	if path == "" {
		path = e.paths.Backup
	}
	records, err := e.stores.Backups.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	jobs := make([]Job, 0, len(records))
	for _, rec := range records {
		jobs = append(jobs, Job{Plan: rec.RestorePlan(), Base: e.base(rec.ID, rec.Item())})
	}
	return e.run(ctx, e.executor.RestoreOperation(), jobs)
}

func (e *BatchEngine) ExportCSV(items []*model.Item, path string) error {
	if len(items) == 0 {
		return model.ErrNoSelection
	}
	rows := make([]model.CSVRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, model.CSVRowFromItem(it))
	}
	if err := e.stores.CSV.Export(path, rows); err != nil {
		return fmt.Errorf("failed to export csv: %w", err)
	}
	return nil
}

// ImportCSV edits the local mirror from a CSV file and persists it. Nothing is sent to the platform.
// Rows for unknown ids are ignored. It returns the number of items changed.
func (e *BatchEngine) ImportCSV(ctx context.Context, path string) (int, error) {
	if e.Busy() {
		return 0, model.ErrBusy
	}
	rows, err := e.stores.CSV.Import(path)
	if err != nil {
		return 0, fmt.Errorf("failed to import csv: %w", err)
	}
	n := 0
	e.mu.Lock()
	for _, row := range rows {
		if it, ok := e.byID[row.ID]; ok {
			it.ApplyCSVRow(row)
			n++
		}
	}
	e.mu.Unlock()

	if err := e.cache.Save(ctx, e.Items()); err != nil {
		return n, fmt.Errorf("failed to save item cache: %w", err)
	}
	return n, nil
}

// SaveSettings writes the rule set. An empty path uses the default settings file.
func (e *BatchEngine) SaveSettings(rules model.RuleSet, path string) (string, error) {
	if path == "" {
		path = e.paths.Settings
	}
	if err := e.stores.Settings.Save(path, rules); err != nil {
		return "", fmt.Errorf("failed to save settings: %w", err)
	}
	return path, nil
}

func (e *BatchEngine) LoadSettings(path string) (model.RuleSet, error) {
	if path == "" {
		path = e.paths.Settings
	}
	rules, err := e.stores.Settings.Load(path)
	if err != nil {
		return model.RuleSet{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return rules, nil
}

func (e *BatchEngine) Quota() model.QuotaSnapshot { return e.ledger.Snapshot() }

// Apply updates the mirror from a write that landed.
func (e *BatchEngine) Apply(id string, changes model.PlanChanges, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if it, ok := e.byID[id]; ok {
		it.ApplyChanges(changes, now)
	}
}

func (e *BatchEngine) run(ctx context.Context, op Operation, jobs []Job) (*BatchResult, error) {
	prev := State(e.state.Swap(int32(StateExecuting)))
	res, err := e.executor.Run(ctx, op, jobs)
	if res == nil {
		e.state.Store(int32(prev))
		return nil, err
	}
	e.state.Store(int32(StateReady))

	if saveErr := e.cache.Save(context.WithoutCancel(ctx), e.Items()); saveErr != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"batchId": res.BatchID, "error": saveErr}).Error("Failed to save item cache after batch")
	}
	if err != nil {
		e.publishError(res.BatchID, err)
	}
	return res, err
}

// base returns the mirror's copy of the item, or fallback when the item is not cached.
func (e *BatchEngine) base(id string, fallback *model.Item) *model.Item {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if it, ok := e.byID[id]; ok {
		return it.Clone()
	}
	return fallback.Clone()
}

func (e *BatchEngine) replace(items []*model.Item) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = make([]*model.Item, len(items))
	e.byID = make(map[string]*model.Item, len(items))
	for i, it := range items {
		c := it.Clone()
		e.items[i] = c
		e.byID[c.ID] = c
	}
}

func (e *BatchEngine) publishError(batchID string, err error) {
	e.publisher.Publish(model.Event{Type: model.EventError, Payload: model.ErrorPayload{BatchID: batchID, Message: err.Error()}})
}
