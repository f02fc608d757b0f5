package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ytbulkedit/domain/model"
	"ytbulkedit/domain/repository"
	"ytbulkedit/infrastructure/logger"
	"ytbulkedit/infrastructure/retry"
)

// Publisher receives batch events. Implementations must not block the worker.
type Publisher interface {
	Publish(evt model.Event)
}

// Mirror receives the fields that were actually written for an item.
type Mirror interface {
	Apply(id string, changes model.PlanChanges, now time.Time)
}

// Operation names a kind of batch and the result-log wording that goes with it.
type Operation struct {
	Name    string
	Success string
	Failure string
	Pacing  time.Duration
}

// Job is one plan plus the pre-batch state of the item it targets.
type Job struct {
	Plan *model.ChangePlan
	Base *model.Item
}

// BatchResult is the outcome of one executor run.
type BatchResult struct {
	BatchID   string   `json:"batchId"`
	Operation string   `json:"operation"`
	Lines     []string `json:"lines"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Skipped   int      `json:"skipped"`
	Aborted   bool     `json:"aborted"`
}

// ExecutorConfig holds pacing and retry settings.
type ExecutorConfig struct {
	UpdatePacing  time.Duration
	RestorePacing time.Duration
	Retry         retry.Config
}

// DefaultExecutorConfig paces updates at 2s, restores at 1s, and retries a transient failure once after 5s.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		UpdatePacing:  2 * time.Second,
		RestorePacing: time.Second,
		Retry:         retry.DefaultConfig(),
	}
}

// Executor submits change plans serially. Only one batch runs at a time.
type Executor struct {
	youtube   repository.IYouTube
	ledger    *QuotaLedger
	updateLog repository.IUpdateLog
	mirror    Mirror
	publisher Publisher
	cfg       ExecutorConfig
	sleep     func(ctx context.Context, d time.Duration) error
	now       func() time.Time
	busy      atomic.Bool
}

// NewExecutor wires an executor. sleep and now may be nil.
func NewExecutor(yt repository.IYouTube, ledger *QuotaLedger, updateLog repository.IUpdateLog, mirror Mirror,
	publisher Publisher, cfg ExecutorConfig, sleep func(ctx context.Context, d time.Duration) error, now func() time.Time) *Executor {
	if sleep == nil {
		sleep = retry.Sleep
	}
	if now == nil {
		now = time.Now
	}
	if publisher == nil {
		publisher = discardPublisher{}
	}
	cfg.Retry.Sleep = sleep
	return &Executor{
		youtube:   yt,
		ledger:    ledger,
		updateLog: updateLog,
		mirror:    mirror,
		publisher: publisher,
		cfg:       cfg,
		sleep:     sleep,
		now:       now,
	}
}

// UpdateOperation is the wording and pacing for metadata edits.
func (e *Executor) UpdateOperation() Operation {
	return Operation{Name: "update", Success: "Updated %s successfully", Failure: "Error updating %s: %s", Pacing: e.cfg.UpdatePacing}
}

// RestoreOperation is the wording and pacing for backup restores.
func (e *Executor) RestoreOperation() Operation {
	return Operation{Name: "restore", Success: "Restored %s", Failure: "Error restoring %s: %s", Pacing: e.cfg.RestorePacing}
}

// Busy reports whether a batch is in flight.
func (e *Executor) Busy() bool { return e.busy.Load() }

// Run submits every job in order. An item failure is logged and the batch continues.
// An auth failure or cancellation stops the batch; the log is still written.
func (e *Executor) Run(ctx context.Context, op Operation, jobs []Job) (*BatchResult, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, model.ErrBusy
	}
	defer e.busy.Store(false)

	res := &BatchResult{BatchID: uuid.NewString(), Operation: op.Name}
	log := logger.GetLogger().WithFields(logrus.Fields{"batchId": res.BatchID, "operation": op.Name, "total": len(jobs)})
	log.Info("Batch started")

	var runErr error
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		id := job.Plan.ID
		if !job.Plan.HasWork() {
			res.Skipped++
			e.line(res, fmt.Sprintf("Skipped %s: nothing to change", id))
			e.progress(res, op, id, i, len(jobs), true)
			continue
		}

		err := e.submit(ctx, res, job)
		switch {
		case err == nil:
			res.Succeeded++
			e.line(res, fmt.Sprintf(op.Success, id))
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			runErr = err
		default:
			res.Failed++
			e.line(res, fmt.Sprintf(op.Failure, id, err.Error()))
			log.WithFields(logrus.Fields{"itemId": id, "error": err}).Warn("Item failed")
			if errors.Is(err, model.ErrQuotaExceeded) {
				e.ledger.MarkExhausted()
				e.publisher.Publish(model.Event{Type: model.EventQuota, Payload: e.ledger.Snapshot()})
			}
			if errors.Is(err, model.ErrAuth) {
				runErr = fmt.Errorf("batch aborted: %w", err)
			}
		}
		if runErr != nil {
			break
		}
		e.progress(res, op, id, i, len(jobs), err == nil)

		if i < len(jobs)-1 && op.Pacing > 0 {
			if err := e.sleep(ctx, op.Pacing); err != nil {
				runErr = err
				break
			}
		}
	}

	if runErr != nil {
		res.Aborted = true
		e.line(res, fmt.Sprintf("Batch stopped after %d of %d items: %v", res.Succeeded+res.Failed+res.Skipped, len(jobs), runErr))
	}
	if e.updateLog != nil {
		if err := e.updateLog.Append(res.Lines); err != nil {
			log.WithField("error", err).Error("Failed to append update log")
		}
	}
	e.publisher.Publish(model.Event{Type: model.EventComplete, Payload: model.CompletePayload{
		BatchID:   res.BatchID,
		Operation: op.Name,
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		Aborted:   res.Aborted,
		Lines:     append([]string(nil), res.Lines...),
	}})
	log.WithFields(logrus.Fields{"succeeded": res.Succeeded, "failed": res.Failed, "skipped": res.Skipped, "aborted": res.Aborted}).Info("Batch finished")
	return res, runErr
}

// submit writes metadata first, then the thumbnail. The mirror is updated as soon as metadata lands.
func (e *Executor) submit(ctx context.Context, res *BatchResult, job Job) error {
	id := job.Plan.ID
	cfg := e.cfg.Retry
	cfg.OnRetry = func(attempt int, err error, wait time.Duration) {
		e.line(res, fmt.Sprintf("Retrying %s after transient error: %v", id, err))
	}

	if !job.Plan.Changes.IsEmpty() {
		err := retry.Do(ctx, cfg, model.IsTransient, func(ctx context.Context) error {
			if err := e.youtube.UpdateVideo(ctx, job.Base, job.Plan.Changes); err != nil {
				return err
			}
			e.ledger.RecordUsage(model.MethodVideosUpdate, 1)
			return nil
		})
		if err != nil {
			return err
		}
		if e.mirror != nil {
			e.mirror.Apply(id, job.Plan.Changes, e.now())
		}
	}

	if job.Plan.Thumbnail != "" {
		err := retry.Do(ctx, cfg, model.IsTransient, func(ctx context.Context) error {
			if err := e.youtube.SetThumbnail(ctx, id, job.Plan.Thumbnail); err != nil {
				return err
			}
			e.ledger.RecordUsage(model.MethodThumbnailsSet, 1)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) line(res *BatchResult, line string) {
	res.Lines = append(res.Lines, line)
	e.publisher.Publish(model.Event{Type: model.EventLog, Payload: model.LogPayload{BatchID: res.BatchID, Line: line}})
}

func (e *Executor) progress(res *BatchResult, op Operation, id string, i, total int, ok bool) {
	e.publisher.Publish(model.Event{Type: model.EventProgress, Payload: model.ProgressPayload{
		BatchID:   res.BatchID,
		Operation: op.Name,
		ItemID:    id,
		Done:      res.Succeeded,
		Index:     i + 1,
		Total:     total,
		Remaining: e.ledger.Remaining(),
		OK:        ok,
	}})
}

type discardPublisher struct{}

func (discardPublisher) Publish(model.Event) {}
