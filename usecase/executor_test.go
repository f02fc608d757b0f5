package usecase_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ytbulkedit/domain/model"
	"ytbulkedit/usecase"
)

type mapMirror struct {
	mu    sync.Mutex
	items map[string]*model.Item
}

func (m *mapMirror) Apply(id string, changes model.PlanChanges, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.items[id]; ok {
		it.ApplyChanges(changes, now)
	}
}

type executorFixture struct {
	yt        *MockYouTube
	ledger    *usecase.QuotaLedger
	log       *memoryUpdateLog
	mirror    *mapMirror
	publisher *recordingPublisher
	waits     []time.Duration
	exec      *usecase.Executor
}

func newExecutorFixture(items ...*model.Item) *executorFixture {
	clock := func() time.Time { return time.Date(2024, 5, 2, 12, 0, 0, 0, time.Local) }
	f := &executorFixture{
		yt:        new(MockYouTube),
		ledger:    newTestLedger(clock),
		log:       &memoryUpdateLog{},
		mirror:    &mapMirror{items: map[string]*model.Item{}},
		publisher: &recordingPublisher{},
	}
	for _, it := range items {
		f.mirror.items[it.ID] = it.Clone()
	}
	f.exec = usecase.NewExecutor(f.yt, f.ledger, f.log, f.mirror, f.publisher, usecase.DefaultExecutorConfig(), noSleep(&f.waits), clock)
	return f
}

func titleJobs(ids ...string) ([]*model.Item, []usecase.Job) {
	items := make([]*model.Item, 0, len(ids))
	jobs := make([]usecase.Job, 0, len(ids))
	for _, id := range ids {
		it := &model.Item{ID: id, Title: "Old " + id, CategoryID: "22"}
		items = append(items, it)
		jobs = append(jobs, usecase.Job{
			Base: it.Clone(),
			Plan: &model.ChangePlan{ID: id, Changes: model.PlanChanges{Snippet: &model.SnippetPatch{Title: model.StringPtr("New " + id)}}},
		})
	}
	return items, jobs
}

func byID(id string) interface{} {
	return mock.MatchedBy(func(it *model.Item) bool { return it != nil && it.ID == id })
}

func countPrefix(lines []string, prefix string) int {
	n := 0
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func TestExecutor_TransientErrorRetriedOnce(t *testing.T) {
	items, jobs := titleJobs("vid1", "vid2", "vid3", "vid4", "vid5")
	f := newExecutorFixture(items...)
	transient := &model.APIError{Op: "videos.update", ID: "vid3", Code: 503, Message: "backend error", Kind: model.ErrTransient}
	f.yt.On("UpdateVideo", mock.Anything, byID("vid3"), mock.Anything).Return(transient).Once()
	f.yt.On("UpdateVideo", mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(5)

	res, err := f.exec.Run(context.Background(), f.exec.UpdateOperation(), jobs)

	require.NoError(t, err)
	assert.Equal(t, 5, res.Succeeded)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 1, countPrefix(res.Lines, "Retrying vid3"))
	assert.Equal(t, 0, countPrefix(res.Lines, "Retrying vid1"))
	assert.Equal(t, 5, countPrefix(res.Lines, "Updated "))
	assert.Contains(t, res.Lines, "Updated vid3 successfully")
	// four pacing waits between five items plus one retry wait
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second, 5 * time.Second, 2 * time.Second, 2 * time.Second}, f.waits)
	assert.Equal(t, 10000-250, f.ledger.Remaining())
	assert.Equal(t, res.Lines, f.log.lines)
	assert.Equal(t, "New vid3", f.mirror.items["vid3"].Title)
	require.NotNil(t, f.mirror.items["vid3"].LastUpdated)
	f.yt.AssertExpectations(t)
}

func TestExecutor_FailedItemDoesNotStopBatch(t *testing.T) {
	items, jobs := titleJobs("a", "b", "c")
	f := newExecutorFixture(items...)
	f.yt.On("UpdateVideo", mock.Anything, byID("b"), mock.Anything).
		Return(&model.APIError{Op: "videos.update", Code: 400, Message: "invalid title"}).Once()
	f.yt.On("UpdateVideo", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	res, err := f.exec.Run(context.Background(), f.exec.UpdateOperation(), jobs)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{
		"Updated a successfully",
		"Error updating b: videos.update: HTTP 400: invalid title",
		"Updated c successfully",
	}, res.Lines)
	assert.Equal(t, "Old b", f.mirror.items["b"].Title)
	assert.Nil(t, f.mirror.items["b"].LastUpdated)
	f.yt.AssertExpectations(t)
}

func TestExecutor_AuthErrorAbortsBatch(t *testing.T) {
	items, jobs := titleJobs("a", "b", "c")
	f := newExecutorFixture(items...)
	f.yt.On("UpdateVideo", mock.Anything, byID("a"), mock.Anything).Return(nil).Once()
	f.yt.On("UpdateVideo", mock.Anything, byID("b"), mock.Anything).
		Return(&model.APIError{Op: "videos.update", Code: 401, Message: "token expired", Kind: model.ErrAuth}).Once()

	res, err := f.exec.Run(context.Background(), f.exec.UpdateOperation(), jobs)

	assert.ErrorIs(t, err, model.ErrAuth)
	assert.True(t, res.Aborted)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.NotEmpty(t, f.log.lines)
	f.yt.AssertNotCalled(t, "UpdateVideo", mock.Anything, byID("c"), mock.Anything)
	f.yt.AssertExpectations(t)
	assert.False(t, f.exec.Busy())
}

func TestExecutor_QuotaExceededMarksLedgerAndContinues(t *testing.T) {
	items, jobs := titleJobs("a", "b")
	f := newExecutorFixture(items...)
	f.yt.On("UpdateVideo", mock.Anything, byID("a"), mock.Anything).
		Return(&model.APIError{Op: "videos.update", Code: 403, Message: "quota", Kind: model.ErrQuotaExceeded}).Once()
	f.yt.On("UpdateVideo", mock.Anything, byID("b"), mock.Anything).Return(nil).Once()

	res, err := f.exec.Run(context.Background(), f.exec.UpdateOperation(), jobs)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Succeeded)
	assert.True(t, f.ledger.Exhausted())
	assert.Len(t, f.publisher.ofType(model.EventQuota), 1)
	f.yt.AssertExpectations(t)
}

func TestExecutor_ThumbnailAfterMetadata(t *testing.T) {
	item := &model.Item{ID: "a", Title: "Old"}
	f := newExecutorFixture(item)
	jobs := []usecase.Job{
		{Base: item.Clone(), Plan: &model.ChangePlan{ID: "a", Thumbnail: "/tmp/thumb.png"}},
	}
	f.yt.On("SetThumbnail", mock.Anything, "a", "/tmp/thumb.png").Return(nil).Once()

	res, err := f.exec.Run(context.Background(), f.exec.UpdateOperation(), jobs)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 10000-50, f.ledger.Remaining())
	f.yt.AssertNotCalled(t, "UpdateVideo", mock.Anything, mock.Anything, mock.Anything)
	f.yt.AssertExpectations(t)
}

func TestExecutor_EmptyPlanIsSkipped(t *testing.T) {
	f := newExecutorFixture()
	jobs := []usecase.Job{{Base: &model.Item{ID: "a"}, Plan: &model.ChangePlan{ID: "a"}}}

	res, err := f.exec.Run(context.Background(), f.exec.UpdateOperation(), jobs)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, []string{"Skipped a: nothing to change"}, res.Lines)
	f.yt.AssertExpectations(t)
}

func TestExecutor_RestoreWordingAndPacing(t *testing.T) {
	items, jobs := titleJobs("a", "b")
	f := newExecutorFixture(items...)
	f.yt.On("UpdateVideo", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	res, err := f.exec.Run(context.Background(), f.exec.RestoreOperation(), jobs)

	require.NoError(t, err)
	assert.Equal(t, []string{"Restored a", "Restored b"}, res.Lines)
	assert.Equal(t, []time.Duration{time.Second}, f.waits)
}

func TestExecutor_ProgressAndCompleteEvents(t *testing.T) {
	items, jobs := titleJobs("a", "b")
	f := newExecutorFixture(items...)
	f.yt.On("UpdateVideo", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	res, err := f.exec.Run(context.Background(), f.exec.UpdateOperation(), jobs)
	require.NoError(t, err)

	progress := f.publisher.ofType(model.EventProgress)
	require.Len(t, progress, 2)
	last := progress[1].Payload.(model.ProgressPayload)
	assert.Equal(t, 2, last.Done)
	assert.Equal(t, 2, last.Index)
	assert.Equal(t, 2, last.Total)
	assert.Equal(t, 9900, last.Remaining)
	assert.Equal(t, res.BatchID, last.BatchID)

	complete := f.publisher.ofType(model.EventComplete)
	require.Len(t, complete, 1)
	assert.Equal(t, 2, complete[0].Payload.(model.CompletePayload).Succeeded)
	assert.Len(t, f.publisher.ofType(model.EventLog), 2)
}

func TestExecutor_CancelStopsBetweenItems(t *testing.T) {
	items, jobs := titleJobs("a", "b", "c")
	f := newExecutorFixture(items...)
	ctx, cancel := context.WithCancel(context.Background())
	f.yt.On("UpdateVideo", mock.Anything, byID("a"), mock.Anything).Return(nil).Run(func(mock.Arguments) { cancel() }).Once()

	res, err := f.exec.Run(ctx, f.exec.UpdateOperation(), jobs)

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, res.Aborted)
	assert.Equal(t, 1, res.Succeeded)
	assert.NotEmpty(t, f.log.lines)
	f.yt.AssertExpectations(t)
}

func TestExecutor_RejectsConcurrentBatch(t *testing.T) {
	items, jobs := titleJobs("a")
	f := newExecutorFixture(items...)
	started := make(chan struct{})
	release := make(chan struct{})
	f.yt.On("UpdateVideo", mock.Anything, mock.Anything, mock.Anything).Return(nil).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Once()

	done := make(chan error, 1)
	go func() {
		_, err := f.exec.Run(context.Background(), f.exec.UpdateOperation(), jobs)
		done <- err
	}()
	<-started

	_, err := f.exec.Run(context.Background(), f.exec.UpdateOperation(), jobs)
	assert.ErrorIs(t, err, model.ErrBusy)
	assert.True(t, f.exec.Busy())

	close(release)
	require.NoError(t, <-done)
	assert.False(t, f.exec.Busy())
}
