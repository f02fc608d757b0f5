package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"ytbulkedit/domain/model"
	"ytbulkedit/domain/repository"
)

// Mock implementations
type MockYouTube struct {
	mock.Mock
}

func (m *MockYouTube) GetMyChannel(ctx context.Context) (*model.YouTubeChannel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.YouTubeChannel), args.Error(1)
}

func (m *MockYouTube) ListPlaylistItems(ctx context.Context, playlistID, pageToken string, pageSize int64) (*model.PlaylistPage, error) {
	args := m.Called(ctx, playlistID, pageToken, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PlaylistPage), args.Error(1)
}

func (m *MockYouTube) GetVideos(ctx context.Context, ids []string) ([]*model.Item, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Item), args.Error(1)
}

func (m *MockYouTube) GetSnapshots(ctx context.Context, ids []string) ([]*model.BackupRecord, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.BackupRecord), args.Error(1)
}

func (m *MockYouTube) UpdateVideo(ctx context.Context, base *model.Item, changes model.PlanChanges) error {
	args := m.Called(ctx, base, changes)
	return args.Error(0)
}

func (m *MockYouTube) SetThumbnail(ctx context.Context, videoID, path string) error {
	args := m.Called(ctx, videoID, path)
	return args.Error(0)
}

type memoryItemStore struct {
	mu      sync.Mutex
	items   []*model.Item
	savedAt time.Time
	saves   int
	now     func() time.Time
}

func (s *memoryItemStore) Load(ctx context.Context) ([]*model.Item, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		return nil, time.Time{}, repository.ErrCacheMiss
	}
	return cloneItems(s.items), s.savedAt, nil
}

func (s *memoryItemStore) Save(ctx context.Context, items []*model.Item, listedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = cloneItems(items)
	s.saves++
	switch {
	case !listedAt.IsZero():
		s.savedAt = listedAt
	case s.now != nil:
		s.savedAt = s.now()
	default:
		s.savedAt = time.Now()
	}
	return nil
}

func (s *memoryItemStore) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}

type memoryPlaylistIDStore struct {
	id string
}

func (s *memoryPlaylistIDStore) Get(ctx context.Context) (string, error) {
	if s.id == "" {
		return "", repository.ErrCacheMiss
	}
	return s.id, nil
}

func (s *memoryPlaylistIDStore) Put(ctx context.Context, id string) error {
	s.id = id
	return nil
}

type memoryUpdateLog struct {
	lines []string
}

func (l *memoryUpdateLog) Append(lines []string) error {
	l.lines = append(l.lines, lines...)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

func (p *recordingPublisher) Publish(evt model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) ofType(t model.EventType) []model.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []model.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func cloneItems(items []*model.Item) []*model.Item {
	out := make([]*model.Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// noSleep records requested waits without blocking.
func noSleep(waits *[]time.Duration) func(context.Context, time.Duration) error {
	var mu sync.Mutex
	return func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		*waits = append(*waits, d)
		mu.Unlock()
		return ctx.Err()
	}
}
