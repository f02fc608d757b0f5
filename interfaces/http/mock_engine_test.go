package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ytbulkedit/domain/model"
	"ytbulkedit/usecase"
)

type MockEngine struct {
	mock.Mock
}

var _ usecase.IBatchEngine = (*MockEngine)(nil)

func (m *MockEngine) Connect(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockEngine) ListItems(ctx context.Context, forceRefresh bool) ([]*model.Item, error) {
	args := m.Called(ctx, forceRefresh)
	items, _ := args.Get(0).([]*model.Item)
	return items, args.Error(1)
}

func (m *MockEngine) Items() []*model.Item {
	items, _ := m.Called().Get(0).([]*model.Item)
	return items
}

func (m *MockEngine) Search(term string) []*model.Item {
	items, _ := m.Called(term).Get(0).([]*model.Item)
	return items
}

func (m *MockEngine) Select(ids []string) ([]*model.Item, error) {
	args := m.Called(ids)
	items, _ := args.Get(0).([]*model.Item)
	return items, args.Error(1)
}

func (m *MockEngine) Validate(rules model.RuleSet) error {
	return m.Called(rules).Error(0)
}

func (m *MockEngine) Preview(items []*model.Item, rules model.RuleSet) ([]string, error) {
	args := m.Called(items, rules)
	lines, _ := args.Get(0).([]string)
	return lines, args.Error(1)
}

func (m *MockEngine) DryRun(items []*model.Item, rules model.RuleSet) (string, error) {
	args := m.Called(items, rules)
	return args.String(0), args.Error(1)
}

func (m *MockEngine) Execute(ctx context.Context, items []*model.Item, rules model.RuleSet) (*usecase.BatchResult, error) {
	args := m.Called(ctx, items, rules)
	res, _ := args.Get(0).(*usecase.BatchResult)
	return res, args.Error(1)
}

func (m *MockEngine) Backup(ctx context.Context, items []*model.Item) (string, error) {
	args := m.Called(ctx, items)
	return args.String(0), args.Error(1)
}

func (m *MockEngine) Restore(ctx context.Context, path string) (*usecase.BatchResult, error) {
	args := m.Called(ctx, path)
	res, _ := args.Get(0).(*usecase.BatchResult)
	return res, args.Error(1)
}

func (m *MockEngine) ExportCSV(items []*model.Item, path string) error {
	return m.Called(items, path).Error(0)
}

func (m *MockEngine) ImportCSV(ctx context.Context, path string) (int, error) {
	args := m.Called(ctx, path)
	return args.Int(0), args.Error(1)
}

func (m *MockEngine) SaveSettings(rules model.RuleSet, path string) (string, error) {
	args := m.Called(rules, path)
	return args.String(0), args.Error(1)
}

func (m *MockEngine) LoadSettings(path string) (model.RuleSet, error) {
	args := m.Called(path)
	rules, _ := args.Get(0).(model.RuleSet)
	return rules, args.Error(1)
}

func (m *MockEngine) Quota() model.QuotaSnapshot {
	snap, _ := m.Called().Get(0).(model.QuotaSnapshot)
	return snap
}

func (m *MockEngine) Busy() bool {
	return m.Called().Bool(0)
}

func (m *MockEngine) State() usecase.State {
	st, _ := m.Called().Get(0).(usecase.State)
	return st
}
