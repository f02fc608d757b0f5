package persistence

import (
	"errors"
	"fmt"
	"os"

	"ytbulkedit/domain/model"
)

// BackupRepository writes snapshot arrays atomically.
type BackupRepository struct{}

func NewBackupRepository() *BackupRepository { return &BackupRepository{} }

func (r *BackupRepository) Write(path string, records []*model.BackupRecord) error {
	if records == nil {
		records = []*model.BackupRecord{}
	}
	return writeJSONAtomic(path, records, "")
}

func (r *BackupRepository) Read(path string) ([]*model.BackupRecord, error) {
	var records []*model.BackupRecord
	if err := readJSON(path, &records); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no backup file found at %s: %w", path, err)
		}
		return nil, err
	}
	return records, nil
}

// PlanRepository writes dry-run plans as indented JSON.
type PlanRepository struct{}

func NewPlanRepository() *PlanRepository { return &PlanRepository{} }

func (r *PlanRepository) Write(path string, plans []*model.ChangePlan) error {
	if plans == nil {
		plans = []*model.ChangePlan{}
	}
	return writeJSONAtomic(path, plans, "  ")
}
