package filecsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"ytbulkedit/domain/model"
	"ytbulkedit/domain/repository"
	"ytbulkedit/infrastructure/logger"
	"ytbulkedit/infrastructure/persistence"
)

var _ repository.ICSVStore = (*Store)(nil)

// ErrBadHeader is returned when an imported file does not start with the expected columns.
var ErrBadHeader = errors.New("unexpected CSV header")

// Store reads and writes selections as CSV. Tags are joined with commas in one column.
type Store struct{}

func NewStore() *Store { return &Store{} }

func NewFile(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while open file")
		return nil, err
	}

	return file, nil
}

func (s *Store) Export(path string, rows []model.CSVRow) error {
	w, err := persistence.NewAtomicWriter(path)
	if err != nil {
		return err
	}
	if err := writeRows(w, rows); err != nil {
		_ = w.Abort()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return w.Commit()
}

func (s *Store) Import(path string) ([]model.CSVRow, error) {
	f, err := NewFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := readRows(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

func writeRows(w io.Writer, rows []model.CSVRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.CSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{r.ID, r.Title, r.Description, strings.Join(r.Tags, ","), r.Category, r.Privacy}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readRows(r io.Reader) ([]model.CSVRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(model.CSVHeader)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i, col := range model.CSVHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i+1, header[i], col)
		}
	}

	var rows []model.CSVRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, model.CSVRow{
			ID:          rec[0],
			Title:       rec[1],
			Description: rec[2],
			Tags:        splitTags(rec[3]),
			Category:    rec[4],
			Privacy:     rec[5],
		})
	}
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
