package persistence

import (
	"errors"
	"os"

	"ytbulkedit/domain/model"
)

// QuotaRepository stores the ledger as {"date": "YYYY-MM-DD", "units": n}.
type QuotaRepository struct {
	path string
}

func NewQuotaRepository(path string) *QuotaRepository {
	return &QuotaRepository{path: path}
}

// Load returns nil when the file does not exist yet.
func (r *QuotaRepository) Load() (*model.QuotaEntry, error) {
	var e model.QuotaEntry
	if err := readJSON(r.path, &e); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *QuotaRepository) Save(entry model.QuotaEntry) error {
	return writeJSONAtomic(r.path, entry, "")
}
