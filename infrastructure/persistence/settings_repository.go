package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"ytbulkedit/domain/model"
)

// SettingsRepository stores rule sets. Files ending in .yaml or .yml use YAML, anything else JSON.
type SettingsRepository struct{}

func NewSettingsRepository() *SettingsRepository { return &SettingsRepository{} }

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func (r *SettingsRepository) Save(path string, rules model.RuleSet) error {
	if !isYAML(path) {
		return writeJSONAtomic(path, rules, "")
	}
	raw, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	w, err := NewAtomicWriter(path)
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Abort()
		return err
	}
	return w.Commit()
}

func (r *SettingsRepository) Load(path string) (model.RuleSet, error) {
	if !isYAML(path) {
		var rules model.RuleSet
		if err := readJSON(path, &rules); err != nil {
			return model.RuleSet{}, err
		}
		return rules, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.RuleSet{}, err
	}
	var rules model.RuleSet
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return model.RuleSet{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, filepath.Base(path), err)
	}
	return rules, nil
}
