package model

import "time"

// BundleVersion is written into every export.
const BundleVersion = 1

// Bundle is the backup format. Field names are a stable wire contract.
type Bundle struct {
	Version      int           `json:"version"`
	ExportedAt   time.Time     `json:"exported_at"`
	Skills       []Skill       `json:"skills"`
	PracticeLogs []PracticeLog `json:"practice_logs"`
	Categories   []Category    `json:"categories,omitempty"`
	Settings     *Settings     `json:"settings,omitempty"`
}

// ImportMode selects how a bundle is reconciled with live data.
type ImportMode string

const (
	ImportMerge   ImportMode = "merge"
	ImportReplace ImportMode = "replace"
)

// ParseImportMode accepts "merge" (the default when empty) or "replace".
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(s) {
	case "", ImportMerge:
		return ImportMerge, nil
	case ImportReplace:
		return ImportReplace, nil
	default:
		return "", invalid("mode", "must be merge or replace")
	}
}

// ImportResult reports what an import actually wrote.
type ImportResult struct {
	SkillsImported int `json:"skills_imported"`
	LogsImported   int `json:"logs_imported"`
	SkillsSkipped  int `json:"skills_skipped"`
	LogsSkipped    int `json:"logs_skipped"`
}
