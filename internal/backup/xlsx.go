package backup

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lazypower/keepsharp/internal/analytics"
	"github.com/lazypower/keepsharp/internal/model"
)

const (
	skillsSheet = "Skills"
	logsSheet   = "Practice Logs"
)

var (
	skillHeader = []interface{}{"ID", "Name", "Category", "Decay Rate", "Target Frequency (days)", "Notes", "Created At", "Archived"}
	logHeader   = []interface{}{"ID", "Skill ID", "Skill", "Practiced At", "Duration (min)", "Quality", "Notes", "Created At"}
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func optInt(p *int) interface{} {
	if p == nil {
		return ""
	}
	return *p
}

func writeXLSX(w io.Writer, b model.Bundle) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", skillsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(logsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	if err := f.SetSheetRow(skillsSheet, "A1", &skillHeader); err != nil {
		return fmt.Errorf("write skills header: %w", err)
	}
	names := make(map[string]string, len(b.Skills))
	for i, s := range b.Skills {
		names[s.ID] = s.Name
		row := []interface{}{s.ID, s.Name, s.Category, s.DecayRate, s.TargetFrequencyDays, s.Notes, formatTime(s.CreatedAt), s.Archived}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(skillsSheet, cell, &row); err != nil {
			return fmt.Errorf("write skill row %d: %w", i+2, err)
		}
	}

	if err := f.SetSheetRow(logsSheet, "A1", &logHeader); err != nil {
		return fmt.Errorf("write logs header: %w", err)
	}
	for i, l := range b.PracticeLogs {
		row := []interface{}{l.ID, l.SkillID, names[l.SkillID], formatTime(l.PracticedAt), optInt(l.DurationMinutes), optInt(l.Quality), l.Notes, formatTime(l.CreatedAt)}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(logsSheet, cell, &row); err != nil {
			return fmt.Errorf("write log row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func readXLSX(data []byte) (*analytics.Decoded, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedImport, err)
	}
	defer f.Close()

	skillRows, err := f.GetRows(skillsSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: missing %q sheet", model.ErrMalformedImport, skillsSheet)
	}
	logRows, err := f.GetRows(logsSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: missing %q sheet", model.ErrMalformedImport, logsSheet)
	}

	d := &analytics.Decoded{}
	d.Bundle.Version = model.BundleVersion
	d.Bundle.Skills = []model.Skill{}
	d.Bundle.PracticeLogs = []model.PracticeLog{}

	for i, row := range skillRows {
		if i == 0 || blank(row) {
			continue
		}
		s, err := parseSkillRow(row)
		if err != nil {
			d.SkillsSkipped++
			continue
		}
		d.Bundle.Skills = append(d.Bundle.Skills, s)
	}
	for i, row := range logRows {
		if i == 0 || blank(row) {
			continue
		}
		l, err := parseLogRow(row)
		if err != nil {
			d.LogsSkipped++
			continue
		}
		d.Bundle.PracticeLogs = append(d.Bundle.PracticeLogs, l)
	}
	return d, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// col returns the trimmed cell at i; GetRows drops trailing empty cells.
func col(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func parseOptInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func parseSkillRow(row []string) (model.Skill, error) {
	s := model.Skill{
		ID:       col(row, 0),
		Name:     col(row, 1),
		Category: col(row, 2),
		Notes:    col(row, 5),
	}
	var err error
	if v := col(row, 3); v != "" {
		if s.DecayRate, err = strconv.ParseFloat(v, 64); err != nil {
			return s, fmt.Errorf("decay rate: %w", err)
		}
	}
	if v := col(row, 4); v != "" {
		if s.TargetFrequencyDays, err = strconv.Atoi(v); err != nil {
			return s, fmt.Errorf("target frequency: %w", err)
		}
	}
	if s.CreatedAt, err = parseTime(col(row, 6)); err != nil {
		return s, fmt.Errorf("created at: %w", err)
	}
	if v := col(row, 7); v != "" {
		if s.Archived, err = strconv.ParseBool(strings.ToLower(v)); err != nil {
			return s, fmt.Errorf("archived: %w", err)
		}
	}
	return s, nil
}

func parseLogRow(row []string) (model.PracticeLog, error) {
	l := model.PracticeLog{
		ID:      col(row, 0),
		SkillID: col(row, 1),
		Notes:   col(row, 6),
	}
	var err error
	if l.PracticedAt, err = parseTime(col(row, 3)); err != nil {
		return l, fmt.Errorf("practiced at: %w", err)
	}
	if l.DurationMinutes, err = parseOptInt(col(row, 4)); err != nil {
		return l, fmt.Errorf("duration: %w", err)
	}
	if l.Quality, err = parseOptInt(col(row, 5)); err != nil {
		return l, fmt.Errorf("quality: %w", err)
	}
	if l.CreatedAt, err = parseTime(col(row, 7)); err != nil {
		return l, fmt.Errorf("created at: %w", err)
	}
	return l, nil
}
