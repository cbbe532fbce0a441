package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/medwatch/worktime-analytics/internal/event"
	"github.com/xuri/excelize/v2"
)

// Sheet layout of the export workbook: the raw log plus the two standing
// summary views.
const (
	sheetEvents      = "events"
	sheetByComplaint = "by_complaint"
	sheetBySection   = "by_section"
)

// Assemble builds the multi-sheet export workbook.
func Assemble(events []event.Event) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeEventsSheet(f, events); err != nil {
		return nil, err
	}
	if err := writeByComplaintSheet(f, events); err != nil {
		return nil, err
	}
	if err := writeBySectionSheet(f, events); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEventsSheet(f *excelize.File, events []event.Event) error {
	if err := f.SetSheetName("Sheet1", sheetEvents); err != nil {
		return fmt.Errorf("failed to create events sheet: %w", err)
	}

	header := []any{"ts", "email", "team", "complaint_id", "source", "section", "reason", "active_ms", "idle_ms", "page", "session_id"}
	if err := f.SetSheetRow(sheetEvents, "A1", &header); err != nil {
		return fmt.Errorf("failed to write events header: %w", err)
	}

	for i, e := range events {
		row := []any{
			e.TS.UTC().Format(time.RFC3339),
			e.Email,
			e.Team,
			e.ComplaintID,
			e.Source,
			e.Section,
			e.Reason,
			e.ActiveMS,
			e.IdleMS,
			e.Page,
			e.SessionID,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetEvents, cell, &row); err != nil {
			return fmt.Errorf("failed to write events row: %w", err)
		}
	}
	return nil
}

func writeByComplaintSheet(f *excelize.File, events []event.Event) error {
	if _, err := f.NewSheet(sheetByComplaint); err != nil {
		return fmt.Errorf("failed to create by_complaint sheet: %w", err)
	}

	type key struct {
		email       string
		complaintID string
	}
	type totals struct {
		activeMS int64
		idleMS   int64
	}

	sums := make(map[key]*totals)
	for _, e := range events {
		k := key{email: e.Email, complaintID: e.ComplaintID}
		t, ok := sums[k]
		if !ok {
			t = &totals{}
			sums[k] = t
		}
		t.activeMS += e.ActiveMS
		t.idleMS += e.IdleMS
	}

	keys := make([]key, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].email != keys[j].email {
			return keys[i].email < keys[j].email
		}
		return keys[i].complaintID < keys[j].complaintID
	})

	header := []any{"email", "complaint_id", "active_ms", "idle_ms"}
	if err := f.SetSheetRow(sheetByComplaint, "A1", &header); err != nil {
		return fmt.Errorf("failed to write by_complaint header: %w", err)
	}
	for i, k := range keys {
		row := []any{k.email, k.complaintID, sums[k].activeMS, sums[k].idleMS}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetByComplaint, cell, &row); err != nil {
			return fmt.Errorf("failed to write by_complaint row: %w", err)
		}
	}
	return nil
}

func writeBySectionSheet(f *excelize.File, events []event.Event) error {
	if _, err := f.NewSheet(sheetBySection); err != nil {
		return fmt.Errorf("failed to create by_section sheet: %w", err)
	}

	type key struct {
		complaintID string
		section     string
	}

	sums := make(map[key]int64)
	for _, e := range events {
		if e.Section == "" {
			continue
		}
		sums[key{complaintID: e.ComplaintID, section: e.Section}] += e.ActiveMS
	}

	keys := make([]key, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].complaintID != keys[j].complaintID {
			return keys[i].complaintID < keys[j].complaintID
		}
		return keys[i].section < keys[j].section
	})

	header := []any{"complaint_id", "section", "active_ms"}
	if err := f.SetSheetRow(sheetBySection, "A1", &header); err != nil {
		return fmt.Errorf("failed to write by_section header: %w", err)
	}
	for i, k := range keys {
		row := []any{k.complaintID, k.section, sums[k]}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetBySection, cell, &row); err != nil {
			return fmt.Errorf("failed to write by_section row: %w", err)
		}
	}
	return nil
}
