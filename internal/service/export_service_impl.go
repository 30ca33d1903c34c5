package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alexanderramin/shiftbook/internal/calendar"
	"github.com/alexanderramin/shiftbook/internal/payroll"
)

const (
	shiftsSheet  = "Shifts"
	summarySheet = "Summary"
)

type exportService struct {
	reports  ReportService
	observer UseCaseObserver
}

func NewExportService(reports ReportService, observers ...UseCaseObserver) ExportService {
	return &exportService{reports: reports, observer: useCaseObserverOrNoop(observers)}
}

// ExportMonth writes two sheets: one row per shift in date order, and the
// per-company summary with the monthly totals underneath.
func (s *exportService) ExportMonth(ctx context.Context, ref time.Time, w io.Writer) (err error) {
	defer observe(ctx, s.observer, "export.month", time.Now(), &err,
		map[string]any{"month": ref.Format("2006-01")})

	report, err := s.reports.Month(ctx, ref)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", shiftsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("adding summary sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	if err := writeShiftRows(f, report, bold); err != nil {
		return err
	}
	if err := writeSummaryRows(f, report, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeShiftRows(f *excelize.File, report *MonthReport, headerStyle int) error {
	header := []any{"Date", "Company", "Start", "End", "Hours", "Pay", "Memo"}
	if err := f.SetSheetRow(shiftsSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := f.SetCellStyle(shiftsSheet, "A1", "G1", headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	shifts := append(report.Shifts[:0:0], report.Shifts...)
	sort.SliceStable(shifts, func(i, j int) bool {
		if !shifts[i].Date.Equal(shifts[j].Date) {
			return shifts[i].Date.Before(shifts[j].Date)
		}
		return shifts[i].Start < shifts[j].Start
	})

	companies := report.CompanyByID()
	for i, sh := range shifts {
		name := calendar.UnknownCompany
		c := companies[sh.CompanyID]
		if c != nil {
			name = c.Name
		}
		row := []any{
			sh.DateKey(),
			name,
			sh.Start.String(),
			sh.End.String(),
			payroll.DurationHours(sh.Start, sh.End),
			payroll.ShiftPay(sh, c),
			sh.Memo,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(shiftsSheet, cell, &row); err != nil {
			return fmt.Errorf("writing shift row: %w", err)
		}
	}
	return f.SetColWidth(shiftsSheet, "A", "B", 16)
}

func writeSummaryRows(f *excelize.File, report *MonthReport, headerStyle int) error {
	header := []any{"Company", "Working days", "Working hours"}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, "A1", "C1", headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	row := 2
	for _, cs := range report.Stats.Companies {
		values := []any{cs.Name, cs.WorkingDays, cs.WorkingHours}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("writing summary row: %w", err)
		}
		row++
	}

	row++
	totals := [][]any{
		{"Month", report.Ref.Format("2006-01")},
		{"Total hours", report.Stats.Monthly.TotalHours},
		{"Total salary", report.Stats.Monthly.TotalSalary},
	}
	for _, values := range totals {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("writing totals: %w", err)
		}
		if err := f.SetCellStyle(summarySheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("styling totals: %w", err)
		}
		row++
	}
	return f.SetColWidth(summarySheet, "A", "A", 20)
}
