package teamexport

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/Abraxas-365/recruitdesk/pkg/team"
	"github.com/Abraxas-365/recruitdesk/pkg/team/orgtree"
	"github.com/xuri/excelize/v2"
)

const (
	HierarchySheet = "Hierarchy"
	SummarySheet   = "Summary"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var hierarchyHeaders = []string{"Name", "Role", "Email", "Mobile", "Reports To", "Direct Reports", "Level", "Status"}

// WriteHierarchy escribe el organigrama en XLSX: una fila por entrada del recorrido,
// con el nombre sangrado según la profundidad, y una hoja de resumen por rol.
func WriteHierarchy(w io.Writer, members []*team.Member, entries []orgtree.Entry, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", HierarchySheet)
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	byID := make(map[string]*team.Member, len(members))
	for _, m := range members {
		byID[m.ID.String()] = m
	}

	if err := createHierarchySheet(f, entries, byID); err != nil {
		return fmt.Errorf("failed to create hierarchy sheet: %w", err)
	}
	if err := createSummarySheet(f, entries, generatedAt); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
}

func createHierarchySheet(f *excelize.File, entries []orgtree.Entry, byID map[string]*team.Member) error {
	sheet := HierarchySheet

	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	for i, h := range hierarchyHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(hierarchyHeaders), 1)
	f.SetCellStyle(sheet, "A1", lastHeader, style)

	f.SetColWidth(sheet, "A", "A", 36)
	f.SetColWidth(sheet, "B", "B", 12)
	f.SetColWidth(sheet, "C", "C", 30)
	f.SetColWidth(sheet, "D", "E", 18)
	f.SetColWidth(sheet, "F", "H", 14)

	for i, entry := range entries {
		row := i + 2
		values := []any{
			strings.Repeat("    ", entry.Depth) + entry.Node.Name,
			entry.Node.Role,
			"",
			"",
			"",
			entry.DirectReports,
			entry.Depth + 1,
			"",
		}

		if m, ok := byID[entry.Node.ID]; ok {
			values[2] = m.Email
			if m.Mobile != nil {
				values[3] = *m.Mobile
			}
			values[7] = string(m.Status)
		}
		if parent, ok := byID[entry.Node.ParentID]; ok {
			values[4] = parent.Name
		}

		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func createSummarySheet(f *excelize.File, entries []orgtree.Entry, generatedAt time.Time) error {
	sheet := SummarySheet

	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "B", 24)

	byRole := make(map[string]int)
	roots := 0
	maxDepth := 0
	for _, e := range entries {
		byRole[e.Node.Role]++
		if e.Depth == 0 {
			roots++
		}
		maxDepth = max(maxDepth, e.Depth+1)
	}

	f.SetCellValue(sheet, "A1", "Team Hierarchy")
	f.MergeCell(sheet, "A1", "B1")
	f.SetCellStyle(sheet, "A1", "B1", style)

	rows := [][]any{
		{"Generated", generatedAt.Format("2006-01-02 15:04:05")},
		{"Total Members", len(entries)},
		{"Top-level Members", roots},
		{"Levels", maxDepth},
	}
	for _, r := range access.Roles() {
		rows = append(rows, []any{"Role: " + r.String(), byRole[r.String()]})
	}

	for i, values := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
