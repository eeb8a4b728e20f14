package reports

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// BuildCORWorkbook renders a COR readiness report as an .xlsx workbook for
// auditors who want the numbers outside the API.
func BuildCORWorkbook(summary *InspectionSummary, score *CORScore, generatedAt time.Time) (*excelize.File, error) {

	f := excelize.NewFile()
	sheetName := "COR Report"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	f.SetCellValue(sheetName, "A1", "COR Readiness Report")
	f.SetCellValue(sheetName, "B1", generatedAt.UTC().Format(time.RFC3339))

	// Score block
	f.SetCellValue(sheetName, "A3", "Score")
	f.SetCellValue(sheetName, "B3", score.Score.InexactFloat64())
	f.SetCellValue(sheetName, "A4", "OnTimeCompletionRate")
	f.SetCellValue(sheetName, "B4", score.OnTimeCompletionRate.InexactFloat64())
	f.SetCellValue(sheetName, "A5", "PassRate")
	f.SetCellValue(sheetName, "B5", score.PassRate.InexactFloat64())
	f.SetCellValue(sheetName, "A6", "OnTimeCorrectionRate")
	f.SetCellValue(sheetName, "B6", score.OnTimeCorrectionRate.InexactFloat64())

	// Summary block
	f.SetCellValue(sheetName, "A8", "ScheduledInspections")
	f.SetCellValue(sheetName, "B8", summary.ScheduledCount)
	f.SetCellValue(sheetName, "A9", "OverdueInspections")
	f.SetCellValue(sheetName, "B9", summary.OverdueCount)
	f.SetCellValue(sheetName, "A10", "CompletedThisMonth")
	f.SetCellValue(sheetName, "B10", summary.CompletedThisMonth)
	f.SetCellValue(sheetName, "A11", "OpenFindings")
	f.SetCellValue(sheetName, "B11", summary.OpenFindingsCount)

	// Recommendations
	f.SetCellValue(sheetName, "A13", "Priority")
	f.SetCellValue(sheetName, "B13", "Recommendation")
	for i, rec := range score.Recommendations {
		row := fmt.Sprint(i + 14)
		f.SetCellValue(sheetName, "A"+row, rec.Priority)
		f.SetCellValue(sheetName, "B"+row, rec.Message)
	}

	return f, nil
}
