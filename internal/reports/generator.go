package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/fdg312/energy-hub/internal/aggregate"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/fdg312/energy-hub/internal/units"
	"github.com/jung-kurt/gofpdf"
)

// Generator renders per-day aggregates into PDF or CSV bytes. It is
// pure: the service fetches data, the generator only formats it.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Render produces report bytes in the requested format.
func (g *Generator) Render(format string, profile *storage.Profile, target *storage.EnergyRecord, days []aggregate.DayAggregate, from, to string) ([]byte, error) {
	switch format {
	case FormatPDF:
		return g.renderPDF(profile, target, days, from, to)
	case FormatCSV:
		return g.renderCSV(days)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// renderCSV writes one row per day of the range, zero-filled days included.
func (g *Generator) renderCSV(days []aggregate.DayAggregate) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"day", "calories", "protein_g", "carbs_g", "fat_g", "water_ml", "water_servings", "sleep_minutes", "sleep_quality"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, d := range days {
		row := []string{
			d.Day,
			fmt.Sprintf("%.1f", d.Calories),
			fmt.Sprintf("%.1f", d.ProteinG),
			fmt.Sprintf("%.1f", d.CarbsG),
			fmt.Sprintf("%.1f", d.FatG),
			strconv.Itoa(d.WaterMl),
			strconv.Itoa(d.WaterCount),
			strconv.Itoa(d.SleepMin),
			strconv.Itoa(d.SleepQuality),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// renderPDF builds a one-or-more page summary with a per-day table.
// Built-in Helvetica only, so the output needs no font assets.
func (g *Generator) renderPDF(profile *storage.Profile, target *storage.EnergyRecord, days []aggregate.DayAggregate, from, to string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Energy Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Profile: %s", profile.Name))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Height: %.0f cm (%.1f in), Weight: %.1f kg (%.1f lb)",
		profile.HeightCm, units.CmToIn(profile.HeightCm),
		profile.WeightKg, units.KgToLb(profile.WeightKg)))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s - %s", from, to))
	pdf.Ln(6)
	if target != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Daily target: %.0f kcal (%s)", target.TargetCalories, target.Formula))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	summary := summarize(days)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Days logged: %d of %d", summary.DaysLogged, len(days)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average calories (logged days): %s", formatFloat(summary.AvgCalories)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average protein: %s g", formatFloat(summary.AvgProteinG)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average water: %s ml", formatInt(summary.AvgWaterMl)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average sleep: %s", summary.AvgSleep))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Daily totals")
	pdf.Ln(8)

	drawDaysTable(pdf, days)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// Summary holds range-level statistics for the PDF header block.
// Averages are over days with at least one logged value, not over the
// whole range, so sparse logging does not drag them toward zero.
type Summary struct {
	DaysLogged  int
	AvgCalories *float64
	AvgProteinG *float64
	AvgWaterMl  *int
	AvgSleep    string
}

func summarize(days []aggregate.DayAggregate) Summary {
	var (
		calTotal, proteinTotal float64
		calDays                int
		waterTotal, waterDays  int
		sleepTotal, sleepDays  int
		logged                 int
	)

	for _, d := range days {
		hasData := false
		if d.Calories > 0 {
			calTotal += d.Calories
			proteinTotal += d.ProteinG
			calDays++
			hasData = true
		}
		if d.WaterMl > 0 {
			waterTotal += d.WaterMl
			waterDays++
			hasData = true
		}
		if d.SleepMin > 0 {
			sleepTotal += d.SleepMin
			sleepDays++
			hasData = true
		}
		if hasData {
			logged++
		}
	}

	s := Summary{DaysLogged: logged, AvgSleep: "no data"}

	if calDays > 0 {
		avgCal := calTotal / float64(calDays)
		avgProtein := proteinTotal / float64(calDays)
		s.AvgCalories = &avgCal
		s.AvgProteinG = &avgProtein
	}
	if waterDays > 0 {
		avgWater := waterTotal / waterDays
		s.AvgWaterMl = &avgWater
	}
	if sleepDays > 0 {
		avgMin := sleepTotal / sleepDays
		s.AvgSleep = fmt.Sprintf("%dh %02dm", avgMin/60, avgMin%60)
	}

	return s
}

func drawDaysTable(pdf *gofpdf.Fpdf, days []aggregate.DayAggregate) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(25, 6, "Day", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Calories", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Protein", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Carbs", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Fat", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Water", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Sleep", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, d := range days {
		sleep := ""
		if d.SleepMin > 0 {
			sleep = fmt.Sprintf("%dh %02dm", d.SleepMin/60, d.SleepMin%60)
		}
		water := ""
		if d.WaterMl > 0 {
			water = fmt.Sprintf("%d ml", d.WaterMl)
		}

		pdf.CellFormat(25, 6, d.Day, "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, blankIfZero(d.Calories, "%.0f"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, blankIfZero(d.ProteinG, "%.1f"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, blankIfZero(d.CarbsG, "%.1f"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, blankIfZero(d.FatG, "%.1f"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, water, "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, sleep, "1", 1, "C", false, 0, "")
	}
}

func blankIfZero(v float64, format string) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf(format, v)
}

func formatInt(val *int) string {
	if val == nil {
		return "no data"
	}
	return strconv.Itoa(*val)
}

func formatFloat(val *float64) string {
	if val == nil {
		return "no data"
	}
	return fmt.Sprintf("%.1f", *val)
}
