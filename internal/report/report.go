// Package report renders run summaries for the console.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/hovlane/internal/simulation"
	"github.com/louisbranch/hovlane/internal/storage"
)

// Summary describes one finished run.
type Summary struct {
	RunID       string
	Seed        int64
	SampleCount int
	LaneMiles   float64
	Means       simulation.Means
}

// Writer prints localized summaries.
type Writer struct {
	out     io.Writer
	printer *message.Printer
}

// NewWriter returns a Writer that formats numbers for tag. The zero tag
// uses English.
func NewWriter(out io.Writer, tag language.Tag) *Writer {
	if tag == language.Und {
		tag = language.English
	}
	return &Writer{out: out, printer: message.NewPrinter(tag)}
}

// Money rounds a dollar amount to cents, half away from zero.
func Money(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(2)
}

func (w *Writer) money(value float64) string {
	return w.printer.Sprintf("$%.2f", Money(value).InexactFloat64())
}

// WriteSummary prints mean speeds, travel times, emissions and revenue.
func (w *Writer) WriteSummary(s Summary) error {
	p := w.printer
	m := s.Means
	lines := []string{
		p.Sprintf("Simulated %d samples (seed %s)", s.SampleCount, strconv.FormatInt(s.Seed, 10)),
		"",
		"HOV lane timings and their effect on the general purpose lane:",
		p.Sprintf("  Average HOV speed:               %10.3f mph", m.HOVSpeed),
		p.Sprintf("  Average GPV speed:               %10.3f mph", m.GPVSpeed),
		p.Sprintf("  Average HOV time over %g miles:  %10.3f h", s.LaneMiles, m.HOVTime),
		p.Sprintf("  Average GPV time over %g miles:  %10.3f h", s.LaneMiles, m.GPVTime),
		"",
		p.Sprintf("  Average HOV CO emission:         %10.2f g", m.HOVEmission),
		p.Sprintf("  Average GPV CO emission:         %10.2f g", m.GPVEmission),
		"",
		"  Average estimated revenue per day: " + w.money(m.EstimatedFine),
		"  Average actual revenue per day:    " + w.money(m.ActualFine),
		"  Average revenue lost per day:      " + w.money(m.RevenueLost),
		"  Average accident fines per day:    " + w.money(m.AccidentFine),
	}
	if s.RunID != "" {
		lines = append(lines, "", "Stored as run "+s.RunID)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w.out, line); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}

// WriteRuns prints one line per stored run.
func (w *Writer) WriteRuns(runs []storage.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w.out, "No stored runs.")
		return err
	}
	for _, run := range runs {
		line := w.printer.Sprintf("%s  %s  seed=%s  samples=%d  workers=%d  lost=%s",
			run.ID,
			run.CreatedAt.UTC().Format(time.RFC3339),
			strconv.FormatInt(run.Seed, 10),
			run.SampleCount,
			run.Workers,
			w.money(run.Means.RevenueLost),
		)
		if _, err := fmt.Fprintln(w.out, line); err != nil {
			return fmt.Errorf("write runs: %w", err)
		}
	}
	return nil
}
