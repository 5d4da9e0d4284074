// Package report renders stored calculations for people: a plain-text
// history table for the terminal and a printable HTML report.
//
// Both renderings list newest calculations first and show the final
// signal with exactly two decimals. Timestamps use the fixed dd/mm/yyyy
// 24h convention of the original report; no locale negotiation happens.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/ftoledo/fiberbudget/internal/store"
)

// timestampLayout is the fixed display format for calculation times.
const timestampLayout = "02/01/2006 15:04:05"

// newestFirst returns a copy of calcs sorted by CalculatedAt descending,
// breaking ties by id descending so ordering is total.
func newestFirst(calcs []store.Calculation) []store.Calculation {
	out := make([]store.Calculation, len(calcs))
	copy(out, calcs)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CalculatedAt.Equal(out[j].CalculatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CalculatedAt.After(out[j].CalculatedAt)
	})
	return out
}

// formatNumber prints a float the way it was entered: no trailing
// zeros, no exponent.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatSignal is the two-decimal display convention for final signals.
func formatSignal(db float64) string {
	return fmt.Sprintf("%.2f", db)
}

// performedBy maps an empty actor to the N/A display value.
func performedBy(by string) string {
	if by == "" {
		return "N/A"
	}
	return by
}

// WriteHistory writes the calculation history as a fixed-width text
// table, newest first. When showIDs is set (administrators, who may
// delete records) an ID column is prepended.
func WriteHistory(w io.Writer, calcs []store.Calculation, showIDs bool) error {
	if len(calcs) == 0 {
		_, err := fmt.Fprintln(w, "No calculations stored in the history.")
		return err
	}

	const rowFormat = "%-16s  %-8s  %-6s  %-3s  %-6s  %-3s  %-7s  %-9s  %-19s  %s\n"

	if showIDs {
		if _, err := fmt.Fprintf(w, "%-4s  ", "ID"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, rowFormat,
		"PROJECT", "DIST(km)", "S1(dB)", "QTY", "S2(dB)", "QTY", "SPLICES", "FINAL(dB)", "DATE", "BY"); err != nil {
		return err
	}

	for _, c := range newestFirst(calcs) {
		if showIDs {
			if _, err := fmt.Fprintf(w, "%-4d  ", c.ID); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, rowFormat,
			c.ProjectName,
			formatNumber(c.Distance),
			formatNumber(c.SplitterLoss1),
			strconv.Itoa(c.Splitters1),
			formatNumber(c.SplitterLoss2),
			strconv.Itoa(c.Splitters2),
			strconv.Itoa(c.FusionSplices),
			formatSignal(c.FinalSignal),
			c.CalculatedAt.Format(timestampLayout),
			performedBy(c.CalculatedBy),
		); err != nil {
			return err
		}
	}

	return nil
}
