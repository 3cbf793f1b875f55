package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/eshaffer321/ledgerclean/internal/adapters/ledgerfile"
	"github.com/eshaffer321/ledgerclean/internal/application/clean"
	"github.com/eshaffer321/ledgerclean/internal/domain/dedupe"
	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
)

var (
	headerColor  = color.New(color.Bold)
	keepColor    = color.New(color.FgGreen)
	removeColor  = color.New(color.FgRed)
	groupColor   = color.New(color.FgCyan, color.Bold)
	warningColor = color.New(color.FgYellow)
)

const separatorWidth = 60

// PrintHeader prints the source file line.
func PrintHeader(w io.Writer, source string, table *ledgerfile.Table) {
	headerColor.Fprintf(w, "ledgerclean: %s", source)
	fmt.Fprintf(w, " (%s, %s, %d rows)\n\n", table.Encoding, table.Format, len(table.Rows))
}

// PrintConfiguration prints the options a run used.
func PrintConfiguration(w io.Writer, opts clean.Options) {
	fmt.Fprintf(w, "Similarity: %.2f | Max day diff: %d | Bundle window: %d",
		opts.Dedupe.SimilarityThreshold,
		opts.Dedupe.MaxDayDiff,
		opts.Dedupe.BundleDayWindow)
	if opts.DropTransfer {
		fmt.Fprint(w, " | Drop transfers")
	}
	if opts.DropZeroAmount {
		fmt.Fprint(w, " | Drop zero amounts")
	}
	fmt.Fprintln(w)
}

// PrintSummary prints row counts and duplicate statistics.
func PrintSummary(w io.Writer, info clean.Info) {
	fmt.Fprintln(w, strings.Repeat("-", separatorWidth))
	fmt.Fprintf(w, "Rows: Input=%d Normalized=%d Filtered=%d Output=%d\n",
		info.InputRows,
		info.NormalizedRows,
		info.AfterFilterRows,
		info.OutputRows)

	fmt.Fprintf(w, "Duplicates: Groups=%d ", info.DuplicateCandidateGroups)
	removeColor.Fprintf(w, "Removed=%d", info.DuplicateRemovedRows)
	fmt.Fprintln(w)

	parts := make([]string, 0, len(ledger.AllDuplicateTypes()))
	for _, t := range ledger.AllDuplicateTypes() {
		parts = append(parts, fmt.Sprintf("%s=%d", t, info.DuplicateTypeBreakdown[t]))
	}
	fmt.Fprintf(w, "By type: %s\n", strings.Join(parts, " "))
	fmt.Fprintf(w, "Rule: %s\n", info.DuplicateRule)

	if info.InputRows > info.NormalizedRows {
		warningColor.Fprintf(w, "\n%d rows skipped for a missing date or description\n",
			info.InputRows-info.NormalizedRows)
	}
}

// PrintGroups lists each duplicate group with its keeper and removed rows.
func PrintGroups(w io.Writer, groups []dedupe.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "\nNo duplicates found.")
		return
	}

	fmt.Fprintln(w)
	for _, g := range groups {
		groupColor.Fprintf(w, "[%s]", g.GroupID)
		fmt.Fprintf(w, " %s score=%.2f days=%d\n", g.Type, g.Score, g.DateDiff)
		fmt.Fprintf(w, "  %s\n", g.Reason)
		if g.NetAmountCalc != "" {
			fmt.Fprintf(w, "  net: %s\n", g.NetAmountCalc)
		}
		keepColor.Fprint(w, "  keep   ")
		fmt.Fprintln(w, formatRow(g.Keeper))
		for _, r := range g.Removed {
			removeColor.Fprint(w, "  remove ")
			fmt.Fprintln(w, formatRow(r))
		}
	}
}

func formatRow(r ledger.Row) string {
	return fmt.Sprintf("#%-4d %s %12s  %-12s %s", r.SourceIndex, r.Date, r.Amount.String(), r.Account, r.Description)
}

// PrintOutput reports the written file.
func PrintOutput(w io.Writer, path string, rows int) {
	fmt.Fprintln(w, strings.Repeat("-", separatorWidth))
	keepColor.Fprintf(w, "Wrote %d rows to %s\n", rows, path)
}
