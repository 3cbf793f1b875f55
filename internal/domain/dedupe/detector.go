// Package dedupe finds duplicate ledger transactions.
//
// Three strategies run in strict priority order over one shared set of
// claimed rows:
//   - cross_account_1to2_points: a card charge equal to a store debit net of
//     one or two points credits in the store account
//   - cross_account_1to1: equal debits in two accounts
//   - same_source: near-identical debits repeated within one account
//
// A row claimed by a higher priority strategy is never reconsidered. Each
// accepted candidate becomes a Group whose lowest-index row is kept and
// whose other rows are removed by default.
//
// Example usage:
//
//	d := dedupe.NewDetector(dedupe.DefaultConfig(), logger)
//	result := d.Detect(rows)
//	for _, g := range result.Groups {
//		fmt.Println(g.GroupID, g.Type, len(g.Removed))
//	}
package dedupe

import (
	"log/slog"

	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
)

// Detector runs duplicate detection with a fixed config.
type Detector struct {
	config Config
	logger *slog.Logger
}

// NewDetector creates a detector. Config is used as given; see Config.Clamp.
func NewDetector(config Config, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		config: config,
		logger: logger.With(slog.String("component", "dedupe")),
	}
}

// Config returns the detector's thresholds.
func (d *Detector) Config() Config {
	return d.config
}

// Detect annotates a copy of rows and returns the partition into kept rows
// and duplicate groups. SourceIndex is reassigned from input order and all
// previous annotations are reset. The input slice is not modified.
func (d *Detector) Detect(input []ledger.Row) *Result {
	rows := make([]ledger.Row, len(input))
	copy(rows, input)

	var negatives, positives []int
	for i := range rows {
		rows[i].SourceIndex = i
		rows[i].ResetAnnotations()

		if rows[i].IsTransfer {
			continue
		}
		switch {
		case rows[i].IsOutflow():
			negatives = append(negatives, i)
		case rows[i].IsInflow():
			positives = append(positives, i)
		}
	}

	used := make(claimSet)
	var accepted []Candidate

	points := d.pointsBundleCandidates(rows, negatives, positives)
	picked := pick(points, used)
	accepted = append(accepted, picked...)
	d.logger.Debug("points bundle candidates", "candidates", len(points), "accepted", len(picked))

	pairs := d.crossAccountCandidates(rows, unclaimed(negatives, used))
	picked = pick(pairs, used)
	accepted = append(accepted, picked...)
	d.logger.Debug("cross account candidates", "candidates", len(pairs), "accepted", len(picked))

	clusters := d.sameSourceCandidates(rows, unclaimed(negatives, used))
	picked = pick(clusters, used)
	accepted = append(accepted, picked...)
	d.logger.Debug("same source candidates", "candidates", len(clusters), "accepted", len(picked))

	groups, stats := buildGroups(rows, accepted)

	kept := make([]ledger.Row, 0, len(rows)-stats.RemovedRows)
	for _, r := range rows {
		if !r.IsRemovedByDefault {
			kept = append(kept, r)
		}
	}

	d.logger.Info("duplicate detection complete",
		"rows", len(rows),
		"groups", stats.CandidateGroups,
		"removed", stats.RemovedRows)

	return &Result{
		Rows:     rows,
		KeptRows: kept,
		Groups:   groups,
		Stats:    stats,
	}
}
