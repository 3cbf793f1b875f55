// Package clean runs the full cleaning pipeline over a parsed ledger file:
// canonical mapping, optional filters and duplicate detection.
package clean

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eshaffer321/ledgerclean/internal/adapters/ledgerfile"
	"github.com/eshaffer321/ledgerclean/internal/domain/dedupe"
	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
)

// Options controls filtering and detection thresholds for one run.
type Options struct {
	DropTransfer   bool          `json:"drop_transfer"`
	DropZeroAmount bool          `json:"drop_zero_amount"`
	Dedupe         dedupe.Config `json:"dedupe"`
}

// DefaultOptions keeps every row and uses default thresholds.
func DefaultOptions() Options {
	return Options{Dedupe: dedupe.DefaultConfig()}
}

// Info reports row counts at each pipeline stage plus detection stats.
type Info struct {
	InputRows       int `json:"input_rows"`
	NormalizedRows  int `json:"normalized_rows"`
	AfterFilterRows int `json:"after_filter_rows"`
	OutputRows      int `json:"output_rows"`

	DuplicateCandidateGroups int                          `json:"duplicate_candidate_groups"`
	DuplicateRemovedRows     int                          `json:"duplicate_removed_rows"`
	DuplicateTypeBreakdown   map[ledger.DuplicateType]int `json:"duplicate_type_breakdown"`
	DuplicateRule            string                       `json:"duplicate_rule"`
}

// Result is the output of one cleaning run.
type Result struct {
	// Rows are the kept rows in detection order.
	Rows []ledger.Row `json:"rows"`
	// AllRows are every detected row, annotated.
	AllRows []ledger.Row   `json:"all_rows"`
	Groups  []dedupe.Group `json:"groups"`
	Info    Info           `json:"info"`
	Options Options        `json:"options"`
}

// Service runs cleaning pipelines.
type Service struct {
	logger *slog.Logger
}

// NewService creates a clean service.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Run validates, normalizes, filters and deduplicates table. Detection
// thresholds are clamped before use.
func (s *Service) Run(ctx context.Context, table *ledgerfile.Table, opts Options) (*Result, error) {
	if table == nil {
		return nil, fmt.Errorf("no table to clean")
	}
	if err := ledgerfile.ValidateColumns(table.Headers); err != nil {
		return nil, err
	}

	normalized := ToRows(table)
	filtered := Filter(normalized, opts)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("clean cancelled: %w", err)
	}

	opts.Dedupe = opts.Dedupe.Clamp()
	detector := dedupe.NewDetector(opts.Dedupe, s.logger)
	detected := detector.Detect(filtered)

	info := Info{
		InputRows:                len(table.Rows),
		NormalizedRows:           len(normalized),
		AfterFilterRows:          len(filtered),
		OutputRows:               len(detected.KeptRows),
		DuplicateCandidateGroups: detected.Stats.CandidateGroups,
		DuplicateRemovedRows:     detected.Stats.RemovedRows,
		DuplicateTypeBreakdown:   detected.Stats.TypeBreakdown,
		DuplicateRule:            detected.Stats.Rule,
	}

	s.logger.Info("clean complete",
		"input", info.InputRows,
		"normalized", info.NormalizedRows,
		"filtered", info.AfterFilterRows,
		"output", info.OutputRows,
		"groups", info.DuplicateCandidateGroups)

	return &Result{
		Rows:    detected.KeptRows,
		AllRows: detected.Rows,
		Groups:  detected.Groups,
		Info:    info,
		Options: opts,
	}, nil
}
