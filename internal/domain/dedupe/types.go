package dedupe

import (
	"math"

	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
)

// RuleLabel describes the strategies applied, in reporting order.
const RuleLabel = "same_source / cross_account_1to1 / cross_account_1to2_points"

// Config holds detection thresholds.
type Config struct {
	// SimilarityThreshold is the minimum description similarity for
	// same-account duplicates, in [0,1].
	SimilarityThreshold float64 `json:"similarity_threshold"`
	// MaxDayDiff bounds the day distance of every match.
	MaxDayDiff int `json:"max_day_diff"`
	// BundleDayWindow bounds the distance between a store debit and the
	// points credits bundled with it.
	BundleDayWindow int `json:"bundle_day_window"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.9,
		MaxDayDiff:          30,
		BundleDayWindow:     1,
	}
}

// Clamp replaces out-of-range values with defaults. The detector itself
// trusts its config, so callers taking user input clamp first.
func (c Config) Clamp() Config {
	def := DefaultConfig()
	if math.IsNaN(c.SimilarityThreshold) || c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		c.SimilarityThreshold = def.SimilarityThreshold
	}
	if c.MaxDayDiff < 0 {
		c.MaxDayDiff = def.MaxDayDiff
	}
	if c.BundleDayWindow < 0 {
		c.BundleDayWindow = def.BundleDayWindow
	}
	return c
}

// ConfigFromFloats builds a clamped Config from loosely typed input, rounding
// day counts to the nearest integer.
func ConfigFromFloats(sim, maxDayDiff, bundleWindow float64) Config {
	def := DefaultConfig()
	c := Config{SimilarityThreshold: sim, MaxDayDiff: def.MaxDayDiff, BundleDayWindow: def.BundleDayWindow}
	if days, ok := roundDays(maxDayDiff); ok {
		c.MaxDayDiff = days
	}
	if days, ok := roundDays(bundleWindow); ok {
		c.BundleDayWindow = days
	}
	return c.Clamp()
}

// roundDays rounds a non-negative day count, saturating at math.MaxInt32.
func roundDays(v float64) (int, bool) {
	if math.IsNaN(v) || v < 0 {
		return 0, false
	}
	r := math.Round(v)
	if r > math.MaxInt32 {
		return math.MaxInt32, true
	}
	return int(r), true
}

// CandidateBase carries the fields every strategy reports.
type CandidateBase struct {
	Type ledger.DuplicateType
	// RowIndices is sorted ascending and has at least two entries.
	RowIndices     []int
	Score          float64
	DateDiff       int
	BundleRowCount int
	KeeperIndex    int
	NetAmountCalc  string
	Reason         string
}

func (b *CandidateBase) base() *CandidateBase { return b }

// Candidate is an unconfirmed grouping from one strategy. The concrete
// types are PointsBundleCandidate, CrossAccountCandidate and
// SameSourceCandidate.
type Candidate interface {
	base() *CandidateBase
}

// Base exposes the shared fields of any candidate.
func Base(c Candidate) CandidateBase {
	return *c.base()
}

// PointsBundleCandidate matches a card charge against a store debit net of
// one or two points credits.
type PointsBundleCandidate struct {
	CandidateBase
	CardIndex     int
	MarketIndex   int
	BundleIndices []int
}

// CrossAccountCandidate pairs two equal debits from different accounts.
type CrossAccountCandidate struct {
	CandidateBase
	Pair [2]int
}

// SameSourceCandidate is a connected cluster of near-identical debits in one account.
type SameSourceCandidate struct {
	CandidateBase
	Account string
}

// Group is a confirmed duplicate set. Keeper is the lowest SourceIndex.
type Group struct {
	GroupID       string               `json:"group_id"`
	Type          ledger.DuplicateType `json:"type"`
	Reason        string               `json:"reason"`
	Rows          []ledger.Row         `json:"rows"`
	Keeper        ledger.Row           `json:"keeper"`
	Removed       []ledger.Row         `json:"removed"`
	Score         float64              `json:"score"`
	DateDiff      int                  `json:"date_diff"`
	NetAmountCalc string               `json:"net_amount_calc"`
}

// Stats summarizes one detection run.
type Stats struct {
	CandidateGroups int                          `json:"duplicate_candidate_groups"`
	RemovedRows     int                          `json:"duplicate_removed_rows"`
	TypeBreakdown   map[ledger.DuplicateType]int `json:"duplicate_type_breakdown"`
	Rule            string                       `json:"duplicate_rule"`
}

// Result is the output of Detect.
type Result struct {
	// Rows holds every input row, annotated, in input order.
	Rows []ledger.Row `json:"rows"`
	// KeptRows is Rows minus every removed group member.
	KeptRows []ledger.Row `json:"kept_rows"`
	Groups   []Group      `json:"groups"`
	Stats    Stats        `json:"stats"`
}
