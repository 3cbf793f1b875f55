package clean

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/ledgerclean/internal/adapters/ledgerfile"
	"github.com/eshaffer321/ledgerclean/internal/domain/dedupe"
	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
)

func sampleTable() *ledgerfile.Table {
	return &ledgerfile.Table{
		Headers: []string{"日付", "内容", "金額（円）", "大項目", "中項目", "口座", "振替"},
		Rows: []map[string]string{
			{"日付": "2024/01/05", "内容": "Coffee Shop Ginza", "金額（円）": "-1,000", "口座": "CardA", "振替": "0"},
			{"日付": "2024/01/06", "内容": "Coffee Shop Ginza (Receipt)", "金額（円）": "-1,000", "口座": "CardA", "振替": "0"},
			{"日付": "2024/01/07", "内容": "Savings", "金額（円）": "-5,000", "大項目": "振替", "口座": "Bank", "振替": "0"},
			{"日付": "2024/01/08", "内容": "Balance check", "金額（円）": "0", "口座": "Bank", "振替": "0"},
			{"日付": "bad date", "内容": "Dropped", "金額（円）": "-1", "口座": "Bank"},
			{"日付": "2024/01/09", "内容": "  ", "金額（円）": "-1", "口座": "Bank"},
			{"日付": "2024/01/10", "内容": "Card payment", "金額（円）": "-7,000", "口座": "Bank", "振替": "振替"},
		},
	}
}

func TestToRows(t *testing.T) {
	rows := ToRows(sampleTable())

	require.Len(t, rows, 5)
	assert.Equal(t, "2024-01-05", rows[0].Date)
	assert.Equal(t, "-1000", rows[0].Amount.String())
	assert.Equal(t, "CardA", rows[0].Account)
	assert.Equal(t, "coffeeshopginza", rows[0].NormalizedDescription)
	assert.Equal(t, "coffee", rows[0].MerchantKey)
	assert.False(t, rows[0].IsTransfer)

	assert.True(t, rows[2].IsTransfer, "category 振替 marks a transfer")
	assert.True(t, rows[4].IsTransfer, "explicit flag")
}

func TestFilter(t *testing.T) {
	rows := ToRows(sampleTable())

	assert.Len(t, Filter(rows, Options{}), 5)
	assert.Len(t, Filter(rows, Options{DropTransfer: true}), 3)
	assert.Len(t, Filter(rows, Options{DropZeroAmount: true}), 4)
	assert.Len(t, Filter(rows, Options{DropTransfer: true, DropZeroAmount: true}), 2)
}

func TestService_Run(t *testing.T) {
	t.Run("reports each stage", func(t *testing.T) {
		// Arrange
		svc := NewService(nil)
		opts := DefaultOptions()
		opts.DropZeroAmount = true

		// Act
		result, err := svc.Run(context.Background(), sampleTable(), opts)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 7, result.Info.InputRows)
		assert.Equal(t, 5, result.Info.NormalizedRows)
		assert.Equal(t, 4, result.Info.AfterFilterRows)
		assert.Equal(t, 3, result.Info.OutputRows)
		assert.Equal(t, 1, result.Info.DuplicateCandidateGroups)
		assert.Equal(t, 1, result.Info.DuplicateRemovedRows)
		assert.Equal(t, 1, result.Info.DuplicateTypeBreakdown[ledger.DuplicateSameSource])
		assert.Equal(t, dedupe.RuleLabel, result.Info.DuplicateRule)
		assert.Len(t, result.AllRows, 4)
	})

	t.Run("clamps thresholds", func(t *testing.T) {
		opts := Options{Dedupe: dedupe.Config{SimilarityThreshold: 7, MaxDayDiff: -2, BundleDayWindow: -1}}

		result, err := NewService(nil).Run(context.Background(), sampleTable(), opts)

		require.NoError(t, err)
		assert.Equal(t, dedupe.DefaultConfig(), result.Options.Dedupe)
	})

	t.Run("missing columns", func(t *testing.T) {
		_, err := NewService(nil).Run(context.Background(), &ledgerfile.Table{Headers: []string{"foo"}}, DefaultOptions())

		assert.ErrorIs(t, err, ledgerfile.ErrMissingColumns)
	})

	t.Run("rows of empty cells count as input", func(t *testing.T) {
		table, err := ledgerfile.ParseDelimited("日付,内容,金額（円）,口座\n,,,\n2024/01/05,Coffee,-500,CardA\n")
		require.NoError(t, err)

		result, err := NewService(nil).Run(context.Background(), table, DefaultOptions())

		require.NoError(t, err)
		assert.Equal(t, 2, result.Info.InputRows)
		assert.Equal(t, 1, result.Info.NormalizedRows)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewService(nil).Run(ctx, sampleTable(), DefaultOptions())

		assert.ErrorIs(t, err, context.Canceled)
	})
}
