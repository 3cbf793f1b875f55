package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/ledgerclean/internal/adapters/export"
	"github.com/eshaffer321/ledgerclean/internal/adapters/ledgerfile"
	"github.com/eshaffer321/ledgerclean/internal/application/clean"
	"github.com/eshaffer321/ledgerclean/internal/application/review"
	"github.com/eshaffer321/ledgerclean/internal/infrastructure/logging"
)

// CleanFlags holds the flags for the clean command. Threshold flags only
// override the config when set on the command line.
type CleanFlags struct {
	OutDir       string
	Format       string
	Similarity   float64
	MaxDayDiff   int
	BundleWindow int
	DropTransfer bool
	DropZero     bool
	ShowGroups   bool
}

func newCleanCommand(root *RootFlags) *cobra.Command {
	flags := &CleanFlags{}

	cmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Remove duplicate transactions from a ledger export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, root, flags, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.OutDir, "out", "o", ".", "Directory for the cleaned file")
	f.StringVarP(&flags.Format, "format", "f", "", "Output format: csv_utf8, csv_utf8_bom, tsv_utf8_bom, excel_xml, xlsx")
	f.Float64Var(&flags.Similarity, "sim", 0.9, "Description similarity threshold (0-1)")
	f.IntVar(&flags.MaxDayDiff, "max-day-diff", 30, "Max days between same-account duplicates")
	f.IntVar(&flags.BundleWindow, "bundle-window", 1, "Max days between a card charge and its store debits")
	f.BoolVar(&flags.DropTransfer, "drop-transfer", false, "Drop transfer rows before detection")
	f.BoolVar(&flags.DropZero, "drop-zero", false, "Drop zero-amount rows before detection")
	f.BoolVar(&flags.ShowGroups, "groups", false, "List every duplicate group")

	return cmd
}

func runClean(cmd *cobra.Command, root *RootFlags, flags *CleanFlags, path string) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	logger := logging.NewLoggerWithSystem(root.loggingConfig(cfg), "clean")
	out := cmd.OutOrStdout()

	opts := cfg.CleanOptions()
	changed := cmd.Flags().Changed
	if changed("sim") || changed("max-day-diff") || changed("bundle-window") {
		d := opts.Dedupe
		if changed("sim") {
			d.SimilarityThreshold = flags.Similarity
		}
		if changed("max-day-diff") {
			d.MaxDayDiff = flags.MaxDayDiff
		}
		if changed("bundle-window") {
			d.BundleDayWindow = flags.BundleWindow
		}
		opts.Dedupe = d.Clamp()
	}
	if changed("drop-transfer") {
		opts.DropTransfer = flags.DropTransfer
	}
	if changed("drop-zero") {
		opts.DropZeroAmount = flags.DropZero
	}

	formatName := cfg.Export.Format
	if flags.Format != "" {
		formatName = flags.Format
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	table, err := ledgerfile.ReadFile(path)
	if err != nil {
		return err
	}

	PrintHeader(out, filepath.Base(path), table)
	PrintConfiguration(out, opts)

	result, err := clean.NewService(logger).Run(cmd.Context(), table, opts)
	if err != nil {
		return err
	}

	PrintSummary(out, result.Info)
	if flags.ShowGroups {
		PrintGroups(out, result.Groups)
	}

	rows := review.NewSession(result).CleanedRows()
	payload, err := export.BuildPayload(rows, format)
	if err != nil {
		return err
	}

	source := path
	if cfg.Export.BaseName != "" {
		source = cfg.Export.BaseName
	}
	if err := os.MkdirAll(flags.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	target := filepath.Join(flags.OutDir, export.FileName(source, time.Now(), payload.Ext))
	if err := os.WriteFile(target, payload.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}

	logger.Debug("export written", "path", target, "format", format, "bytes", len(payload.Data))
	PrintOutput(out, target, len(rows))
	return nil
}
