package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/ledgerclean/internal/domain/dedupe"
)

// Version and BuildDate are set at build time:
//
//	go build -ldflags "-X github.com/eshaffer321/ledgerclean/internal/cli.Version=1.2.0"
var (
	Version   = "dev"
	BuildDate = "unknown"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the application version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "ledgerclean")
			fmt.Fprintf(w, "Version:    %s\n", Version)
			fmt.Fprintf(w, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(w, "Go Version: %s\n", runtime.Version())
			fmt.Fprintf(w, "Rule:       %s\n", dedupe.RuleLabel)
		},
	}
}
