// Command ledgerclean removes duplicate transactions from household-ledger
// exports, either one file at a time or through an HTTP review API.
package main

import (
	"context"
	"os"

	"github.com/eshaffer321/ledgerclean/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background()))
}
