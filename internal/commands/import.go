package commands

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/auditlog"
	"github.com/fintrack-dev/fintrack/internal/model"
)

func newImportCommand() *cobra.Command {
	var ledgerPath string
	var configPath string
	var verbose bool
	var onlyNew bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import transactions from a file into the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := buildService(ledgerPath, configPath, verbose)
			if err != nil {
				return err
			}

			p, err := runPreview(cmd, svc, args[0])
			if err != nil {
				return err
			}

			var outcome model.ImportOutcome
			if onlyNew {
				outcome = svc.ImportMismatched(cmd.Context(), p)
			} else {
				outcome = svc.ImportValid(cmd.Context(), p)
			}

			logErr := auditlog.Append(filepath.Dir(ledgerPath), []auditlog.Entry{{
				Timestamp:  time.Now().UTC(),
				File:       filepath.Base(args[0]),
				Imported:   outcome.ImportedCount,
				Failed:     len(outcome.Errors),
				Matches:    p.Summary.Matches,
				Mismatches: p.Summary.Mismatches,
				Invalid:    p.Summary.InvalidCount,
			}})
			if logErr != nil {
				cmd.PrintErrf("warning: writing import log: %v\n", logErr)
			}

			printOutcome(cmd, outcome)
			return nil
		},
	}

	addCommonFlags(cmd, &ledgerPath, &configPath, &verbose)
	cmd.Flags().BoolVar(&onlyNew, "only-new", false, "import only rows with no ledger counterpart")
	return cmd
}

func printOutcome(cmd *cobra.Command, outcome model.ImportOutcome) {
	for _, re := range outcome.Errors {
		cmd.Printf("row %-4d failed: %v\n", re.RowIndex, re.Err)
	}

	switch {
	case outcome.Failed():
		cmd.Printf("import failed: 0 of %d rows persisted\n", len(outcome.Errors))
	case outcome.PartialSuccess():
		cmd.Printf("imported %d rows with %d failures\n", outcome.ImportedCount, len(outcome.Errors))
	default:
		cmd.Printf("imported %d rows\n", outcome.ImportedCount)
	}
}
