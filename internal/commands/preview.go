package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/importer"
	"github.com/fintrack-dev/fintrack/internal/ledger"
	"github.com/fintrack-dev/fintrack/internal/logging"
	"github.com/fintrack-dev/fintrack/internal/model"
)

func newPreviewCommand() *cobra.Command {
	var ledgerPath string
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Parse a file and reconcile it against the ledger without importing",
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

			printResults(cmd, p)
			return nil
		},
	}

	addCommonFlags(cmd, &ledgerPath, &configPath, &verbose)
	return cmd
}

func addCommonFlags(cmd *cobra.Command, ledgerPath, configPath *string, verbose *bool) {
	cmd.Flags().StringVar(ledgerPath, "ledger", "ledger.csv", "ledger CSV file")
	cmd.Flags().StringVar(configPath, "config", "", "engine config YAML (defaults built in)")
	cmd.Flags().BoolVarP(verbose, "verbose", "v", false, "debug logging")
}

// buildService wires the pipeline against a CSV-backed ledger store.
func buildService(ledgerPath, configPath string, verbose bool) (*importer.Service, *ledger.Store, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := logging.New(level)

	store := ledger.NewStore(ledgerPath)
	svc := importer.NewService(cfg, store, store.InvalidateCache, log)
	return svc, store, nil
}

func runPreview(cmd *cobra.Command, svc *importer.Service, filePath string) (*importer.Preview, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}
	return svc.Preview(cmd.Context(), data, filePath)
}

func printResults(cmd *cobra.Command, p *importer.Preview) {
	for _, r := range p.Results {
		switch r.Status {
		case model.StatusMatch:
			cmd.Printf("row %-4d match    %s  %s  (%s, ledger %s)\n",
				r.Draft.RowIndex, r.Draft.Date.Format("2006-01-02"), r.Draft.Amount.StringFixed(2), r.Strategy, r.LedgerID)
		case model.StatusMismatch:
			cmd.Printf("row %-4d new      %s  %s  %s\n",
				r.Draft.RowIndex, r.Draft.Date.Format("2006-01-02"), r.Draft.Amount.StringFixed(2), r.Draft.Description)
		case model.StatusInvalid:
			cmd.Printf("row %-4d invalid  %s\n", r.Draft.RowIndex, r.Reason)
		}
	}

	s := p.Summary
	cmd.Printf("\n%d rows: %d matched, %d new, %d invalid\n",
		s.TotalImported, s.Matches, s.Mismatches, s.InvalidCount)
}
