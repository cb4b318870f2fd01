package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/satrarity/internal/logging"
	"github.com/ppiankov/satrarity/internal/pipeline"
	"github.com/ppiankov/satrarity/internal/worker"
)

var (
	rangesFile    string
	rangesTimeout time.Duration
)

// rangesCmd represents the ranges command
var rangesCmd = &cobra.Command{
	Use:   "ranges [reference...]",
	Short: "Report the rarities of the sats held by outputs",
	Long: `Ranges resolves <txid>:<vout> references through the configured index
and prints their sat ranges, rarity reports and named sats as JSON.

References can be given as arguments or read from a file, one per line.

Example:
  satrarity ranges 4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b:0
  satrarity ranges --file refs.txt --index-file index.yaml`,
	PreRun: bindFlags(map[string]string{"index.file": "index-file"}),
	RunE:   runRanges,
}

func init() {
	rootCmd.AddCommand(rangesCmd)

	rangesCmd.Flags().StringVarP(&rangesFile, "file", "f", "", "read references from file")
	rangesCmd.Flags().DurationVar(&rangesTimeout, "timeout", time.Minute, "overall lookup timeout")
	rangesCmd.Flags().String("index-file", "", "YAML index file")
}

func runRanges(cmd *cobra.Command, args []string) error {
	refs := args
	if rangesFile != "" {
		fromFile, err := worker.ReadReferencesFromFile(rangesFile)
		if err != nil {
			return err
		}
		refs = append(refs, fromFile...)
	}
	if len(refs) == 0 {
		return fmt.Errorf("no references given")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !verbose {
		cfg.Log.Level = "warn"
	}
	cfg.Log.Format = "console"
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), rangesTimeout)
	defer cancel()

	idx, closeIndex, err := openIndex(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeIndex() }()

	p := pipeline.NewPipeline(idx, cfg, pipeline.WithLogger(logger))
	result, err := p.GetSatRanges(ctx, refs)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Resolved %d references\n", len(result.Results))
	}
	logger.Debug("ranges done", zap.Int("references", len(refs)))
	return writeJSON(cmd, result)
}
