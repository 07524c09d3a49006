package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/convoset/internal/pipeline"
)

var (
	processDataDir string
	processOutput  string
	processDryRun  bool
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Build the dataset from a directory of chat exports",
	Long:  "Reads every *.json export in the data directory, splits the message stream into conversation windows and writes one prompt per window as JSON Lines. Outputs ending in .zst are zstd-compressed.",
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().StringVar(&processDataDir, "data-dir", "", "directory of *.json chat exports (default from config)")
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "output JSONL path (default from config)")
	processCmd.Flags().BoolVar(&processDryRun, "dry-run", false, "build prompts without writing, persisting or publishing")
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	pcfg := pipeline.Config{
		DataDir:   cfg.DataDir,
		Output:    cfg.Output,
		StatePath: cfg.StatePath,
		DryRun:    processDryRun,
	}
	if cmd.Flags().Changed("data-dir") {
		pcfg.DataDir = processDataDir
	}
	if cmd.Flags().Changed("output") {
		pcfg.Output = processOutput
	}

	var recorder pipeline.RunRecorder
	var publisher pipeline.Publisher
	if !pcfg.DryRun {
		b, err := openBackends(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer b.Close()
		recorder, publisher = b.recorder(), b.publisher()
		if b.hermes != nil {
			defer b.hermes.Flush(ctx)
		}
	}

	runner := pipeline.NewRunner(pcfg, recorder, publisher, logger)
	sum, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), pipeline.FormatSummary(sum))
	return nil
}
