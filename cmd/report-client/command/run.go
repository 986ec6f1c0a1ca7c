package command

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mediahub/internal/logging"
	"mediahub/internal/metrics"
	"mediahub/internal/report"
)

var (
	reportNumbers []int
	outputPath    string
	metricsFile   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the report battery and write the results",
	Long: `Run every report (or the ones picked with --reports) against the catalog.
Results are appended to the output file once all reports have finished.
A failing report is written as a single failure line under its header.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := setup()
		if err != nil {
			return err
		}
		if outputPath == "" {
			outputPath = cfg.OutputPath
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reports, err := report.Select(report.NewReporter(client, cfg.FanoutConcurrency).Battery(), reportNumbers)
		if err != nil {
			return err
		}

		logging.Info().Str("catalog", cfg.CatalogURL).Int("reports", len(reports)).Msg("running reports")
		results := report.Run(ctx, reports, cfg.ReportConcurrency)

		if metricsFile != "" {
			if err := metrics.WriteTextfile(metricsFile); err != nil {
				logging.Warn().Err(err).Str("path", metricsFile).Msg("failed to write metrics")
			}
		}

		if ctx.Err() != nil {
			return fmt.Errorf("interrupted, nothing written: %w", ctx.Err())
		}

		if err := report.WriteLines(outputPath, report.Format(results)); err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		logging.Info().Str("output", outputPath).Int("failed", failed).Msg("reports written")
		return nil
	},
}

func init() {
	runCmd.Flags().IntSliceVar(&reportNumbers, "reports", nil, "report numbers to run, e.g. 1,5,9 (default all)")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", `output file, "-" for stdout (defaults to OUTPUT_PATH)`)
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write client metrics in Prometheus text format to this file")

	rootCmd.AddCommand(runCmd)
}
