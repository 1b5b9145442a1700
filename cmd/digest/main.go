package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"review-digest/config"
	"review-digest/models"
	"review-digest/pipeline"
)

var (
	cfgFile     string
	topN        int
	outputPath  string
	concurrency int
)

var rootCmd = &cobra.Command{
	Use:   "digest",
	Short: "Build the top-products review digest",
	Long: `digest unifies the configured review datasets, labels each review's sentiment,
clusters products by category, keeps the most praised products per cluster and
writes an LLM summary for each of them into a single CSV file.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: nearest config.yaml)")
	rootCmd.Flags().IntVarP(&topN, "top-n", "n", 0, "products kept per cluster")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output CSV path")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel summary requests")
}

func loadConfig() (config.AppConfig, error) {
	if cfgFile == "" {
		return config.GetConfig(), nil
	}
	c, err := config.Load(cfgFile)
	if err != nil {
		return config.AppConfig{}, models.ConfigError("load "+cfgFile, err)
	}
	config.SetConfig(c)
	return *c, nil
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if topN > 0 {
		cfg.Pipeline.TopN = topN
	}
	if outputPath != "" {
		cfg.Pipeline.OutputPath = outputPath
	}
	if concurrency > 0 {
		cfg.LLM.Concurrency = concurrency
	}
	config.InitLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, cleanup, err := pipeline.Build(ctx, cfg)
	defer cleanup()
	if err != nil {
		return err
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	config.InfoWithFields("digest run finished", config.Fields{
		"run_id":         res.Run.RunID,
		"output_rows":    res.Run.OutputRows,
		"summary_errors": res.Run.SummaryErrors,
	})
	fmt.Fprintf(cmd.OutOrStdout(), "Full pipeline completed. Output saved to %s\n", p.Output.Path())
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		config.Logger.Errorf("digest failed: %v", err)
		os.Exit(1)
	}
}
