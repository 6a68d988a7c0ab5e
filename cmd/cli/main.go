package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"leadscout-go-pipeline/internal/ai"
	"leadscout-go-pipeline/internal/config"
	"leadscout-go-pipeline/internal/crawler"
	"leadscout-go-pipeline/internal/ioformats"
	"leadscout-go-pipeline/internal/pipeline"
	"leadscout-go-pipeline/internal/psi"
	"leadscout-go-pipeline/internal/signals"
	"leadscout-go-pipeline/internal/snapshot"
	"leadscout-go-pipeline/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	var configPath string
	cfg := config.Default()

	root := &cobra.Command{
		Use:   "leadscout",
		Short: "Lead-generation signal pipeline for small-business websites",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file")

	root.AddCommand(analyzeCmd(&cfg), snapshotCmd(&cfg), batchCmd(&cfg))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient(cfg config.Config) *crawler.Client {
	return crawler.NewClient(cfg.FetchTimeout(), cfg.DialTimeout(), cfg.MaxBodyBytes)
}

func analyzeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <url>",
		Short: "Collect the signal record for one website",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collector := signals.NewCollector(newClient(*cfg), cfg.MaxExtraPages, cfg.CheckRobots, logger.New())
			rec, err := collector.Collect(context.Background(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	}
}

func snapshotCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <url>",
		Short: "Print the LLM token snapshot for one website",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder := snapshot.NewBuilder(newClient(*cfg), cfg.MaxExtraPages, cfg.MaxSnapshotChars, logger.New())
			snap := builder.Scrape(context.Background(), args[0])
			if !snap.OK {
				return fmt.Errorf("snapshot failed: %s", snap.Error)
			}
			fmt.Println(snap.Tokens)
			return nil
		},
	}
}

func batchCmd(cfg *config.Config) *cobra.Command {
	var in, out, crmOut string
	var withPSI, withScore bool

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run the full pipeline over a lead file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				return fmt.Errorf("missing --input")
			}
			leads, err := ioformats.ReadLeads(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			log := logger.New()
			client := newClient(*cfg)
			opts := pipeline.Options{
				Collector:    signals.NewCollector(client, cfg.MaxExtraPages, cfg.CheckRobots, log),
				Snapshots:    snapshot.NewBuilder(client, cfg.MaxExtraPages, cfg.MaxSnapshotChars, log),
				LeadInterval: cfg.LeadInterval(),
				Attempts:     cfg.RetryAttempts,
				RetryDelay:   cfg.RetryDelay(),
				PSIStrategy:  cfg.PSIStrategy,
				Log:          log,
			}
			if withPSI {
				opts.Perf = psi.NewClient(os.Getenv("LEADSCOUT_PSI_KEY"), cfg.FetchTimeout())
			}
			if withScore {
				provider, err := ai.NewProvider(cfg.AIProvider, cfg.AIModel)
				if err != nil {
					return err
				}
				opts.Provider = provider
			}

			results := pipeline.NewRunner(opts).Run(context.Background(), leads)

			w := os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := ioformats.WriteResultsNDJSON(w, results); err != nil {
				return err
			}
			if crmOut != "" {
				f, err := os.Create(crmOut)
				if err != nil {
					return fmt.Errorf("create crm output: %w", err)
				}
				defer f.Close()
				if err := ioformats.WriteCRMCSV(f, results); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "input", "", "lead file (csv with 'url' column or ndjson)")
	cmd.Flags().StringVar(&out, "output", "", "results NDJSON file (default stdout)")
	cmd.Flags().StringVar(&crmOut, "crm", "", "optional CRM CSV export file")
	cmd.Flags().BoolVar(&withPSI, "psi", false, "fetch PageSpeed metrics per lead")
	cmd.Flags().BoolVar(&withScore, "score", false, "score leads with the configured AI provider")
	return cmd
}
