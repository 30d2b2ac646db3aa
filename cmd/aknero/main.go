package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jchronis/aknero/pkg/akn"
	"github.com/jchronis/aknero/pkg/batch"
	"github.com/jchronis/aknero/pkg/config"
	"github.com/jchronis/aknero/pkg/extract"
	"github.com/jchronis/aknero/pkg/textnorm"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "aknero",
		Short: "Greek court judgment to Akoma Ntoso converter",
		Long: `Aknero converts raw Greek court judgment texts into Akoma Ntoso
legal XML.

It extracts the structural regions of each judgment, resolves the
dates of legal interest, merges optional named-entity annotations and
writes one deterministic XML artifact per input, with per-file logs
and a batch report over the whole run.`,
		Version: version,
	}

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file when given, defaults otherwise.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// signalContext is cancelled on SIGINT or SIGTERM so a running batch stops
// dispatching and the report covers what completed.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func convertCmd() *cobra.Command {
	var (
		root       string
		configPath string
		pattern    string
		strategy   string
		workers    int
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "convert <authority> [year]",
		Short: "Convert an authority's judgments",
		Long: `Convert every judgment text under legal_texts/<authority>/<year>
into an Akoma Ntoso artifact under XML/, writing per-file logs under
logs/ and a batch report when done. Omitting the year converts every
year directory under the authority.

Example:
  aknero convert areios_pagos
  aknero convert areios_pagos 2024
  aknero convert ste 2023 --pattern 'A 1*' --workers 4`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.Workers = workers
			}
			year := ""
			if len(args) == 2 {
				year = args[1]
			}

			layout := batch.Layout{Root: root}
			tasks, err := batch.Enumerate(layout, cfg, args[0], year, pattern)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Println("No matching input files.")
				return nil
			}
			if strategy != "" {
				if strategy != "grammar" && strategy != "heuristic" {
					return fmt.Errorf("unknown strategy %q", strategy)
				}
				for i := range tasks {
					tasks[i].Profile.Strategy = strategy
				}
			}
			if dryRun {
				for _, task := range tasks {
					fmt.Println(task.Rel)
				}
				fmt.Printf("%d files would be converted\n", len(tasks))
				return nil
			}

			ctx, stop := signalContext()
			defer stop()

			runner := batch.NewRunner(layout, cfg)
			report, err := runner.Run(ctx, tasks)
			if report != nil {
				fmt.Print(batch.FormatBatchReport(report))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Archive root holding the mirrored trees")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob narrowing the input file names")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Override the profile extraction strategy (grammar or heuristic)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel workers (default: one per CPU)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the matching files without converting")
	return cmd
}

func previewCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "preview <authority> <file>",
		Short: "Convert a single file and print the XML to stdout",
		Long: `Convert one judgment text outside the archive layout and print the
resulting XML. Useful for inspecting extraction before a batch run.

Example:
  aknero preview areios_pagos 'A 123_2024.txt'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			profile, ok := cfg.Profiles[args[0]]
			if !ok {
				return fmt.Errorf("no profile for authority %q", args[0])
			}

			doc, err := textnorm.Load(args[1], args[0])
			if err != nil {
				return err
			}

			var extractor extract.Extractor
			if profile.Strategy == "heuristic" {
				extractor = extract.NewHeuristic()
			} else {
				extractor = extract.NewGrammar(nil, nil)
			}
			result, err := extractor.Extract(doc)
			if err != nil {
				return err
			}
			for _, d := range result.Diagnostics {
				fmt.Fprintf(os.Stderr, "%s: %s\n", d.Stage, d.Message)
			}

			skeleton := result.Skeleton
			if profile.Override {
				var diags []extract.Diagnostic
				skeleton, diags = extract.NewOverride().Apply(doc, skeleton)
				for _, d := range diags {
					fmt.Fprintf(os.Stderr, "%s: %s\n", d.Stage, d.Message)
				}
			}

			meta := akn.Meta{
				TextType: "judgment",
				Author:   profile.Author,
				Foreas:   profile.Foreas,
			}
			if number, year, err := extract.ParseFilename(doc.Filename); err == nil {
				meta.DecisionNumber = number
				meta.IssueYear = year
			}

			root, resolved := akn.NewAssembler().Assemble(akn.Input{
				Meta:     meta,
				Skeleton: skeleton,
			})
			for _, doi := range resolved {
				fmt.Fprintf(os.Stderr, "resolved %s=%s rule=%s\n", doi.Kind, doi.ISO, doi.Rule)
			}

			data, err := akn.Serialize(root)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	return cmd
}

func watchCmd() *cobra.Command {
	var (
		root       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "watch <authority> <year>",
		Short: "Convert new judgment files as they appear",
		Long: `Watch legal_texts/<authority>/<year> and convert each judgment text
as it is created or rewritten. Runs until interrupted.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			runner := batch.NewRunner(batch.Layout{Root: root}, cfg)
			err = runner.Watch(ctx, args[0], args[1])
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Archive root holding the mirrored trees")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	return cmd
}

func reportCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the report of the last batch run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout := batch.Layout{Root: root}
			report, err := batch.ReadReport(layout.ReportPath())
			if err != nil {
				return err
			}
			fmt.Print(batch.FormatBatchReport(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Archive root holding the mirrored trees")
	return cmd
}
