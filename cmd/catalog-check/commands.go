package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Castore1977/project-track/application/queries"
	"github.com/Castore1977/project-track/infrastructure/config"
	"github.com/Castore1977/project-track/infrastructure/di"
	pkgerrors "github.com/Castore1977/project-track/pkg/errors"

	"github.com/spf13/cobra"
)

type options struct {
	logLevel     string
	summaryLimit int
	asJSON       bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "catalog-check",
		Short: "Validate and inspect an engine catalog export",
		Long: `catalog-check loads an exported engine catalog through the same import
path as the server and reports on it without starting HTTP.

Examples:
  catalog-check validate engine-catalog.json
  catalog-check timeline engine-catalog.json --engine <engine-id>
  catalog-check diff engine-catalog.json --engine <engine-id> --version <version-id>`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "error", "Log level (debug, info, warn, error)")
	root.PersistentFlags().IntVar(&opts.summaryLimit, "summary-limit", 5, "Maximum change lines per timeline entry")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print results as JSON")

	root.AddCommand(newValidateCmd(opts))
	root.AddCommand(newTimelineCmd(opts))
	root.AddCommand(newDiffCmd(opts))
	return root
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a file is an importable catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := load(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}
			engines, versions := container.Catalog.Stats(cmd.Context())
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"valid":    true,
					"engines":  engines,
					"versions": versions,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid catalog, %d engines, %d versions\n", args[0], engines, versions)
			return nil
		},
	}
}

func newTimelineCmd(opts *options) *cobra.Command {
	var engineID string

	cmd := &cobra.Command{
		Use:   "timeline <file>",
		Short: "Print the version timeline, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := load(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}
			result, err := container.Timeline.Handle(cmd.Context(), queries.TimelineQuery{EngineID: engineID})
			if err != nil {
				return describe(err)
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printTimeline(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&engineID, "engine", "", "Only list versions of this engine")
	return cmd
}

func newDiffCmd(opts *options) *cobra.Command {
	var query queries.CompareVersionsQuery
	var mode string

	cmd := &cobra.Command{
		Use:   "diff <file>",
		Short: "Compare a version with its predecessor or another version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := load(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}
			query.Mode = queries.CompareMode(mode)
			result, err := container.Compare.Handle(cmd.Context(), query)
			if err != nil {
				return describe(err)
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printComparison(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&query.CurrentEngineID, "engine", "", "Engine of the current version")
	cmd.Flags().StringVar(&query.CurrentVersionID, "version", "", "Current version")
	cmd.Flags().StringVar(&query.PreviousEngineID, "previous-engine", "", "Engine of the previous version (defaults to --engine)")
	cmd.Flags().StringVar(&query.PreviousVersionID, "previous-version", "", "Previous version (defaults to the predecessor)")
	cmd.Flags().StringVar(&mode, "mode", string(queries.CompareModeDetailed), "summary or detailed")
	for _, name := range []string{"engine", "version"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	return cmd
}

// load wires a fresh container and imports path into it
func load(ctx context.Context, opts *options, path string) (*di.Container, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg := config.Defaults()
	cfg.LogLevel = opts.logLevel
	cfg.SummaryLimit = opts.summaryLimit
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := container.Catalog.ImportCatalogJSON(ctx, raw); err != nil {
		return nil, describe(err)
	}
	return container, nil
}

// describe expands a domain error with its details for terminal output
func describe(err error) error {
	domainErr := pkgerrors.AsDomainError(err)
	if domainErr == nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", domainErr.Message, domainErr.Code)
	if record, ok := domainErr.Details["record"]; ok {
		encoded, _ := json.Marshal(record)
		fmt.Fprintf(&b, "\n  record: %s", encoded)
	}
	return fmt.Errorf("%s", b.String())
}

func printTimeline(w io.Writer, result *queries.TimelineResult) {
	if result.TotalCount == 0 {
		fmt.Fprintln(w, "No versions.")
		return
	}
	for _, entry := range result.Entries {
		marker := ""
		if entry.IsLatest {
			marker = " (latest)"
		}
		fmt.Fprintf(w, "%s  %s v%d%s\n", entry.Timestamp, entry.EngineName, entry.VersionNumber, marker)
		if entry.ValidityDate != "" {
			fmt.Fprintf(w, "  valid from %s\n", entry.ValidityDate)
		}
		for _, line := range entry.Summary {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}
	fmt.Fprintf(w, "Total: %d versions\n", result.TotalCount)
}

func printComparison(w io.Writer, result *queries.CompareVersionsResult) {
	fmt.Fprintf(w, "%s v%d (%s) vs %s v%d (%s)\n",
		result.Current.EngineName, result.Current.VersionNumber, result.Current.DisplayDate,
		result.Previous.EngineName, result.Previous.VersionNumber, result.Previous.DisplayDate,
	)
	for _, line := range result.Summary {
		fmt.Fprintf(w, "  - %s\n", line)
	}
	for _, change := range result.Changes {
		for _, field := range change.Changes {
			fmt.Fprintf(w, "    %s.%s: %s -> %s\n", change.Name, field.Field, field.Before, field.After)
		}
	}
}

func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
