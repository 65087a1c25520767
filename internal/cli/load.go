package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/locations/internal/app"
	"github.com/mesh-intelligence/locations/internal/logging"
	"github.com/mesh-intelligence/locations/pkg/types"
)

// Output formats of the load command.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type loadFlags struct {
	output  string
	metrics bool
}

func newLoadCmd(flags *rootFlags) *cobra.Command {
	lf := &loadFlags{}
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load place categories from KudaGo and print them",
		Long: "Fetch the place categories into a fresh in-memory store and print\n" +
			"what was stored. Nothing is kept after the command exits.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, flags, lf)
		},
	}
	cmd.Flags().StringVarP(&lf.output, "output", "o", outputText, "output format: text, json or yaml")
	cmd.Flags().BoolVar(&lf.metrics, "metrics", false, "print loader metrics after the categories")
	return cmd
}

func runLoad(cmd *cobra.Command, flags *rootFlags, lf *loadFlags) error {
	switch lf.output {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q", lf.output)
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}

	var opts []app.Option
	registry := prometheus.NewRegistry()
	if lf.metrics {
		opts = append(opts, app.WithMetrics(registry))
	}

	a, err := app.New(cfg, logger, opts...)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Loader.InitializeData(cmd.Context()); err != nil {
		return err
	}
	categories, err := a.Categories.List()
	if err != nil {
		return err
	}
	if err := printCategories(cmd, lf.output, categories); err != nil {
		return err
	}

	if lf.metrics {
		return printMetrics(cmd, registry)
	}
	return nil
}

func printCategories(cmd *cobra.Command, format string, categories []types.Category) error {
	out := cmd.OutOrStdout()
	switch format {
	case outputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(categories)
	case outputYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(categories); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSLUG\tNAME")
		for _, c := range categories {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Slug, c.Name)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		writef(cmd, "%d categories loaded\n", len(categories))
		return nil
	}
}

func printMetrics(cmd *cobra.Command, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	var b strings.Builder
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&b, mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	writef(cmd, "\n%s", b.String())
	return nil
}
