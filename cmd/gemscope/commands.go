package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"gemscope/internal/app"
	"gemscope/internal/charts"
	"gemscope/internal/config"
	"gemscope/internal/dataprocessing"
	"gemscope/internal/exporter"
	"gemscope/internal/infrastructure"
	"gemscope/internal/services"
	"gemscope/internal/validation"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    config.AppName,
		Usage:   "Diamond dataset segment analysis",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", config.Version, config.Commit, config.BuildTime),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"GEMSCOPE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "dataset",
				Aliases: []string{"d"},
				Usage:   "Path to the diamonds CSV (overrides config)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error); overrides logging.level",
			},
		},

		Commands: []*cli.Command{
			summaryCommand(),
			describeCommand(),
			exportCommand(),
			chartsCommand(),
			serveCommand(),
		},
	}
}

// env is the configuration and logger shared by every command.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

// loadConfig reads --config when given and falls back to the usual lookup.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if ds := c.String("dataset"); ds != "" {
		cfg.Dataset.CSVPath = ds
	}
	return cfg, nil
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}

	// CLI logs go to stderr so stdout stays parseable
	logCfg := cfg.Logging
	logCfg.Output = "console"
	logger, err := infrastructure.NewLogger(logCfg, c.App.ErrWriter)
	if err != nil {
		return nil, err
	}
	// one trace ID per invocation ties the run's log lines together
	c.Context = infrastructure.EnsureTraceID(c.Context)
	return &env{cfg: cfg, logger: logger}, nil
}

// analysis checks the dataset and returns a service over it.
func (e *env) analysis() (*services.AnalysisService, error) {
	if err := validation.NewFileValidator(e.logger).ValidateDataset(e.cfg.Dataset.CSVPath, dataprocessing.RequiredColumns()); err != nil {
		return nil, err
	}
	return services.NewAnalysisService(e.cfg.Dataset, dataprocessing.CriteriaFromConfig(e.cfg.Analysis), nil, nil, e.logger), nil
}

// outputDir resolves --out and makes sure it is writable.
func (e *env) outputDir(c *cli.Context) (string, error) {
	out := c.String("out")
	if out == "" {
		out = e.cfg.Dataset.ExportDir
	}
	if err := validation.NewFileValidator(e.logger).ValidateOutputDirectory(out); err != nil {
		return "", err
	}
	return out, nil
}

// =============================================================================
// SUMMARY
// =============================================================================

func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Print stage counts and aggregates",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format (text, json)",
			},
		},
		Action: runSummary,
	}
}

func runSummary(c *cli.Context) error {
	format := strings.ToLower(c.String("format"))
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}

	e, err := setup(c)
	if err != nil {
		return err
	}

	svc, err := e.analysis()
	if err != nil {
		return err
	}
	summary, err := svc.Summary(c.Context)
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	return writeSummaryText(c.App.Writer, summary)
}

func writeSummaryText(w io.Writer, s *services.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Dataset\t%s\n\n", s.Dataset)
	fmt.Fprintln(tw, "STAGE\tROWS")
	for _, st := range s.Stages {
		fmt.Fprintf(tw, "%s\t%d\n", st.Stage, st.Rows)
	}

	for _, a := range s.Aggregates.List() {
		fmt.Fprintf(tw, "\n%s: %s by %s\n", a.Subset, a.Metric, a.Field)
		for _, k := range a.Keys() {
			if a.Metric == dataprocessing.MetricMeanPrice {
				fmt.Fprintf(tw, "  %s\t%.2f\n", k, a.Values[k])
			} else {
				fmt.Fprintf(tw, "  %s\t%.0f\n", k, a.Values[k])
			}
		}
	}

	if s.Regression != nil {
		fmt.Fprintf(tw, "\nprice = %.2f + %.2f * carat\tr2=%.3f n=%d\n",
			s.Regression.Intercept, s.Regression.Slope, s.Regression.R2, s.Regression.N)
	}
	return tw.Flush()
}

// =============================================================================
// DESCRIBE
// =============================================================================

func describeCommand() *cli.Command {
	return &cli.Command{
		Name:  "describe",
		Usage: "Print descriptive statistics of a subset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "subset",
				Aliases: []string{"s"},
				Value:   dataprocessing.SubsetSegment,
				Usage:   "Subset (" + strings.Join(dataprocessing.SubsetNames(), ", ") + ")",
			},
		},
		Action: runDescribe,
	}
}

func runDescribe(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	svc, err := e.analysis()
	if err != nil {
		return err
	}
	table, err := svc.Describe(c.Context, c.String("subset"))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "count=%d\t\n", table.Count)
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(table.Columns, "\t"))
	for _, row := range table.Rows {
		cells := make([]string, len(row.Values))
		for i, v := range row.Values {
			cells[i] = fmt.Sprintf("%.2f", v)
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", row.Stat, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// =============================================================================
// EXPORT
// =============================================================================

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the subsets and aggregates to disk",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "csv",
				Usage:   "Output format (csv, xlsx)",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory (defaults to dataset.export_dir)",
			},
		},
		Action: runExport,
	}
}

func runExport(c *cli.Context) error {
	format := strings.ToLower(c.String("format"))
	if format != "csv" && format != "xlsx" {
		return fmt.Errorf("unknown format %q (want csv or xlsx)", format)
	}

	e, err := setup(c)
	if err != nil {
		return err
	}
	out, err := e.outputDir(c)
	if err != nil {
		return err
	}
	svc, err := e.analysis()
	if err != nil {
		return err
	}
	res, err := svc.Run(c.Context)
	if err != nil {
		return err
	}

	if format == "xlsx" {
		path := filepath.Join(out, "gemscope.xlsx")
		if err := exporter.NewWorkbookWriter(e.logger).WriteFile(path, res); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, path)
		return nil
	}

	writer := exporter.NewCSVWriter(out, e.logger)
	for _, name := range dataprocessing.SubsetNames() {
		records, _ := res.Subset(name)
		path, err := writer.ExportSubset(name, records)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, path)
	}

	path := filepath.Join(out, "aggregates.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := writer.WriteAggregates(f, res); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, path)
	return nil
}

// =============================================================================
// CHARTS
// =============================================================================

func chartsCommand() *cli.Command {
	return &cli.Command{
		Name:  "charts",
		Usage: "Render the dashboard panels to image files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   string(charts.FormatPNG),
				Usage:   "Image format (svg, png)",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory (defaults to dataset.export_dir)",
			},
		},
		Action: runCharts,
	}
}

func runCharts(c *cli.Context) error {
	format, err := charts.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	e, err := setup(c)
	if err != nil {
		return err
	}
	out, err := e.outputDir(c)
	if err != nil {
		return err
	}
	svc, err := e.analysis()
	if err != nil {
		return err
	}
	res, err := svc.Run(c.Context)
	if err != nil {
		return err
	}

	images, err := charts.NewRenderer(e.cfg.Charts, e.logger).RenderDashboard(c.Context, format, res)
	if err != nil {
		return err
	}

	for _, img := range images {
		path := filepath.Join(out, fmt.Sprintf("%s.%s", img.Panel, img.Format))
		if err := os.WriteFile(path, img.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintln(c.App.Writer, path)
	}
	return nil
}

// =============================================================================
// SERVE
// =============================================================================

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web dashboard and API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides config)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if port := c.Int("port"); port > 0 {
				cfg.Server.Port = port
			}

			application, err := app.NewApplication(cfg, nil)
			if err != nil {
				return err
			}
			return application.Run()
		},
	}
}
