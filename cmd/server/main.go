package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hrconsole/internal/app/server"
	"hrconsole/internal/domain/entitystore"
	"hrconsole/internal/domain/exports"
	"hrconsole/internal/domain/importer"
	"hrconsole/internal/domain/matrix"
	"hrconsole/internal/platform/apiclient"
	"hrconsole/internal/platform/config"
	"hrconsole/internal/platform/db"
	"hrconsole/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hrconsole",
		Short:        "Skills and certificates console",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newExportCmd(), newImportCmd())
	return root
}

// setup loads the configuration and installs the global logger.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	logger, err := logging.New(cfg.Environment)
	if err != nil {
		return cfg, nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return cfg, logger, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := server.New(ctx, cfg, logger)
			if err != nil {
				logger.Error("startup failed", zap.Error(err))
				return err
			}
			defer app.Close()
			return app.Run(ctx)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if err := cfg.Validate(); err != nil {
				return err
			}
			pool, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()
			applied, err := db.Migrate(cmd.Context(), pool, cfg.MigrationsDir, logger)
			if err != nil {
				return err
			}
			logger.Info("migrations applied", zap.Strings("versions", applied))
			return nil
		},
	}
}

type exportOptions struct {
	kind        string
	format      string
	out         string
	filtersFile string
	collapse    []string
}

// newExportCmd renders a matrix export straight from the REST backend,
// without a running server.
func newExportCmd() *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the skill or certificate matrix from the backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if err := cfg.ValidateRemote(); err != nil {
				return err
			}
			client := apiclient.New(cfg.BackendURL, apiclient.StaticToken(cfg.BackendToken), cfg.LoadTimeout, logger)
			return runExport(cmd.Context(), entitystore.NewLoader(client, logger, cfg.LoadTimeout), opts, time.Now(), logger)
		},
	}
	cmd.Flags().StringVar(&opts.kind, "kind", string(matrix.KindSkills), "matrix to export: skills or certificates")
	cmd.Flags().StringVar(&opts.format, "format", exports.FormatXLSX, "output format: xlsx or pdf")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file; defaults to the dated export name")
	cmd.Flags().StringVar(&opts.filtersFile, "filters", "", "JSON file holding the filter state")
	cmd.Flags().StringSliceVar(&opts.collapse, "collapse", nil, "category groups to collapse")
	return cmd
}

type snapshotLoader interface {
	Load(ctx context.Context) (entitystore.Snapshot, entitystore.Diagnostics)
}

func runExport(ctx context.Context, loader snapshotLoader, opts exportOptions, now time.Time, logger *zap.Logger) error {
	kind := matrix.Kind(opts.kind)
	if kind != matrix.KindSkills && kind != matrix.KindCertificates {
		return fmt.Errorf("unknown kind %q", opts.kind)
	}
	format, err := exports.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	var state matrix.FilterState
	if opts.filtersFile != "" {
		raw, err := os.ReadFile(opts.filtersFile)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &state); err != nil {
			return fmt.Errorf("parse filters: %w", err)
		}
	}
	collapse := matrix.Collapse{}
	for _, name := range opts.collapse {
		collapse[name] = true
	}

	snap, diag := loader.Load(ctx)
	if !diag.OK() {
		for source, msg := range diag.Messages() {
			logger.Warn("source failed to load", zap.String("source", source), zap.String("error", msg))
		}
	}
	table := snap.ExportTable(kind, state, collapse)

	path := opts.out
	if path == "" {
		path = exports.FileName(kind, format, now)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := exports.Write(f, format, kind, table); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("export written", zap.String("path", path), zap.Int("rows", len(table.Rows)))
	return nil
}

// newImportCmd runs a bulk skills import against the REST backend.
func newImportCmd() *cobra.Command {
	var analyze bool
	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Bulk import employee skills into the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if err := cfg.ValidateRemote(); err != nil {
				return err
			}
			client := apiclient.New(cfg.BackendURL, apiclient.StaticToken(cfg.BackendToken), cfg.LoadTimeout, logger)
			imp := importer.New(apiclient.NewCatalog(client), nil, logger)
			return runImport(cmd.Context(), imp, args[0], analyze, cmd.OutOrStdout(), logger)
		},
	}
	cmd.Flags().BoolVar(&analyze, "analyze", false, "report what the import would do without writing")
	return cmd
}

// runImport analyzes or commits the workbook at path and prints the outcome
// as JSON.
func runImport(ctx context.Context, imp *importer.Importer, path string, analyze bool, w io.Writer, logger *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var out any
	if analyze {
		out, err = imp.Analyze(ctx, f)
	} else {
		out, err = imp.Commit(ctx, f)
	}
	if err != nil {
		return fmt.Errorf("import %s: %w", filepath.Base(path), err)
	}
	logger.Info("import finished", zap.String("path", path), zap.Bool("analyze", analyze))
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
