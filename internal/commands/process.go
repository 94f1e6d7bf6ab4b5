package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stmtbooks/stmtbooks/internal/config"
	"github.com/stmtbooks/stmtbooks/internal/importer"
	"github.com/stmtbooks/stmtbooks/internal/logger"
	"github.com/stmtbooks/stmtbooks/internal/pagetext"
	"github.com/stmtbooks/stmtbooks/internal/pipeline"
	"github.com/stmtbooks/stmtbooks/internal/report"
	"github.com/stmtbooks/stmtbooks/internal/runlog"
)

type processFlags struct {
	configPath string
	exts       []string
	workers    int
	logLevel   string
	logFormat  string
	archive    bool
}

func newProcessCommand() *cobra.Command {
	var flags processFlags

	cmd := &cobra.Command{
		Use:   "process <input-dir> <output-dir>",
		Short: "Extract, total and reconcile every statement in a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputDir, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving input path: %w", err)
			}
			outputDir, err := filepath.Abs(args[1])
			if err != nil {
				return fmt.Errorf("resolving output path: %w", err)
			}

			cfg, err := loadProcessConfig(cmd, inputDir, flags)
			if err != nil {
				return err
			}

			log, err := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			ctx := logger.WithContext(cmd.Context(), log)

			return runProcess(ctx, cmd.OutOrStdout(), inputDir, outputDir, cfg, flags.archive)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "config file (default <input-dir>/"+config.FileName+" if present)")
	cmd.Flags().StringSliceVar(&flags.exts, "ext", nil,
		"document extensions to process (supported: "+strings.Join(pagetext.DefaultRegistry().Extensions(), ", ")+")")
	cmd.Flags().IntVar(&flags.workers, "workers", 1, "pages read and matched in parallel")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", logger.FormatConsole, "log format (console or json)")
	cmd.Flags().BoolVar(&flags.archive, "archive", false, "move processed documents to <input-dir>/processed/")

	return cmd
}

// loadProcessConfig reads the config file and applies flags the user set.
func loadProcessConfig(cmd *cobra.Command, inputDir string, flags processFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flags.configPath != "" {
		cfg, err = config.Load(flags.configPath)
	} else {
		cfg, err = config.LoadOrDefault(filepath.Join(inputDir, config.FileName))
	}
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("ext") {
		cfg.Input.Extensions = flags.exts
	}
	if changed("workers") {
		cfg.Scan.Workers = flags.workers
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runProcess(ctx context.Context, out io.Writer, inputDir, outputDir string, cfg *config.Config, archive bool) error {
	log := logger.FromContext(ctx)

	files, err := importer.Scan(inputDir, cfg.Input.Extensions)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	runID := uuid.NewString()
	log = log.With().Str("run_id", runID).Logger()

	d := &documentRunner{
		out:       out,
		outputDir: outputDir,
		cfg:       cfg,
		runID:     runID,
		registry:  pagetext.DefaultRegistry(),
		pipeline:  pipeline.New(pipeline.WithWorkers(cfg.Scan.Workers), pipeline.WithLogger(log)),
		log:       log,
	}

	failed := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry, err := d.process(ctx, f)
		if err != nil {
			failed++
			entry.Status = runlog.StatusFailed
			entry.Error = err.Error()
			log.Error().Err(err).Str("document", f.Name).Msg("document failed")
		} else if archive {
			if err := importer.MarkProcessed(inputDir, f.Name); err != nil {
				log.Warn().Err(err).Str("document", f.Name).Msg("archiving failed")
			}
		}

		if cfg.Output.RunLog {
			if err := runlog.Append(outputDir, []runlog.Entry{entry}); err != nil {
				log.Warn().Err(err).Msg("writing run log failed")
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(files))
	}
	return nil
}

// documentRunner processes one document at a time and writes its artifacts.
type documentRunner struct {
	out       io.Writer
	outputDir string
	cfg       *config.Config
	runID     string
	registry  *pagetext.Registry
	pipeline  *pipeline.Pipeline
	log       zerolog.Logger
}

// process runs f through the pipeline and returns its run-log entry. The
// entry is filled in as far as processing got, even on error.
func (d *documentRunner) process(ctx context.Context, f importer.FileInfo) (runlog.Entry, error) {
	entry := runlog.Entry{
		Timestamp: time.Now().UTC(),
		RunID:     d.runID,
		Document:  f.Name,
	}

	res, err := d.scan(ctx, f)
	if err != nil {
		return entry, err
	}
	entry.Transactions = len(res.Scanned)

	switch {
	case res.ReconcileErr != nil:
		entry.Status = runlog.StatusSkipped
		entry.Error = res.ReconcileErr.Error()
	case res.Reconciliation.Mismatch != nil:
		entry.Status = runlog.StatusMismatch
		entry.Mismatch = res.Reconciliation.Mismatch.StringFixed(2)
	default:
		entry.Status = runlog.StatusOK
	}

	fmt.Fprintf(d.out, "== %s ==\n", f.Name)
	if err := report.WriteText(d.out, res); err != nil {
		return entry, fmt.Errorf("writing report: %w", err)
	}
	fmt.Fprintln(d.out)

	if err := d.writeArtifacts(f, res); err != nil {
		return entry, err
	}
	res.MarkReported()

	d.log.Info().
		Str("document", f.Name).
		Int("pages", len(res.Pages)).
		Int("transactions", len(res.Scanned)).
		Str("status", string(entry.Status)).
		Msg("document processed")
	return entry, nil
}

func (d *documentRunner) scan(ctx context.Context, f importer.FileInfo) (*pipeline.Result, error) {
	src, err := d.registry.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	res, err := d.pipeline.Run(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	return res, nil
}

func (d *documentRunner) writeArtifacts(f importer.FileInfo, res *pipeline.Result) error {
	base := filepath.Join(d.outputDir, f.Base())
	var errs []error

	if d.cfg.Output.JSON {
		rec := report.NewRecord(d.runID, f.Name, res, time.Now())
		errs = append(errs, writeFile(base+".json", func(w io.Writer) error {
			return report.WriteJSON(w, rec)
		}))
	}
	if d.cfg.Output.CSV {
		errs = append(errs, writeFile(base+".csv", func(w io.Writer) error {
			return report.WriteTransactions(w, report.Rows(res.Scanned))
		}))
	}
	if d.cfg.Output.ExtractedText {
		errs = append(errs, writeFile(base+"_extracted_text.txt", func(w io.Writer) error {
			_, err := io.WriteString(w, pagetext.JoinPages(res.PageTexts()))
			return err
		}))
	}
	return errors.Join(errs...)
}

// writeFile creates path and hands it to write, closing it afterwards.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	return nil
}
