package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"music-tagger/internal/builder"
	"music-tagger/internal/database"
	"music-tagger/internal/identify"
	"music-tagger/internal/models"
	"music-tagger/internal/tags"
)

func init() {
	cmdRoot.AddCommand(cmdIdentify())
}

func cmdIdentify() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "identify <file|dir|name>...",
		Short:        "Identify audio files, or plain names, against the catalog sources",
		Long:         "Arguments that are directories are scanned for supported audio files. Arguments that are not paths are identified as names.",
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.logger.Sync() //nolint:errcheck

			locals, err := collectLocals(args, e.logger)
			if err != nil {
				return err
			}
			return e.identify(cmd, locals)
		},
	}
	addIdentifyFlags(cmd)
	return cmd
}

func addIdentifyFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("force", "f", false, "Identify again even when the registry has a confident match")
	cmd.Flags().IntP("workers", "w", 0, "Concurrent identifications (default from config)")
	cmd.Flags().Bool("no-registry", false, "Neither read nor write the identification registry")
}

// identify runs locals through the configured sources and prints one row per
// track.
func (e *env) identify(cmd *cobra.Command, locals []models.Track) error {
	if len(locals) == 0 {
		return errors.New("nothing to identify")
	}
	force, _ := cmd.Flags().GetBool("force")
	workers, _ := cmd.Flags().GetInt("workers")
	noRegistry, _ := cmd.Flags().GetBool("no-registry")
	if workers <= 0 {
		workers = e.cfg.Identify.Workers
	}

	var db *sql.DB
	if !noRegistry {
		var err error
		if db, err = database.Open(e.cfg.Registry.Path); err != nil {
			return err
		}
		defer db.Close()
	}

	runner := &identify.Runner{
		Config:  e.cfg.MatcherConfig(),
		Sources: e.sources(cmd.Context()),
		DB:      db,
		Logger:  e.logger,
		Force:   force,
	}
	if len(runner.Sources) == 0 {
		return errors.New("no sources enabled")
	}

	done := 0
	items, err := runner.Run(cmd.Context(), locals, workers, func(it identify.Item) {
		done++
		e.logger.Info("identified",
			zap.Int("done", done),
			zap.Int("total", len(locals)),
			zap.String("file", it.Record.OriginalFilename),
			zap.String("outcome", it.Record.Outcome))
	})
	fmt.Fprintln(cmd.OutOrStdout(), resultTable(items))
	return err
}

func resultTable(items []identify.Item) string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rec := it.Record
		if rec.OriginalFilename == "" {
			continue
		}
		match := strings.TrimPrefix(rec.Artists+" - "+rec.Name, " - ")
		if rec.Outcome == "NOT_FOUND" {
			match = ""
		}
		source := rec.Platform
		if it.Cached {
			source += " (cached)"
		}
		ratio := ""
		if rec.Ratio > 0 {
			ratio = fmt.Sprintf("%.2f", rec.Ratio)
		}
		rows = append(rows, []string{
			fmt.Sprint(it.Index + 1),
			rec.OriginalFilename,
			colorOutcome(rec.Outcome),
			match,
			ratio,
			source,
		})
	}
	return renderTable(
		[]string{"#", "Local", "Outcome", "Match", "Ratio", "Source"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

// collectLocals turns arguments into local tracks. Directories are walked
// for supported audio files and anything that is not a path is parsed as a
// name.
func collectLocals(args []string, logger *zap.Logger) ([]models.Track, error) {
	var locals []models.Track
	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			locals = append(locals, builder.Build(builder.Input{Filename: arg}))
			continue
		case err != nil:
			return nil, err
		}

		if !info.IsDir() {
			locals = append(locals, fileLocal(arg, logger))
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !tags.Supported(path) {
				return nil
			}
			locals = append(locals, fileLocal(path, logger))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", arg, err)
		}
	}
	return locals, nil
}

// fileLocal builds a track from the file's tags, or from its name alone
// when the tags cannot be read.
func fileLocal(path string, logger *zap.Logger) models.Track {
	in, err := tags.Input(path)
	if err != nil {
		logger.Warn("could not read tags", zap.String("path", path), zap.Error(err))
		name := filepath.Base(path)
		in = builder.Input{Filename: strings.TrimSuffix(name, filepath.Ext(name))}
	}
	return builder.Build(in)
}
