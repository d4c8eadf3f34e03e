// Package cli wires the parser, the sqlite index and the osu! API client
// into the osuparse command.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/eltrufas/osuparse"
	"github.com/eltrufas/osuparse/internal/config"
	"github.com/eltrufas/osuparse/internal/osuapi"
	"github.com/eltrufas/osuparse/internal/store"
	"github.com/eltrufas/osuparse/internal/worker"
)

// Execute runs the CLI.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "osuparse",
		Short: ".osu beatmap parsing tool",
	}

	rootCmd.AddCommand(dumpCmd())
	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(fetchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file.osu>",
		Short: "Parse one .osu file and print the decoded beatmap as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0])
		},
	}
}

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index <dir>",
		Short: "Parse every .osu file under a directory into the sqlite index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(args[0])
		},
	}
}

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <beatmapset-id>",
		Short: "Download a beatmapset and parse every difficulty in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("beatmapset id must be numeric: %q", args[0])
			}
			outDir, _ := cmd.Flags().GetString("out")
			return runFetch(setID, outDir)
		},
	}
	cmd.Flags().String("out", "", "Directory to write the downloaded .osu files to")
	return cmd
}

func runDump(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	bm, diags, err := osuparse.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for _, d := range diags {
		log.Warn().Str("file", path).Msg(d.String())
	}

	out, err := json.MarshalIndent(bm, "", "\t")
	if err != nil {
		return fmt.Errorf("encode beatmap: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runIndex(dir string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	paths, err := findOsuFiles(dir)
	if err != nil {
		return err
	}
	log.Info().Int("files", len(paths)).Str("dir", dir).Msg("Indexing beatmaps")

	type parsed struct {
		bm    *osuparse.Beatmap
		diags []osuparse.Diagnostic
	}
	pool := worker.NewPool[string, parsed](cfg.WorkerCount,
		func(ctx context.Context, path string) (parsed, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return parsed{}, err
			}
			bm, diags, err := osuparse.Parse(string(data))
			return parsed{bm: bm, diags: diags}, err
		},
	)
	results := pool.Execute(ctx, paths)

	indexed, failed := 0, 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		bm := res.Result.bm
		rec := store.Record{
			BeatmapID:     bm.Metadata.BeatmapID,
			SetID:         bm.Metadata.BeatmapSetID,
			Title:         bm.Metadata.Title,
			Artist:        bm.Metadata.Artist,
			Creator:       bm.Metadata.Creator,
			Version:       bm.Metadata.Version,
			Mode:          int(bm.General.Mode),
			FormatVersion: bm.Version,
			HitObjects:    len(bm.HitObjects),
			Diagnostics:   len(res.Result.diags),
			Path:          res.Input,
		}
		if err := db.Put(ctx, rec); err != nil {
			log.Error().Err(err).Str("file", res.Input).Msg("Index write failed")
			failed++
			continue
		}
		indexed++
	}

	log.Info().Int("indexed", indexed).Int("failed", failed).Msg("Indexing complete")
	return nil
}

func runFetch(setID int, outDir string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	client, err := osuapi.NewClient(ctx, cfg.ClientID, cfg.ClientSecret, cfg.OsuSession)
	if err != nil {
		return err
	}
	defer client.Close()

	files, err := client.DownloadBeatmapset(ctx, setID)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		bm, diags, err := osuparse.Parse(string(files[name]))
		if err != nil {
			log.Error().Err(err).Str("file", name).Msg("Parse failed")
			continue
		}
		log.Info().
			Str("file", name).
			Str("version", bm.Metadata.Version).
			Int("hit_objects", len(bm.HitObjects)).
			Int("timing_points", len(bm.TimingPoints)).
			Int("diagnostics", len(diags)).
			Msg("Parsed difficulty")

		if outDir != "" {
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if err := os.WriteFile(filepath.Join(outDir, name), files[name], 0o644); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
		}
	}
	return nil
}

// findOsuFiles mirrors the directory walk the indexer expects: any depth,
// case-insensitive .osu extension, sorted for deterministic runs.
func findOsuFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Walk error")
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".osu") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// setupContext cancels on SIGINT/SIGTERM.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}
