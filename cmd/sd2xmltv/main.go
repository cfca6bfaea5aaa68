// SPDX-License-Identifier: GPL-3.0-or-later

// sd2xmltv converts Schedules Direct listings into per-day XMLTV
// files.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/nomis/sd2xmltv/internal/config"
	"github.com/nomis/sd2xmltv/internal/fetch"
	applog "github.com/nomis/sd2xmltv/internal/log"
	"github.com/nomis/sd2xmltv/internal/schedulesdirect"
	"github.com/nomis/sd2xmltv/internal/xmltv"
)

const userAgent = "sa-sd2xmltv/1 (+https://github.com/nomis/sd2xmltv/)"

var version = "dev"

var (
	configPath string
	baseDir    string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sd2xmltv",
		Short:         "Convert Schedules Direct listings to XMLTV files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			applog.Configure(applog.Config{Level: logLevel, Service: "sd2xmltv"})
			return run(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config", "path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&baseDir, "dir", ".", "directory for output and state files")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")
	rootCmd.AddCommand(lineupsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger := applog.Base()
		logger.Error().Err(err).Msg("failed")
		os.Exit(1)
	}
}

// newClient authenticates a service client for the configured account.
// The returned cleanup closes the response cache.
func newClient(ctx context.Context, cfg *config.SchedulesDirect) (*schedulesdirect.Client, func(), error) {
	cache, err := fetch.OpenCache(filepath.Join(os.TempDir(), "sd2xmltv-http-cache.db"), fetch.DefaultCacheTTL)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := cache.Close(); err != nil {
			logger := applog.WithComponent("sd2xmltv")
			logger.Warn().Err(err).Msg("close cache")
		}
	}

	fetcher := fetch.NewClient(fetch.Options{UserAgent: userAgent, Cache: cache})
	client := schedulesdirect.NewClient(fetcher, "")
	if err := client.Authenticate(ctx, cfg.Login.Username, cfg.Login.Password); err != nil {
		cleanup()
		return nil, nil, err
	}
	return client, cleanup, nil
}

func run(ctx context.Context) error {
	logger := applog.WithComponent("sd2xmltv")

	cfg, err := config.LoadSchedulesDirect(configPath)
	if err != nil {
		return err
	}
	loc, err := cfg.Files.Location()
	if err != nil {
		return err
	}

	client, cleanup, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	lineups, err := client.Lineups(ctx)
	if err != nil {
		return err
	}
	indexes := make(map[string]*schedulesdirect.StationIndex, len(lineups))
	for _, l := range lineups {
		stations, raw, err := client.LineupStations(ctx, l.Lineup)
		if err != nil {
			return err
		}
		if err := writeLineupSnapshot(baseDir, l.Lineup, raw); err != nil {
			return err
		}
		indexes[l.Lineup] = schedulesdirect.NewStationIndex(l.Lineup, stations)
		logger.Info().
			Str(applog.FieldLineup, l.Lineup).
			Int(applog.FieldItems, len(stations)).
			Msg("lineup loaded")
	}

	var channels []xmltv.Channel
	for _, l := range cfg.Channels {
		for _, ch := range l.Channels {
			channels = append(channels, xmltv.Channel{ID: ch.ID, Name: ch.Name, Display: ch.Display})
		}
	}
	writer := xmltv.NewWriter(baseDir, schedulesdirect.SourceInfoName, channels, xmltv.Options{Location: loc})

	for _, l := range cfg.Channels {
		idx, ok := indexes[l.Lineup]
		if !ok {
			return fmt.Errorf("lineup %s is not on the account", l.Lineup)
		}
		for _, ch := range l.Channels {
			if err := convertChannel(ctx, client, idx, writer, ch, cfg.Files.StartHour, loc); err != nil {
				return err
			}
		}
	}
	return writer.Close()
}

func convertChannel(ctx context.Context, client *schedulesdirect.Client, idx *schedulesdirect.StationIndex, writer *xmltv.Writer, ch config.Channel, startHour int, loc *time.Location) error {
	logger := applog.WithComponent("sd2xmltv")

	stationID, err := idx.Resolve(ch.Name)
	if err != nil {
		return err
	}
	schedules, err := client.Schedules(ctx, ch.Name, stationID)
	if err != nil {
		return err
	}

	var airings []schedulesdirect.ScheduleProgram
	for _, s := range schedules {
		airings = append(airings, s.Programs...)
	}
	ids := make([]string, 0, len(airings))
	for _, a := range airings {
		ids = append(ids, a.ProgramID)
	}
	programs, err := client.Programs(ctx, ids)
	if err != nil {
		return err
	}

	started := time.Now()
	for _, a := range airings {
		prog, ok := programs[a.ProgramID]
		if !ok {
			return fmt.Errorf("channel %s: no programme data for %s", ch.Name, a.ProgramID)
		}
		day, p, err := schedulesdirect.Normalize(a, prog, startHour, loc)
		if err != nil {
			return fmt.Errorf("channel %s: %w", ch.Name, err)
		}
		if err := writer.Write(day, ch.ID, p); err != nil {
			return err
		}
	}
	logger.Info().
		Str(applog.FieldChannel, ch.Name).
		Int(applog.FieldItems, len(airings)).
		Str(applog.FieldRate, applog.ItemsRateString(len(airings), time.Since(started))).
		Msg("programmes written")
	return nil
}

// writeLineupSnapshot saves a lineup's raw station list, re-indented,
// next to the output files.
func writeLineupSnapshot(dir, lineup string, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("lineup %s: %w", lineup, err)
	}
	buf.WriteByte('\n')

	path := filepath.Join(dir, "channels_"+safeFilename(lineup))
	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write lineup snapshot: %w", err)
	}
	return nil
}

// safeFilename replaces everything outside word characters and hyphens
// with underscores.
func safeFilename(text string) string {
	out := []rune(text)
	for i, c := range out {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
