// SPDX-License-Identifier: GPL-3.0-or-later

// rt2xmltv converts the Radio Times XMLTV feed into per-day XMLTV
// files.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
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
	"github.com/nomis/sd2xmltv/internal/radiotimes"
	"github.com/nomis/sd2xmltv/internal/xmltv"
)

const userAgent = "rt2xmltv/1 (+https://github.com/lp0/rt2xmltv/)"

var version = "dev"

func main() {
	var (
		configPath string
		baseDir    string
		logLevel   string
	)

	rootCmd := &cobra.Command{
		Use:           "rt2xmltv",
		Short:         "Convert Radio Times listings to XMLTV files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			applog.Configure(applog.Config{Level: logLevel, Service: "rt2xmltv"})
			return run(cmd.Context(), configPath, baseDir)
		},
	}
	rootCmd.Flags().StringVar(&configPath, "config", "config", "path to the configuration file")
	rootCmd.Flags().StringVar(&baseDir, "dir", ".", "directory for output and state files")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger := applog.Base()
		logger.Error().Err(err).Msg("failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, baseDir string) error {
	logger := applog.WithComponent("rt2xmltv")

	cfg, err := config.LoadRadioTimes(configPath)
	if err != nil {
		return err
	}
	loc, err := cfg.Files.Location()
	if err != nil {
		return err
	}

	cache, err := fetch.OpenCache(filepath.Join(baseDir, ".http-cache.db"), fetch.DefaultCacheTTL)
	if err != nil {
		return err
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Warn().Err(err).Msg("close cache")
		}
	}()

	fetcher := fetch.NewClient(fetch.Options{UserAgent: userAgent, Cache: cache})
	if err := fetcher.LoadRobots(ctx, radiotimes.BaseURL); err != nil {
		// The feed works without one; disallow rules only apply when
		// the file is present.
		logger.Debug().Err(err).Msg("no robots.txt")
	}

	client := radiotimes.NewClient(fetcher, "")
	licences := radiotimes.NewLicenceStore(baseDir)

	channelData, err := client.ChannelList(ctx)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(filepath.Join(baseDir, "channels.dat"), []byte(channelData), 0o644); err != nil {
		return fmt.Errorf("write channel list: %w", err)
	}

	channelLines, err := listingLines(channelData, licences, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	lineup, err := radiotimes.ParseLineup(channelLines)
	if err != nil {
		return err
	}
	logger.Info().Int(applog.FieldItems, lineup.Len()).Msg("channel list loaded")

	channels := make([]xmltv.Channel, 0, len(cfg.Channels))
	for _, ch := range cfg.Channels {
		channels = append(channels, xmltv.Channel{ID: ch.ID, Name: ch.Name, Display: ch.Display})
	}

	writer := xmltv.NewWriter(baseDir, radiotimes.SourceInfoName, channels, xmltv.Options{Location: loc})

	for _, ch := range cfg.Channels {
		if err := convertChannel(ctx, client, lineup, licences, writer, ch, cfg.Files.StartHour, loc); err != nil {
			return err
		}
	}
	return writer.Close()
}

func convertChannel(ctx context.Context, client *radiotimes.Client, lineup *radiotimes.Lineup, licences *radiotimes.LicenceStore, writer *xmltv.Writer, ch config.Channel, startHour int, loc *time.Location) error {
	logger := applog.WithComponent("rt2xmltv")

	feedID, err := lineup.Resolve(ch.Name)
	if err != nil {
		return err
	}
	data, err := client.Listings(ctx, feedID, ch.Name)
	if err != nil {
		return err
	}
	lines, err := listingLines(data, licences, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	started := time.Now()
	for _, line := range lines {
		rec, err := radiotimes.ParseRecord(line)
		if err != nil {
			return fmt.Errorf("channel %s: %w", ch.Name, err)
		}
		day, p := radiotimes.Normalize(rec, startHour, loc)
		if err := writer.Write(day, ch.ID, p); err != nil {
			return err
		}
	}
	logger.Info().
		Str(applog.FieldChannel, ch.Name).
		Int(applog.FieldItems, len(lines)).
		Str(applog.FieldRate, applog.ItemsRateString(len(lines), time.Since(started))).
		Msg("programmes written")
	return nil
}

// listingLines strips the licence preamble from a feed response,
// prompting for acceptance the first time a licence message is seen.
// A declined licence yields no lines.
func listingLines(data string, licences *radiotimes.LicenceStore, in io.Reader, out io.Writer) ([]string, error) {
	licence, lines := radiotimes.SplitListing(data)
	if licence == "" {
		return lines, nil
	}
	ok, err := promptLicence(licences, licence, in, out)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return lines, nil
}

func promptLicence(licences *radiotimes.LicenceStore, message string, in io.Reader, out io.Writer) (bool, error) {
	accepted, err := licences.Accepted(message)
	if err != nil {
		return false, err
	}
	if accepted {
		return true, nil
	}

	fmt.Fprintf(out, "Radio Times EULA\n\n%s\n\nAccept? [Y/n] ", message)
	resp, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch trimNewline(resp) {
	case "", "Y", "y":
		if err := licences.Accept(message); err != nil {
			return false, err
		}
		return true, nil
	case "N", "n":
		return false, nil
	default:
		fmt.Fprintln(out, "Invalid response")
		return false, nil
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
