// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nomis/sd2xmltv/internal/config"
	applog "github.com/nomis/sd2xmltv/internal/log"
)

// lineupsCmd lists the account's lineups and optionally searches for,
// adds or removes one.
func lineupsCmd() *cobra.Command {
	var (
		add        string
		remove     string
		country    string
		postalcode string
	)

	cmd := &cobra.Command{
		Use:   "lineups",
		Short: "Manage the account's lineups",
		RunE: func(cmd *cobra.Command, args []string) error {
			applog.Configure(applog.Config{Level: logLevel, Service: "sd2xmltv"})

			// Login-only config: lineups are managed before any
			// channels are configured.
			cfg, err := config.LoadSchedulesDirectLogin(configPath)
			if err != nil {
				return err
			}
			client, cleanup, err := newClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			lineups, err := client.Lineups(ctx)
			if err != nil {
				return err
			}
			if err := printJSON(out, lineups); err != nil {
				return err
			}

			if country != "" && postalcode != "" {
				body, err := client.Headends(ctx, country, postalcode)
				if err != nil {
					return err
				}
				if err := printRawJSON(out, body); err != nil {
					return err
				}
			}
			if add != "" {
				body, err := client.AddLineup(ctx, add)
				if err != nil {
					return err
				}
				if err := printRawJSON(out, body); err != nil {
					return err
				}
			}
			if remove != "" {
				body, err := client.RemoveLineup(ctx, remove)
				if err != nil {
					return err
				}
				if err := printRawJSON(out, body); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&add, "add", "", "lineup to add to the account")
	cmd.Flags().StringVar(&remove, "remove", "", "lineup to remove from the account")
	cmd.Flags().StringVar(&country, "country", "", "country code for lineup search")
	cmd.Flags().StringVar(&postalcode, "postalcode", "", "postal code for lineup search")
	return cmd
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}

func printRawJSON(out io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		// Not all responses are JSON documents.
		_, err = fmt.Fprintf(out, "%s\n", raw)
		return err
	}
	_, err := fmt.Fprintf(out, "%s\n", buf.Bytes())
	return err
}
