// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads and validates the YAML configuration files for
// the listing converters.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig marks configuration files that parse but fail
// validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// DefaultStartHour is the hour before which a programme belongs to the
// previous broadcast day.
const DefaultStartHour = 6

// Channel selects one source channel for output. Display overrides
// Name in the output channel declaration when set.
type Channel struct {
	Name    string `yaml:"name"`
	ID      string `yaml:"id"`
	Display string `yaml:"disp"`
}

// Files controls output bucketing.
type Files struct {
	StartHour int    `yaml:"start_hour"`
	Timezone  string `yaml:"timezone"`
}

// Location resolves the configured timezone, defaulting to the local
// one.
func (f Files) Location() (*time.Location, error) {
	if f.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone: %v", ErrInvalidConfig, err)
	}
	return loc, nil
}

// Login holds service account credentials.
type Login struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// RadioTimes is the configuration for the legacy feed converter.
type RadioTimes struct {
	Files    Files     `yaml:"files"`
	Channels []Channel `yaml:"channels"`
}

// SchedulesDirect is the configuration for the JSON service converter.
type SchedulesDirect struct {
	Files    Files          `yaml:"files"`
	Login    Login          `yaml:"login"`
	Channels LineupChannels `yaml:"channels"`
}

// Lineup groups the selected channels of one lineup.
type Lineup struct {
	Lineup   string
	Channels []Channel
}

// LineupChannels preserves the file's lineup order, which fixes the
// order of channel declarations in the output.
type LineupChannels []Lineup

func (lc *LineupChannels) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: channels must be a mapping of lineups", node.Line)
	}
	out := make(LineupChannels, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var l Lineup
		if err := node.Content[i].Decode(&l.Lineup); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&l.Channels); err != nil {
			return err
		}
		out = append(out, l)
	}
	*lc = out
	return nil
}

func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func validateChannels(channels []Channel) error {
	if len(channels) == 0 {
		return fmt.Errorf("%w: no channels configured", ErrInvalidConfig)
	}
	for i, ch := range channels {
		if ch.Name == "" {
			return fmt.Errorf("%w: channel %d: name is required", ErrInvalidConfig, i)
		}
		if ch.ID == "" {
			return fmt.Errorf("%w: channel %q: id is required", ErrInvalidConfig, ch.Name)
		}
	}
	return nil
}

// LoadRadioTimes reads and validates a legacy feed configuration. An
// absent start_hour defaults to DefaultStartHour; an explicit zero is
// kept.
func LoadRadioTimes(path string) (*RadioTimes, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is the operator's config file
	if err != nil {
		return nil, err
	}
	cfg := &RadioTimes{Files: Files{StartHour: DefaultStartHour}}
	if err := decodeStrict(data, cfg); err != nil {
		return nil, err
	}
	if err := validateChannels(cfg.Channels); err != nil {
		return nil, err
	}
	if _, err := cfg.Files.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadSchedulesDirect reads and validates a YAML service configuration
// for a conversion run, which needs at least one configured channel.
func LoadSchedulesDirect(path string) (*SchedulesDirect, error) {
	cfg, err := LoadSchedulesDirectLogin(path)
	if err != nil {
		return nil, err
	}
	if len(cfg.Channels) == 0 {
		return nil, fmt.Errorf("%w: no channels configured", ErrInvalidConfig)
	}
	for _, l := range cfg.Channels {
		if err := validateChannels(l.Channels); err != nil {
			return nil, fmt.Errorf("lineup %s: %w", l.Lineup, err)
		}
	}
	return cfg, nil
}

// LoadSchedulesDirectLogin reads a YAML service configuration but only
// requires the login block. Lineup administration runs before any
// channels are configured, so it must accept a login-only file.
func LoadSchedulesDirectLogin(path string) (*SchedulesDirect, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is the operator's config file
	if err != nil {
		return nil, err
	}
	cfg := &SchedulesDirect{Files: Files{StartHour: DefaultStartHour}}
	if err := decodeStrict(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Login.Username == "" || cfg.Login.Password == "" {
		return nil, fmt.Errorf("%w: login username and password are required", ErrInvalidConfig)
	}
	if _, err := cfg.Files.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}
