// SPDX-License-Identifier: GPL-3.0-or-later

// Package xmltv turns canonical programme values into per-broadcast-day
// XMLTV documents. It performs no network I/O; source-format packages
// normalise provider records into Programme values and feed them to a
// Writer.
package xmltv

import "time"

// Channel identifies a logical broadcast channel. ID is the identifier
// used in the output document, Name the provider's listing key and
// Display the optional user-facing label (defaults to Name).
type Channel struct {
	ID      string
	Name    string
	Display string
}

// DisplayName returns the user-facing label for the channel.
func (c Channel) DisplayName() string {
	if c.Display != "" {
		return c.Display
	}
	return c.Name
}

// Credit is one entry of a programme's credits block, e.g. ("actor",
// "Sigourney Weaver (Ripley)"). Role must be an XMLTV credits element
// name ("director", "actor", "presenter", ...).
type Credit struct {
	Role string
	Name string
}

// Rating is one content rating, e.g. {"BBFC", "15"}.
type Rating struct {
	System string
	Value  string
}

// Programme is the canonical output unit produced by a source-format
// normaliser and consumed exactly once by a Writer. Stop is always after
// Start; a programme crossing midnight has one day added to Stop.
//
// Credits are ordered (legacy: director first, then actors). Categories
// hold the already-disambiguated category values in output order,
// including the film marker and genre where applicable; the Film, Genre
// and Certificate fields retain the underlying values for callers that
// need them. Repeat, Signed and Choice are parsed from the legacy format
// but have no XMLTV element and are never emitted.
type Programme struct {
	Title        string
	SubTitle     string
	EpisodeLabel string
	Desc         string
	Credits      []Credit
	Year         string

	Premiere      bool
	Film          bool
	Repeat        bool
	Subtitles     bool
	Widescreen    bool
	NewSeries     bool
	Signed        bool
	BlackAndWhite bool

	StarRating  string
	Certificate string
	Genre       string
	Ratings     []Rating
	Categories  []string

	Start time.Time
	Stop  time.Time
}

// BroadcastDay returns the logical day the programme starting at start
// belongs to: the calendar date of start, shifted back one day when the
// start hour is below startHour.
func BroadcastDay(start time.Time, startHour int) time.Time {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	if start.Hour() < startHour {
		day = day.AddDate(0, 0, -1)
	}
	return day
}
