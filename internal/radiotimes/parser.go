// SPDX-License-Identifier: GPL-3.0-or-later

package radiotimes

import (
	"fmt"
	"strconv"
	"strings"
)

// Date is a calendar date from the listing's DD/MM/YYYY field.
type Date struct {
	Year  int
	Month int
	Day   int
}

// TimeOfDay is a wall-clock time from an HH:MM field.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Record is one parsed listing line with fields coerced to typed
// values. It exists only between parsing and normalisation.
type Record struct {
	Title    string
	SubTitle string
	Episode  string
	Year     string
	Director string
	Cast     []string

	Premiere      bool
	Film          bool
	Repeat        bool
	Subtitles     bool
	Widescreen    bool
	NewSeries     bool
	DeafSigned    bool
	BlackAndWhite bool
	Choice        bool

	StarRating   string
	Certificate  string
	Genre        string
	Desc         string
	Date         Date
	Start        TimeOfDay
	Stop         TimeOfDay
	DurationMins string
}

// ParseRecord splits a tilde-delimited listing line into a Record. It
// fails with a MalformedRecordError when the field count is not exactly
// recordFields or a date/time field does not parse.
func ParseRecord(line string) (Record, error) {
	fields := strings.Split(line, "~")
	if len(fields) != recordFields {
		return Record{}, &MalformedRecordError{
			Line:   line,
			Reason: fmt.Sprintf("expected %d fields, got %d", recordFields, len(fields)),
		}
	}

	date, err := parseDate(fields[fieldDate])
	if err != nil {
		return Record{}, &MalformedRecordError{Line: line, Reason: err.Error()}
	}
	start, err := parseTimeOfDay(fields[fieldStart])
	if err != nil {
		return Record{}, &MalformedRecordError{Line: line, Reason: err.Error()}
	}
	stop, err := parseTimeOfDay(fields[fieldStop])
	if err != nil {
		return Record{}, &MalformedRecordError{Line: line, Reason: err.Error()}
	}

	return Record{
		Title:    fields[fieldTitle],
		SubTitle: fields[fieldSubTitle],
		Episode:  fields[fieldEpisode],
		Year:     fields[fieldYear],
		Director: fields[fieldDirector],
		Cast:     parseCast(fields[fieldCast]),

		Premiere:      fields[fieldPremiere] == "true",
		Film:          fields[fieldFilm] == "true",
		Repeat:        fields[fieldRepeat] == "true",
		Subtitles:     fields[fieldSubtitles] == "true",
		Widescreen:    fields[fieldWidescreen] == "true",
		NewSeries:     fields[fieldNewSeries] == "true",
		DeafSigned:    fields[fieldDeafSigned] == "true",
		BlackAndWhite: fields[fieldBlackAndWhite] == "true",
		Choice:        fields[fieldChoice] == "true",

		StarRating:   fields[fieldStarRating],
		Certificate:  fields[fieldCertificate],
		Genre:        fields[fieldGenre],
		Desc:         fields[fieldDesc],
		Date:         date,
		Start:        start,
		Stop:         stop,
		DurationMins: fields[fieldDurationMins],
	}, nil
}

// parseCast splits the cast field into display names. Entries are
// pipe-delimited when a pipe is present, comma-delimited otherwise; a
// character*actor pair renders as "Actor (Character)".
func parseCast(field string) []string {
	if field == "" {
		return nil
	}
	sep := ","
	if strings.Contains(field, "|") {
		sep = "|"
	}
	entries := strings.Split(field, sep)
	cast := make([]string, 0, len(entries))
	for _, entry := range entries {
		parts := strings.Split(entry, "*")
		if len(parts) == 1 {
			cast = append(cast, parts[0])
		} else {
			cast = append(cast, parts[1]+" ("+parts[0]+")")
		}
	}
	return cast
}

func parseDate(s string) (Date, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil ||
		month < 1 || month > 12 || day < 1 || day > 31 {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

func parseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q", s)
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}
