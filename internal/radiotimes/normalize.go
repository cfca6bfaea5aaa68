// SPDX-License-Identifier: GPL-3.0-or-later

package radiotimes

import (
	"strings"
	"time"

	"github.com/nomis/sd2xmltv/internal/xmltv"
)

// Normalize maps a parsed record into its broadcast day and a canonical
// programme. Times are interpreted in loc; a programme whose stop time
// precedes its start time crosses midnight and has one day added to its
// stop instant.
func Normalize(rec Record, startHour int, loc *time.Location) (time.Time, xmltv.Programme) {
	start := time.Date(rec.Date.Year, time.Month(rec.Date.Month), rec.Date.Day,
		rec.Start.Hour, rec.Start.Minute, 0, 0, loc)
	stop := time.Date(rec.Date.Year, time.Month(rec.Date.Month), rec.Date.Day,
		rec.Stop.Hour, rec.Stop.Minute, 0, 0, loc)
	if stop.Before(start) {
		stop = stop.AddDate(0, 0, 1)
	}

	// The explicit film flag is authoritative; a genre merely naming
	// "Film" would duplicate it and is cleared. "No Genre" is the
	// provider's empty marker.
	genre := rec.Genre
	var categories []string
	if rec.Film {
		categories = append(categories, "Film")
		if strings.EqualFold(genre, "film") {
			genre = ""
		}
	}
	if strings.EqualFold(genre, "no genre") {
		genre = ""
	}
	if genre != "" {
		categories = append(categories, genre)
	}

	rating := rec.StarRating
	if rating != "" {
		rating += "/5"
	}

	var credits []xmltv.Credit
	if rec.Director != "" {
		credits = append(credits, xmltv.Credit{Role: "director", Name: rec.Director})
	}
	for _, actor := range rec.Cast {
		credits = append(credits, xmltv.Credit{Role: "actor", Name: actor})
	}

	p := xmltv.Programme{
		Title:        rec.Title,
		SubTitle:     rec.SubTitle,
		EpisodeLabel: rec.Episode,
		Desc:         rec.Desc,
		Credits:      credits,
		Year:         rec.Year,

		Premiere:      rec.Premiere,
		Film:          rec.Film,
		Repeat:        rec.Repeat,
		Subtitles:     rec.Subtitles,
		Widescreen:    rec.Widescreen,
		NewSeries:     rec.NewSeries,
		Signed:        rec.DeafSigned,
		BlackAndWhite: rec.BlackAndWhite,

		StarRating:  rating,
		Certificate: rec.Certificate,
		Genre:       genre,
		Categories:  categories,

		Start: start,
		Stop:  stop,
	}

	return xmltv.BroadcastDay(start, startHour), p
}
