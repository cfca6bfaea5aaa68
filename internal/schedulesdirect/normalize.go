// SPDX-License-Identifier: GPL-3.0-or-later

package schedulesdirect

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nomis/sd2xmltv/internal/xmltv"
)

const airDateTimeLayout = "2006-01-02T15:04:05Z"

// creditRoles is the XMLTV credits vocabulary; entries mapping outside
// it are dropped.
var creditRoles = map[string]struct{}{
	"director": {}, "actor": {}, "writer": {}, "adapter": {},
	"producer": {}, "composer": {}, "editor": {}, "presenter": {},
	"commentator": {}, "guest": {},
}

func mapRole(role string) string {
	switch role {
	case "voice":
		return "actor"
	case "host", "anchor":
		return "presenter"
	case "guest", "contestant":
		return "guest"
	}
	return role
}

// credits merges cast and crew, sorted by (billingOrder, role, name)
// for a deterministic order, with roles lower-cased and mapped through
// the fixed role table.
func credits(prog Program) []xmltv.Credit {
	members := make([]Member, 0, len(prog.Cast)+len(prog.Crew))
	members = append(members, prog.Cast...)
	members = append(members, prog.Crew...)
	sort.SliceStable(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if a.BillingOrder != b.BillingOrder {
			return a.BillingOrder < b.BillingOrder
		}
		if a.Role != b.Role {
			return a.Role < b.Role
		}
		return a.Name < b.Name
	})

	var out []xmltv.Credit
	for _, m := range members {
		role := mapRole(strings.ToLower(m.Role))
		if _, ok := creditRoles[role]; !ok {
			continue
		}
		name := m.Name
		if m.CharacterName != "" {
			name += " (" + m.CharacterName + ")"
		}
		out = append(out, xmltv.Credit{Role: role, Name: name})
	}
	return out
}

// description picks the preferred long description: en-GB first, then
// en, then source order.
func description(prog Program) string {
	if prog.Descriptions == nil || len(prog.Descriptions.Description1000) == 0 {
		return ""
	}
	rank := func(lang string) int {
		switch lang {
		case "en-GB":
			return -2
		case "en":
			return -1
		}
		return 0
	}
	descs := make([]Description, len(prog.Descriptions.Description1000))
	copy(descs, prog.Descriptions.Description1000)
	sort.SliceStable(descs, func(i, j int) bool {
		return rank(descs[i].Language) < rank(descs[j].Language)
	})
	return descs[0].Description
}

func isFilm(prog Program) bool {
	showType := strings.ToLower(prog.ShowType)
	return prog.EntityType == "Movie" ||
		strings.Contains(showType, "film") ||
		strings.Contains(showType, "movie")
}

// episodeNumbering scans the metadata blocks for season/episode
// numbering, returning the composed subtitle parts and whether any
// block marks the first episode of a season.
func episodeNumbering(prog Program) (parts []string, newSeries bool) {
	for _, md := range prog.Metadata {
		keys := make([]string, 0, len(md))
		for k := range md {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			mdv := md[k]
			part := fmt.Sprintf("s%d", mdv.Season)
			if mdv.TotalSeasons > 0 {
				part += fmt.Sprintf("/%d", mdv.TotalSeasons)
			}
			if mdv.Episode > 0 {
				if mdv.Episode == 1 {
					newSeries = true
				}
				part += fmt.Sprintf(", e%d", mdv.Episode)
				if mdv.TotalEpisodes > 0 {
					part += fmt.Sprintf("/%d", mdv.TotalEpisodes)
				}
			}
			if mdv.Season > 0 {
				parts = append(parts, part)
			}
		}
	}
	return parts, newSeries
}

// premiereWindow reports whether start falls within two days of the
// programme's original air date.
func premiereWindow(start time.Time, originalAirDate string) bool {
	oad, err := time.Parse("2006-01-02", originalAirDate)
	if err != nil {
		return false
	}
	s := start.UTC()
	startDate := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	diff := startDate.Sub(oad)
	if diff < 0 {
		diff = -diff
	}
	return diff <= 48*time.Hour
}

// Normalize maps one airing plus its programme detail into its
// broadcast day and a canonical programme. The airing's UTC instant is
// converted to loc for bucketing and output.
func Normalize(sp ScheduleProgram, prog Program, startHour int, loc *time.Location) (time.Time, xmltv.Programme, error) {
	utcStart, err := time.Parse(airDateTimeLayout, sp.AirDateTime)
	if err != nil {
		return time.Time{}, xmltv.Programme{}, &MalformedRecordError{
			ProgramID: sp.ProgramID,
			Reason:    fmt.Sprintf("invalid airDateTime %q", sp.AirDateTime),
		}
	}
	start := utcStart.In(loc)
	stop := start.Add(time.Duration(sp.Duration) * time.Second)

	film := isFilm(prog)
	subtitleParts, newSeries := episodeNumbering(prog)
	if prog.EpisodeTitle != "" {
		subtitleParts = append(subtitleParts, prog.EpisodeTitle)
	}

	title := ""
	if len(prog.Titles) > 0 {
		title = prog.Titles[0].Title120
	}

	year := ""
	if prog.Movie != nil {
		year = prog.Movie.Year
	}

	premiere := false
	if film && prog.OriginalAirDate != "" && premiereWindow(start, prog.OriginalAirDate) {
		premiere = prog.Premiere
	}

	ratings := make([]xmltv.Rating, 0, len(prog.ContentRating))
	for _, r := range prog.ContentRating {
		ratings = append(ratings, xmltv.Rating{System: r.Body, Value: r.Code})
	}

	var categories []string
	if film {
		categories = append(categories, "film")
	}
	if prog.EpisodeType != "" {
		categories = append(categories, prog.EpisodeType)
	}
	if prog.ShowType != "" {
		categories = append(categories, prog.ShowType)
	}
	categories = append(categories, prog.Genres...)

	p := xmltv.Programme{
		Title:    title,
		SubTitle: strings.Join(subtitleParts, ": "),
		Desc:     description(prog),
		Credits:  credits(prog),
		Year:     year,

		Premiere:  premiere,
		Film:      film,
		NewSeries: newSeries,

		Ratings:    ratings,
		Categories: categories,

		Start: start,
		Stop:  stop,
	}

	return xmltv.BroadcastDay(start, startHour), p, nil
}
