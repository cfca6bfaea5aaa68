// SPDX-License-Identifier: GPL-3.0-or-later

// Package schedulesdirect talks to the Schedules Direct JSON service
// and normalises its programme objects into canonical programmes.
package schedulesdirect

// Lineup is one provider-defined channel grouping.
type Lineup struct {
	Lineup    string `json:"lineup"`
	Name      string `json:"name"`
	Transport string `json:"transport"`
}

// Station is one channel within a lineup.
type Station struct {
	StationID string `json:"stationID"`
	Name      string `json:"name"`
}

// Schedule is one station's schedule response entry.
type Schedule struct {
	StationID string            `json:"stationID"`
	Programs  []ScheduleProgram `json:"programs"`
}

// ScheduleProgram is one airing: a programme reference plus its slot.
type ScheduleProgram struct {
	ProgramID   string `json:"programID"`
	AirDateTime string `json:"airDateTime"`
	Duration    int    `json:"duration"`
}

// Program is the detail object for one programme.
type Program struct {
	ProgramID       string                     `json:"programID"`
	Titles          []Title                    `json:"titles"`
	EpisodeTitle    string                     `json:"episodeTitle150"`
	Descriptions    *Descriptions              `json:"descriptions"`
	Cast            []Member                   `json:"cast"`
	Crew            []Member                   `json:"crew"`
	Metadata        []map[string]MetadataValue `json:"metadata"`
	ContentRating   []ContentRating            `json:"contentRating"`
	Genres          []string                   `json:"genres"`
	ShowType        string                     `json:"showType"`
	EntityType      string                     `json:"entityType"`
	EpisodeType     string                     `json:"episodeType"`
	Movie           *Movie                     `json:"movie"`
	OriginalAirDate string                     `json:"originalAirDate"`
	Premiere        bool                       `json:"premiere"`
}

type Title struct {
	Title120 string `json:"title120"`
}

type Descriptions struct {
	Description1000 []Description `json:"description1000"`
}

type Description struct {
	Language    string `json:"descriptionLanguage"`
	Description string `json:"description"`
}

// Member is one cast or crew entry. BillingOrder is the provider's
// zero-padded ordering string.
type Member struct {
	BillingOrder  string `json:"billingOrder"`
	Role          string `json:"role"`
	Name          string `json:"name"`
	CharacterName string `json:"characterName"`
}

// MetadataValue is one episode-numbering block (keyed by metadata
// provider in the enclosing map).
type MetadataValue struct {
	Season        int `json:"season"`
	TotalSeasons  int `json:"totalSeasons"`
	Episode       int `json:"episode"`
	TotalEpisodes int `json:"totalEpisodes"`
}

type ContentRating struct {
	Body string `json:"body"`
	Code string `json:"code"`
}

type Movie struct {
	Year string `json:"year"`
}
