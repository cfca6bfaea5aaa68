// SPDX-License-Identifier: GPL-3.0-or-later

package schedulesdirect

import (
	"context"
	"crypto/sha1" // #nosec G505 -- the service requires SHA-1 password hashes
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/nomis/sd2xmltv/internal/fetch"
)

// BaseURL is the Schedules Direct JSON service root.
const BaseURL = "https://json.schedulesdirect.org/20141201"

// SourceInfoName is the provider literal written to the output root
// element.
const SourceInfoName = "Schedules Direct"

// programBatchSize caps one /programs request, per the service limits.
const programBatchSize = 5000

// Client accesses the Schedules Direct service through an injected
// Fetcher. Authenticate must succeed before any other call.
type Client struct {
	fetcher fetch.Fetcher
	base    string
	token   string
}

// NewClient returns a Client. An empty base selects BaseURL.
func NewClient(fetcher fetch.Fetcher, base string) *Client {
	if base == "" {
		base = BaseURL
	}
	return &Client{fetcher: fetcher, base: strings.TrimRight(base, "/")}
}

func (c *Client) header() http.Header {
	h := http.Header{}
	if c.token != "" {
		h.Set("token", c.token)
	}
	return h
}

// Authenticate obtains a session token for the account and verifies the
// service status. Both requests bypass the response cache.
func (c *Client) Authenticate(ctx context.Context, username, password string) error {
	sum := sha1.Sum([]byte(password)) // #nosec G401
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": strings.ToLower(hex.EncodeToString(sum[:])),
	})
	if err != nil {
		return err
	}

	body, err := c.fetcher.Do(ctx, fetch.Request{
		Name:    "token",
		Method:  http.MethodPost,
		URL:     c.base + "/token",
		Body:    payload,
		NoCache: true,
	})
	if err != nil {
		return err
	}
	var tok struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return fmt.Errorf("schedulesdirect: decode token: %w", err)
	}
	if tok.Code != 0 {
		return &APIError{Operation: "token", Code: tok.Code, Message: tok.Message}
	}
	c.token = tok.Token

	body, err = c.fetcher.Do(ctx, fetch.Request{
		Name:    "status",
		URL:     c.base + "/status",
		Header:  c.header(),
		NoCache: true,
	})
	if err != nil {
		return err
	}
	var status struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return fmt.Errorf("schedulesdirect: decode status: %w", err)
	}
	if status.Code != 0 {
		return &APIError{Operation: "status", Code: status.Code, Message: status.Message}
	}
	return nil
}

// Lineups lists the account's configured lineups.
func (c *Client) Lineups(ctx context.Context) ([]Lineup, error) {
	body, err := c.fetcher.Do(ctx, fetch.Request{
		Name:   "lineups",
		URL:    c.base + "/lineups",
		Header: c.header(),
	})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Lineups []Lineup `json:"lineups"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("schedulesdirect: decode lineups: %w", err)
	}
	return resp.Lineups, nil
}

// LineupStations fetches a lineup's station list. The raw response body
// is returned alongside for snapshotting.
func (c *Client) LineupStations(ctx context.Context, lineup string) ([]Station, []byte, error) {
	body, err := c.fetcher.Do(ctx, fetch.Request{
		Name:   "lineup " + lineup,
		URL:    c.base + "/lineups/" + url.PathEscape(lineup),
		Header: c.header(),
	})
	if err != nil {
		return nil, nil, err
	}
	var resp struct {
		Stations []*Station `json:"stations"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil, fmt.Errorf("schedulesdirect: decode lineup %s: %w", lineup, err)
	}
	stations := make([]Station, 0, len(resp.Stations))
	for _, s := range resp.Stations {
		if s == nil {
			continue
		}
		stations = append(stations, *s)
	}
	return stations, body, nil
}

// Schedules fetches the full schedule for one station.
func (c *Client) Schedules(ctx context.Context, name, stationID string) ([]Schedule, error) {
	payload, err := json.Marshal([]map[string]string{{"stationID": stationID}})
	if err != nil {
		return nil, err
	}
	body, err := c.fetcher.Do(ctx, fetch.Request{
		Name:   "schedules for " + name,
		Method: http.MethodPost,
		URL:    c.base + "/schedules",
		Body:   payload,
		Header: c.header(),
	})
	if err != nil {
		return nil, err
	}
	var schedules []Schedule
	if err := json.Unmarshal(body, &schedules); err != nil {
		return nil, fmt.Errorf("schedulesdirect: decode schedules: %w", err)
	}
	return schedules, nil
}

// Programs fetches detail objects for the given programme IDs,
// deduplicated, in sorted batches of at most programBatchSize.
func (c *Client) Programs(ctx context.Context, ids []string) (map[string]Program, error) {
	seen := make(map[string]struct{}, len(ids))
	need := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		need = append(need, id)
	}
	sort.Strings(need)

	out := make(map[string]Program, len(need))
	for len(need) > 0 {
		batch := need
		if len(batch) > programBatchSize {
			batch = batch[:programBatchSize]
		}
		need = need[len(batch):]

		payload, err := json.Marshal(batch)
		if err != nil {
			return nil, err
		}
		body, err := c.fetcher.Do(ctx, fetch.Request{
			Name:   "program data",
			Method: http.MethodPost,
			URL:    c.base + "/programs",
			Body:   payload,
			Header: c.header(),
		})
		if err != nil {
			return nil, err
		}
		var programs []Program
		if err := json.Unmarshal(body, &programs); err != nil {
			return nil, fmt.Errorf("schedulesdirect: decode programs: %w", err)
		}
		for _, p := range programs {
			out[p.ProgramID] = p
		}
	}
	return out, nil
}

// AddLineup subscribes the account to a lineup.
func (c *Client) AddLineup(ctx context.Context, lineup string) ([]byte, error) {
	return c.fetcher.Do(ctx, fetch.Request{
		Name:    "add lineup " + lineup,
		Method:  http.MethodPut,
		URL:     c.base + "/lineups/" + url.PathEscape(lineup),
		Header:  c.header(),
		NoCache: true,
	})
}

// RemoveLineup unsubscribes the account from a lineup.
func (c *Client) RemoveLineup(ctx context.Context, lineup string) ([]byte, error) {
	return c.fetcher.Do(ctx, fetch.Request{
		Name:    "remove lineup " + lineup,
		Method:  http.MethodDelete,
		URL:     c.base + "/lineups/" + url.PathEscape(lineup),
		Header:  c.header(),
		NoCache: true,
	})
}

// Headends searches available lineups for a country and postal code.
func (c *Client) Headends(ctx context.Context, country, postalcode string) ([]byte, error) {
	return c.fetcher.Do(ctx, fetch.Request{
		Name:    "lineup search",
		URL:     c.base + "/headends",
		Query:   url.Values{"country": {country}, "postalcode": {postalcode}},
		Header:  c.header(),
		NoCache: true,
	})
}

// StationIndex is a pure channel-name to station-identifier resolution
// for one lineup; it never performs I/O.
type StationIndex struct {
	lineup string
	byName map[string]string
}

// NewStationIndex builds the index from a lineup's station list.
func NewStationIndex(lineup string, stations []Station) *StationIndex {
	idx := &StationIndex{lineup: lineup, byName: make(map[string]string, len(stations))}
	for _, s := range stations {
		idx.byName[s.Name] = s.StationID
	}
	return idx
}

// Resolve maps a channel name to its station identifier.
func (s *StationIndex) Resolve(name string) (string, error) {
	if id, ok := s.byName[name]; ok {
		return id, nil
	}
	return "", &UnknownChannelError{Lineup: s.lineup, Name: name}
}
