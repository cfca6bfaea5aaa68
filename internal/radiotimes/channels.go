// SPDX-License-Identifier: GPL-3.0-or-later

package radiotimes

import (
	"strings"

	unorm "golang.org/x/text/unicode/norm"
)

// Lineup is the fetched channel list: a pure name to listing-identifier
// resolution. Fetching a channel's listing is a separate, explicit
// client call; lookups never perform I/O.
type Lineup struct {
	byName map[string]string
	byKey  map[string]string
}

// ParseLineup builds a Lineup from "id|name" lines.
func ParseLineup(lines []string) (*Lineup, error) {
	l := &Lineup{
		byName: make(map[string]string, len(lines)),
		byKey:  make(map[string]string, len(lines)),
	}
	for _, line := range lines {
		id, name, ok := strings.Cut(line, "|")
		if !ok {
			return nil, &MalformedRecordError{Line: line, Reason: "expected id|name"}
		}
		l.byName[name] = id
		l.byKey[nameKey(name)] = id
	}
	return l, nil
}

// Resolve maps a channel name to its listing identifier. Exact matches
// win; otherwise a normalised comparison absorbs case and whitespace
// differences between the configuration and the provider's list.
func (l *Lineup) Resolve(name string) (string, error) {
	if id, ok := l.byName[name]; ok {
		return id, nil
	}
	if id, ok := l.byKey[nameKey(name)]; ok {
		return id, nil
	}
	return "", &UnknownChannelError{Name: name}
}

// Len reports the number of channels in the lineup.
func (l *Lineup) Len() int {
	return len(l.byName)
}

// nameKey produces a lookup key tolerant of case and spacing. Unicode is
// normalised to NFC before and after case folding.
func nameKey(s string) string {
	s = unorm.NFC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))
	s = unorm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// SplitListing splits a downloaded payload into lines, detecting the
// licence handshake: a first line containing only a tab marks the
// second line as a licence message that must be accepted before the
// remaining lines may be used.
func SplitListing(data string) (licence string, lines []string) {
	all := splitLines(data)
	if len(all) < 1 || all[0] != "\t" {
		return "", all
	}
	if len(all) == 1 {
		return "", nil
	}
	return all[1], all[2:]
}

func splitLines(data string) []string {
	if data == "" {
		return nil
	}
	data = strings.TrimRight(data, "\n")
	if data == "" {
		return nil
	}
	lines := strings.Split(data, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
