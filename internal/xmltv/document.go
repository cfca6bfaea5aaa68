// SPDX-License-Identifier: GPL-3.0-or-later

package xmltv

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Document types for reading an emitted XMLTV file back. Used by the
// test suite for round-trip checks and by downstream tooling that wants
// to inspect a generated guide.

type TV struct {
	XMLName    xml.Name       `xml:"tv"`
	SourceInfo string         `xml:"source-info-name,attr"`
	Channels   []DocChannel   `xml:"channel"`
	Programmes []DocProgramme `xml:"programme"`
}

type DocChannel struct {
	ID          string   `xml:"id,attr"`
	DisplayName []string `xml:"display-name"`
}

type DocProgramme struct {
	Channel    string        `xml:"channel,attr"`
	Start      string        `xml:"start,attr"`
	Stop       string        `xml:"stop,attr"`
	Title      string        `xml:"title"`
	SubTitle   string        `xml:"sub-title"`
	Desc       string        `xml:"desc"`
	Credits    *DocCredits   `xml:"credits"`
	Year       string        `xml:"year"`
	Video      *DocVideo     `xml:"video"`
	Premiere   *struct{}     `xml:"premiere"`
	New        *struct{}     `xml:"new"`
	Subtitles  *DocSubtitles `xml:"subtitles"`
	StarRating *DocValue     `xml:"star-rating"`
	Ratings    []DocRating   `xml:"rating"`
	Categories []string      `xml:"category"`
}

// DocCredits captures credit members with their role taken from the
// element name, preserving document order.
type DocCredits struct {
	Members []DocCredit `xml:",any"`
}

type DocCredit struct {
	XMLName xml.Name
	Name    string `xml:",chardata"`
}

type DocVideo struct {
	Aspect string `xml:"aspect"`
	Colour string `xml:"colour"`
}

type DocSubtitles struct {
	Type string `xml:"type,attr"`
}

type DocValue struct {
	Value string `xml:"value"`
}

type DocRating struct {
	System string `xml:"system,attr"`
	Value  string `xml:"value"`
}

// ReadFile decodes an XMLTV document with a strict parser. Entity
// expansion is disabled and input is capped at 50MB.
func ReadFile(path string) (*TV, error) {
	path = filepath.Clean(path)
	f, err := os.Open(path) // #nosec G304 -- path originates from controlled configuration
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	const maxXMLSize = 50 * 1024 * 1024
	r := io.LimitReader(f, maxXMLSize)

	var doc TV
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.Entity = make(map[string]string)

	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode xmltv: %w", err)
	}
	return &doc, nil
}
