// SPDX-License-Identifier: GPL-3.0-or-later

package xmltv

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// timeLayout is the XMLTV start/stop attribute format.
const timeLayout = "20060102150405"

// ErrWriterClosed is returned by Write after Close has been called.
var ErrWriterClosed = errors.New("xmltv: writer is closed")

// Options adjust Writer behaviour. The zero value gives the defaults:
// local time zone and the real clock.
type Options struct {
	// Location is the time zone programmes are formatted and bucketed
	// in. Defaults to time.Local.
	Location *time.Location
	// Now supplies the clock used to compute "today" once at
	// construction. Defaults to time.Now.
	Now func() time.Time
}

// Writer owns one open output stream per broadcast day. Files are
// created lazily on the first programme assigned to a day and finalised
// by Close. Programmes for days before "today" (local midnight at
// construction) are silently dropped.
//
// A Writer is not safe for concurrent use; the pipeline is sequential.
type Writer struct {
	dir      string
	source   string
	channels []Channel
	loc      *time.Location
	today    time.Time
	files    map[time.Time]*outputFile
}

type outputFile struct {
	f    *os.File
	enc  *xml.Encoder
	root xml.StartElement
}

// NewWriter returns a Writer emitting files named tv-YYYYMMDD.xmltv
// under dir. sourceInfoName becomes the root element's source-info-name
// attribute; channels are declared, in order, in every file.
func NewWriter(dir, sourceInfoName string, channels []Channel, opts Options) *Writer {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	n := now().In(loc)
	return &Writer{
		dir:      dir,
		source:   sourceInfoName,
		channels: channels,
		loc:      loc,
		today:    time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc),
		files:    make(map[time.Time]*outputFile),
	}
}

// Write serialises one programme into the file for the given broadcast
// day, creating the file if this is the day's first programme. Writing a
// day strictly before today is a no-op. Any I/O failure is fatal to the
// pipeline and is returned unretried.
func (w *Writer) Write(day time.Time, channelID string, p Programme) error {
	if w.files == nil {
		return ErrWriterClosed
	}
	d := day.In(w.loc)
	key := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, w.loc)
	if key.Before(w.today) {
		return nil
	}

	of, ok := w.files[key]
	if !ok {
		var err error
		of, err = w.open(key)
		if err != nil {
			return err
		}
		w.files[key] = of
	}
	return of.writeProgramme(channelID, p, w.loc)
}

func (w *Writer) open(day time.Time) (*outputFile, error) {
	path := filepath.Join(w.dir, day.Format("tv-20060102.xmltv"))
	f, err := os.Create(path) // #nosec G304 -- path derives from configured output dir
	if err != nil {
		return nil, fmt.Errorf("xmltv: create %s: %w", path, err)
	}

	// The file is only registered in w.files once fully opened; every
	// failure before that must release the handle here.
	fail := func(err error) (*outputFile, error) {
		_ = f.Close()
		return nil, err
	}

	if _, err := io.WriteString(f, xml.Header+"<!DOCTYPE tv SYSTEM \"xmltv.dtd\">\n"); err != nil {
		return fail(fmt.Errorf("xmltv: write prologue: %w", err))
	}

	of := &outputFile{
		f:   f,
		enc: xml.NewEncoder(f),
		root: xml.StartElement{
			Name: xml.Name{Local: "tv"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "source-info-name"}, Value: w.source}},
		},
	}
	if err := of.enc.EncodeToken(of.root); err != nil {
		return fail(fmt.Errorf("xmltv: write root: %w", err))
	}
	if err := of.newline(); err != nil {
		return fail(err)
	}

	for _, ch := range w.channels {
		decl := Nested("channel",
			[]Element{Text("display-name", ch.DisplayName())},
			Attr{Name: "id", Value: ch.ID})
		if err := decl.Emit(of.enc); err != nil {
			return fail(fmt.Errorf("xmltv: write channel %s: %w", ch.ID, err))
		}
		if err := of.newline(); err != nil {
			return fail(err)
		}
	}
	return of, nil
}

// newline flushes the encoder and appends a literal newline, keeping the
// output diffable without an element-indenting pass.
func (of *outputFile) newline() error {
	if err := of.enc.Flush(); err != nil {
		return fmt.Errorf("xmltv: flush: %w", err)
	}
	if _, err := io.WriteString(of.f, "\n"); err != nil {
		return fmt.Errorf("xmltv: write: %w", err)
	}
	return nil
}

func (of *outputFile) writeProgramme(channelID string, p Programme, loc *time.Location) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "programme"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "channel"}, Value: channelID},
			{Name: xml.Name{Local: "start"}, Value: p.Start.In(loc).Format(timeLayout)},
			{Name: xml.Name{Local: "stop"}, Value: p.Stop.In(loc).Format(timeLayout)},
		},
	}
	if err := of.enc.EncodeToken(start); err != nil {
		return fmt.Errorf("xmltv: write programme: %w", err)
	}
	for _, el := range programmeElements(p) {
		if err := el.Emit(of.enc); err != nil {
			return fmt.Errorf("xmltv: write programme: %w", err)
		}
	}
	if err := of.enc.EncodeToken(start.End()); err != nil {
		return fmt.Errorf("xmltv: write programme: %w", err)
	}
	return of.newline()
}

// programmeElements lists the optional child elements of a programme in
// the fixed output order. Absent values collapse, so one ordering serves
// every source format.
func programmeElements(p Programme) []Element {
	subtitle := p.SubTitle
	if p.EpisodeLabel != "" {
		if subtitle != "" {
			subtitle += ": " + p.EpisodeLabel
		} else {
			subtitle = p.EpisodeLabel
		}
	}

	credits := make([]Element, 0, len(p.Credits))
	for _, c := range p.Credits {
		credits = append(credits, Text(c.Role, c.Name))
	}

	aspect := ""
	if p.Widescreen {
		aspect = "16:9"
	}
	colour := ""
	if p.BlackAndWhite {
		colour = "no"
	}

	els := []Element{
		Text("title", p.Title),
		Text("sub-title", subtitle),
		Text("desc", p.Desc),
		Nested("credits", credits),
		Text("year", p.Year),
		Nested("video", []Element{
			Text("aspect", aspect),
			Text("colour", colour),
		}),
		Flag("premiere", p.Premiere),
		Flag("new", p.NewSeries),
		Flag("subtitles", p.Subtitles, Attr{Name: "type", Value: "teletext"}),
		Nested("star-rating", []Element{Text("value", p.StarRating)}),
	}
	if p.Certificate != "" {
		els = append(els, Nested("rating",
			[]Element{Text("value", p.Certificate)},
			Attr{Name: "system", Value: "BBFC"}))
	}
	for _, r := range p.Ratings {
		els = append(els, Nested("rating",
			[]Element{Text("value", r.Value)},
			Attr{Name: "system", Value: r.System}))
	}
	for _, c := range p.Categories {
		els = append(els, Text("category", c))
	}
	return els
}

// Close finalises every open file exactly once and renders the writer
// unusable. On failure the remaining files are still closed and the
// first error is returned; partially written files are left on disk.
func (w *Writer) Close() error {
	var firstErr error
	for _, of := range w.files {
		if err := of.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	w.files = nil
	return firstErr
}

func (of *outputFile) close() error {
	err := of.enc.EncodeToken(of.root.End())
	if err == nil {
		err = of.enc.Flush()
	}
	if err == nil {
		_, err = io.WriteString(of.f, "\n")
	}
	if cerr := of.f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("xmltv: close %s: %w", of.f.Name(), err)
	}
	return nil
}
