// SPDX-License-Identifier: GPL-3.0-or-later

package xmltv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var testChannels = []Channel{
	{ID: "bbc1", Name: "BBC1", Display: "BBC One"},
	{ID: "bbc2", Name: "BBC2"},
}

func fixedNow() time.Time {
	return time.Date(2026, time.March, 10, 14, 30, 0, 0, time.UTC)
}

func newTestWriter(t *testing.T, dir string) *Writer {
	t.Helper()
	return NewWriter(dir, "Radio Times", testChannels, Options{
		Location: time.UTC,
		Now:      fixedNow,
	})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBroadcastDay(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{
			name:  "before start hour maps to previous date",
			start: time.Date(2026, time.March, 11, 5, 59, 0, 0, time.UTC),
			want:  day(2026, time.March, 10),
		},
		{
			name:  "at start hour maps to own date",
			start: time.Date(2026, time.March, 11, 6, 0, 0, 0, time.UTC),
			want:  day(2026, time.March, 11),
		},
		{
			name:  "evening maps to own date",
			start: time.Date(2026, time.March, 11, 23, 50, 0, 0, time.UTC),
			want:  day(2026, time.March, 11),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BroadcastDay(tt.start, 6); !got.Equal(tt.want) {
				t.Errorf("BroadcastDay(%v) = %v, want %v", tt.start, got, tt.want)
			}
		})
	}
}

func TestPastDaySuppressed(t *testing.T) {
	dir := t.TempDir()
	w := newTestWriter(t, dir)

	p := Programme{
		Title: "Old News",
		Start: time.Date(2026, time.March, 9, 20, 0, 0, 0, time.UTC),
		Stop:  time.Date(2026, time.March, 9, 21, 0, 0, 0, time.UTC),
	}
	if err := w.Write(day(2026, time.March, 9), "bbc1", p); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no output files, got %d", len(entries))
	}
}

func TestWriterSingleDayTwoProgrammes(t *testing.T) {
	dir := t.TempDir()
	w := newTestWriter(t, dir)

	news := Programme{
		Title: "News",
		Desc:  "Headlines.",
		Start: time.Date(2026, time.March, 11, 20, 0, 0, 0, time.UTC),
		Stop:  time.Date(2026, time.March, 11, 21, 0, 0, 0, time.UTC),
	}
	film := Programme{
		Title:       "Alien",
		Film:        true,
		Widescreen:  true,
		StarRating:  "4/5",
		Certificate: "18",
		Credits: []Credit{
			{Role: "director", Name: "Ridley Scott"},
			{Role: "actor", Name: "Sigourney Weaver (Ripley)"},
		},
		Categories: []string{"Film"},
		Start:      time.Date(2026, time.March, 11, 23, 50, 0, 0, time.UTC),
		Stop:       time.Date(2026, time.March, 12, 0, 20, 0, 0, time.UTC),
	}
	d := day(2026, time.March, 11)
	if err := w.Write(d, "bbc1", news); err != nil {
		t.Fatalf("Write news: %v", err)
	}
	if err := w.Write(d, "bbc1", film); err != nil {
		t.Fatalf("Write film: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "tv-20260311.xmltv" {
		t.Fatalf("expected single tv-20260311.xmltv, got %v", entries)
	}

	doc, err := ReadFile(filepath.Join(dir, "tv-20260311.xmltv"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if doc.SourceInfo != "Radio Times" {
		t.Errorf("source-info-name = %q", doc.SourceInfo)
	}
	wantChannels := []DocChannel{
		{ID: "bbc1", DisplayName: []string{"BBC One"}},
		{ID: "bbc2", DisplayName: []string{"BBC2"}},
	}
	if diff := cmp.Diff(wantChannels, doc.Channels); diff != "" {
		t.Errorf("channel declarations mismatch (-want +got):\n%s", diff)
	}

	if len(doc.Programmes) != 2 {
		t.Fatalf("expected 2 programmes, got %d", len(doc.Programmes))
	}

	got := doc.Programmes[0]
	if got.Title != "News" || got.Start != "20260311200000" || got.Stop != "20260311210000" {
		t.Errorf("unexpected first programme: %+v", got)
	}
	if got.Channel != "bbc1" {
		t.Errorf("channel attr = %q", got.Channel)
	}

	got = doc.Programmes[1]
	if got.Stop != "20260312002000" {
		t.Errorf("overnight stop = %q, want next-day 20260312002000", got.Stop)
	}
	if got.Video == nil || got.Video.Aspect != "16:9" {
		t.Errorf("video aspect missing: %+v", got.Video)
	}
	if got.StarRating == nil || got.StarRating.Value != "4/5" {
		t.Errorf("star-rating = %+v", got.StarRating)
	}
	wantRatings := []DocRating{{System: "BBFC", Value: "18"}}
	if diff := cmp.Diff(wantRatings, got.Ratings); diff != "" {
		t.Errorf("ratings mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Film"}, got.Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if got.Credits == nil || len(got.Credits.Members) != 2 {
		t.Fatalf("credits = %+v", got.Credits)
	}
	if got.Credits.Members[0].XMLName.Local != "director" ||
		got.Credits.Members[1].XMLName.Local != "actor" ||
		got.Credits.Members[1].Name != "Sigourney Weaver (Ripley)" {
		t.Errorf("credits order/content wrong: %+v", got.Credits.Members)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := newTestWriter(t, dir)

	p := Programme{
		Title:        "Wildlife on Two",
		SubTitle:     "Oceans",
		EpisodeLabel: "The Deep",
		Desc:         "Fish & friends <underwater>.",
		Year:         "2026",
		NewSeries:    true,
		Subtitles:    true,
		Credits: []Credit{
			{Role: "presenter", Name: "D. Attenborough"},
		},
		Categories: []string{"Documentary", "Nature"},
		Start:      time.Date(2026, time.March, 12, 19, 0, 0, 0, time.UTC),
		Stop:       time.Date(2026, time.March, 12, 20, 0, 0, 0, time.UTC),
	}
	if err := w.Write(day(2026, time.March, 12), "bbc2", p); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	doc, err := ReadFile(filepath.Join(dir, "tv-20260312.xmltv"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(doc.Programmes) != 1 {
		t.Fatalf("expected 1 programme, got %d", len(doc.Programmes))
	}
	got := doc.Programmes[0]

	if got.Title != p.Title {
		t.Errorf("title = %q", got.Title)
	}
	if got.SubTitle != "Oceans: The Deep" {
		t.Errorf("sub-title = %q, want joined composite", got.SubTitle)
	}
	if got.Desc != p.Desc {
		t.Errorf("desc = %q, escaping not reversible", got.Desc)
	}
	if got.New == nil {
		t.Error("new element missing")
	}
	if got.Premiere != nil {
		t.Error("premiere element present for non-premiere")
	}
	if got.Subtitles == nil || got.Subtitles.Type != "teletext" {
		t.Errorf("subtitles = %+v", got.Subtitles)
	}
	if got.Year != "2026" {
		t.Errorf("year = %q", got.Year)
	}
	if got.Video != nil {
		t.Errorf("video emitted without aspect/colour: %+v", got.Video)
	}
	if diff := cmp.Diff(p.Categories, got.Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteAfterClose(t *testing.T) {
	w := newTestWriter(t, t.TempDir())
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	err := w.Write(day(2026, time.March, 11), "bbc1", Programme{Title: "x"})
	if err != ErrWriterClosed {
		t.Errorf("Write after Close = %v, want ErrWriterClosed", err)
	}
}

func TestCloseWritesClosingTag(t *testing.T) {
	dir := t.TempDir()
	w := newTestWriter(t, dir)

	p := Programme{
		Title: "News",
		Start: time.Date(2026, time.March, 11, 20, 0, 0, 0, time.UTC),
		Stop:  time.Date(2026, time.March, 11, 21, 0, 0, 0, time.UTC),
	}
	if err := w.Write(day(2026, time.March, 11), "bbc1", p); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "tv-20260311.xmltv"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(raw)
	if !strings.HasPrefix(content, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<!DOCTYPE tv SYSTEM \"xmltv.dtd\">\n") {
		t.Errorf("prologue wrong:\n%s", content)
	}
	if !strings.HasSuffix(content, "</tv>\n") {
		t.Errorf("missing closing root element:\n%s", content)
	}
}

func TestWriteOpenFailure(t *testing.T) {
	dir := t.TempDir()
	w := newTestWriter(t, dir)

	// Occupy the day's output path with a directory so os.Create fails.
	if err := os.Mkdir(filepath.Join(dir, "tv-20260311.xmltv"), 0o755); err != nil {
		t.Fatal(err)
	}

	p := Programme{
		Title: "News",
		Start: time.Date(2026, time.March, 11, 20, 0, 0, 0, time.UTC),
		Stop:  time.Date(2026, time.March, 11, 21, 0, 0, 0, time.UTC),
	}
	if err := w.Write(day(2026, time.March, 11), "bbc1", p); err == nil {
		t.Fatal("expected Write to fail when the output path cannot be created")
	}

	// The failed day must not be tracked; other days and Close still work.
	p.Start = p.Start.AddDate(0, 0, 1)
	p.Stop = p.Stop.AddDate(0, 0, 1)
	if err := w.Write(day(2026, time.March, 12), "bbc1", p); err != nil {
		t.Fatalf("Write next day: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tv-20260312.xmltv")); err != nil {
		t.Errorf("missing tv-20260312.xmltv: %v", err)
	}
}

func TestWriterMultipleDays(t *testing.T) {
	dir := t.TempDir()
	w := newTestWriter(t, dir)

	for d := 11; d <= 13; d++ {
		p := Programme{
			Title: "News",
			Start: time.Date(2026, time.March, d, 20, 0, 0, 0, time.UTC),
			Stop:  time.Date(2026, time.March, d, 21, 0, 0, 0, time.UTC),
		}
		if err := w.Write(day(2026, time.March, d), "bbc1", p); err != nil {
			t.Fatalf("Write day %d: %v", d, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 files, got %d", len(entries))
	}
	for _, want := range []string{"tv-20260311.xmltv", "tv-20260312.xmltv", "tv-20260313.xmltv"} {
		if _, err := os.Stat(filepath.Join(dir, want)); err != nil {
			t.Errorf("missing %s: %v", want, err)
		}
	}
}
