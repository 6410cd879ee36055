package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/docopt/docopt-go"

	"wedding-app-go/internal/domain/contributions"
	"wedding-app-go/internal/domain/seating"
	"wedding-app-go/internal/realtime"
)

func TestUsageSelectsCommand(t *testing.T) {
	tests := []struct {
		args    []string
		command string
		key     string
		value   string
	}{
		{args: []string{"guests"}, command: "guests"},
		{args: []string{"seats", "t1"}, command: "seats", key: "<table_id>", value: "t1"},
		{args: []string{"payments", "v1", "--quiet"}, command: "payments", key: "<vendor_id>", value: "v1"},
		{args: []string{"comments", "p1", "--api_url=https://api.example.com"}, command: "comments", key: "<photo_id>", value: "p1"},
	}

	for _, tt := range tests {
		opts, err := docopt.ParseArgs(usage, tt.args, version)
		if err != nil {
			t.Fatalf("parse %v: %v", tt.args, err)
		}
		if got := command(opts); got != tt.command {
			t.Fatalf("command(%v) = %q, want %q", tt.args, got, tt.command)
		}
		if tt.key == "" {
			continue
		}
		if got, _ := opts.String(tt.key); got != tt.value {
			t.Fatalf("%s = %q, want %q", tt.key, got, tt.value)
		}
	}
}

func TestDefaultAPIURL(t *testing.T) {
	opts, err := docopt.ParseArgs(usage, []string{"songs"}, version)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got, _ := opts.String("--api_url"); got != "http://localhost:8080" {
		t.Fatalf("api url = %q", got)
	}
}

func TestPrintStateListsItems(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, false)

	guest := "g1"
	printState(p, "seats", realtime.State[seating.Seat]{Items: []seating.Seat{
		{Number: 1, GuestID: &guest, GuestName: "Ana"},
		{Number: 2},
	}}, formatSeat)

	want := "seats (2)\n  #1  Ana\n  #2  empty\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrintStateQuietKeepsErrors(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, true)

	printState(p, "songs", realtime.State[contributions.SongRequest]{Items: []contributions.SongRequest{{Title: "x"}}}, formatSong)
	if buf.Len() != 0 {
		t.Fatalf("quiet printer wrote %q", buf.String())
	}

	printState(p, "songs", realtime.State[contributions.SongRequest]{Err: errors.New("feed closed")}, formatSong)
	if buf.String() != "songs: feed closed\n" {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestNotifyPrintsToast(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, true)
	p.now = func() time.Time { return time.Date(2026, 6, 1, 18, 30, 0, 0, time.UTC) }

	p.Notify(realtime.Toast{Title: "New RSVP", Message: "Ana has confirmed", Variant: realtime.VariantSuccess})

	if buf.String() != "18:30:00 [ok] New RSVP: Ana has confirmed\n" {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestFormatters(t *testing.T) {
	if got := formatSong(contributions.SongRequest{Title: "Dancing Queen", Artist: "ABBA", Status: "requested"}); got != "Dancing Queen by ABBA  requested" {
		t.Fatalf("formatSong = %q", got)
	}
	if got := formatComment(contributions.Comment{Body: "hi"}); got != "Planner: hi" {
		t.Fatalf("formatComment = %q", got)
	}
	if got := money(1234.5); got != "1,234.5" {
		t.Fatalf("money = %q", got)
	}
}
