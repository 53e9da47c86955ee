package source

import (
	"testing"
	"time"

	"github.com/dougbradbury/pentecost-sub000/internal/models"
)

func collect(t *testing.T, m *Mock, want int) []models.Event {
	t.Helper()
	var got []models.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-m.Events():
			if !ok {
				return got
			}
			got = append(got, ev)
			if len(got) > want {
				t.Fatalf("received more than %d events", want)
			}
		case <-timeout:
			t.Fatalf("timed out after %d of %d events", len(got), want)
		}
	}
}

func TestMock_EmitsPartialsThenFinal(t *testing.T) {
	utterances := []Utterance{
		{
			Partials:  []string{"hello", "hello there"},
			Final:     "hello there friend",
			StartTime: 1.0,
			Duration:  2.0,
		},
	}
	m := NewMock("en-US", "local", utterances, 0)

	got := collect(t, m, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}

	wantTexts := []string{"hello", "hello there", "hello there friend"}
	for i, ev := range got {
		if ev.Text != wantTexts[i] {
			t.Errorf("event %d: expected text %q, got %q", i, wantTexts[i], ev.Text)
		}
		if ev.StartTime != 1.0 {
			t.Errorf("event %d: expected start time 1.0, got %v", i, ev.StartTime)
		}
		if ev.Locale != "en-US" || ev.Source != "local" {
			t.Errorf("event %d: unexpected stream identity %s/%s", i, ev.Source, ev.Locale)
		}
	}

	if got[0].IsFinal || got[1].IsFinal {
		t.Error("expected partials to be non-final")
	}
	if !got[2].IsFinal {
		t.Error("expected last event to be final")
	}
	if got[2].Duration != 2.0 {
		t.Errorf("expected final duration 2.0, got %v", got[2].Duration)
	}
	if got[0].Duration >= got[1].Duration || got[1].Duration >= got[2].Duration {
		t.Errorf("expected growing durations, got %v, %v, %v",
			got[0].Duration, got[1].Duration, got[2].Duration)
	}
}

func TestMock_ChannelClosesAfterScript(t *testing.T) {
	m := NewMock("en-US", "local", DefaultUtterances, 0)

	want := 0
	for _, utt := range DefaultUtterances {
		want += len(utt.Partials) + 1
	}
	got := collect(t, m, want)
	if len(got) != want {
		t.Errorf("expected %d events, got %d", want, len(got))
	}
}

func TestMock_CloseStopsEmission(t *testing.T) {
	m := NewMock("en-US", "local", DefaultUtterances, time.Hour)

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	select {
	case _, ok := <-m.Events():
		if ok {
			t.Error("expected no events after Close with a long interval")
		}
	case <-time.After(time.Second):
		t.Error("expected events channel to close after Close")
	}
}
