package source

import (
	"sync"
	"time"

	"github.com/dougbradbury/pentecost-sub000/internal/models"
)

// Utterance is a scripted utterance: progressive partial hypotheses followed
// by exactly one final, all anchored at StartTime on the stream's audio
// timeline.
type Utterance struct {
	Partials  []string // progressive partial transcripts
	Final     string   // final transcript text
	StartTime float64  // seconds
	Duration  float64  // seconds of the finished utterance
}

// DefaultUtterances provides sample utterances for simulation.
var DefaultUtterances = []Utterance{
	{
		Partials:  []string{"I want", "I want to cancel my"},
		Final:     "I want to cancel my subscription",
		StartTime: 0.5,
		Duration:  2.1,
	},
	{
		Partials:  []string{"Can you help", "Can you help me with my"},
		Final:     "Can you help me with my account",
		StartTime: 3.2,
		Duration:  1.8,
	},
	{
		Partials:  []string{"I have been waiting", "I have been waiting for over"},
		Final:     "I have been waiting for over an hour",
		StartTime: 5.6,
		Duration:  2.4,
	},
}

// Mock simulates a recognizer stream. It emits each utterance's partials in
// order (with growing windows), then the final, pacing emissions by the
// configured interval. The events channel is closed after the last
// utterance or when Close is called.
type Mock struct {
	locale   string
	origin   string
	interval time.Duration

	events chan models.Event
	done   chan struct{}
	once   sync.Once
}

// NewMock creates a scripted recognizer for the given (locale, source) pair
// and starts emitting immediately.
func NewMock(locale, origin string, utterances []Utterance, interval time.Duration) *Mock {
	m := &Mock{
		locale:   locale,
		origin:   origin,
		interval: interval,
		events:   make(chan models.Event),
		done:     make(chan struct{}),
	}
	go m.run(utterances)
	return m
}

// Events returns the stream's event channel.
func (m *Mock) Events() <-chan models.Event {
	return m.events
}

// Close stops emission. Idempotent.
func (m *Mock) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}

func (m *Mock) run(utterances []Utterance) {
	defer close(m.events)

	for _, utt := range utterances {
		for i, partial := range utterances2events(utt, m.locale, m.origin) {
			if i > 0 || m.interval > 0 {
				select {
				case <-m.done:
					return
				case <-time.After(m.interval):
				}
			}
			select {
			case <-m.done:
				return
			case m.events <- partial:
			}
		}
	}
}

// utterances2events expands one scripted utterance into its event sequence.
// Partial windows grow toward the final duration, mimicking a recognizer
// revising the same slot.
func utterances2events(utt Utterance, locale, origin string) []models.Event {
	out := make([]models.Event, 0, len(utt.Partials)+1)
	for i, text := range utt.Partials {
		fraction := float64(i+1) / float64(len(utt.Partials)+1)
		out = append(out, models.Event{
			Text:             text,
			IsFinal:          false,
			StartTime:        utt.StartTime,
			Duration:         utt.Duration * fraction,
			AlternativeCount: 1,
			Locale:           locale,
			Source:           origin,
		})
	}
	out = append(out, models.Event{
		Text:             utt.Final,
		IsFinal:          true,
		StartTime:        utt.StartTime,
		Duration:         utt.Duration,
		AlternativeCount: 1,
		Locale:           locale,
		Source:           origin,
	})
	return out
}
