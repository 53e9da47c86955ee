// Package transcript provides the chronological-merge buffer that turns a
// stream of revised recognition events into an ordered, deduplicated
// transcript.
package transcript

import (
	"sort"
	"sync"

	"github.com/dougbradbury/pentecost-sub000/internal/models"
)

// startTimeEpsilon is the window within which two start times are considered
// the same utterance slot.
const startTimeEpsilon = 0.1

// Message is the reconciled, buffer-owned representation of the events
// believed to describe the same utterance.
type Message struct {
	StartTime float64 `json:"startTime"`
	Text      string  `json:"text"`
	IsFinal   bool    `json:"isFinal"`
	Duration  float64 `json:"duration"`
	Locale    string  `json:"locale"`
	Source    string  `json:"source"`
}

// EndTime returns StartTime + Duration.
func (m Message) EndTime() float64 {
	return m.StartTime + m.Duration
}

// Buffer reconciles recognition events into a transcript ordered by start
// time. All mutations are serialized through an internal mutex; the message
// list is sorted ascending by start time after every update.
//
// Buffer has no error conditions: Update is total over any text and timing
// input. Empty text and negative durations are stored verbatim; filtering
// them is an upstream concern.
type Buffer struct {
	mu       sync.RWMutex
	messages []Message
}

// NewBuffer creates an empty transcript buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Update merges one recognition event into the transcript.
//
// Matching rules, first match wins:
//  1. An existing message whose start time is within epsilon of the event's
//     is the same slot: its text, final flag and duration are revised in
//     place. The existing start time anchors the slot and is kept.
//  2. For non-final events only: a pending (non-final) message with exactly
//     the same text is the same utterance reported with corrected timing;
//     its start time, final flag and duration are overwritten.
//  3. For non-final events only: a pending message whose [start, end) window
//     overlaps the event's is the same utterance still being revised; it is
//     replaced wholesale.
//  4. Otherwise the event starts a new message.
func (b *Buffer) Update(ev models.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Rule 1: same slot by time proximity. Applies to final messages too:
	// recognizers issue corrections after finalization, and those must land
	// in the already-final slot rather than duplicate it.
	for i := range b.messages {
		if abs(b.messages[i].StartTime-ev.StartTime) < startTimeEpsilon {
			b.messages[i].Text = ev.Text
			b.messages[i].IsFinal = ev.IsFinal
			b.messages[i].Duration = ev.Duration
			return
		}
	}

	if !ev.IsFinal {
		// Rule 2: identical pending text anchored at a stale timestamp.
		for i := range b.messages {
			if !b.messages[i].IsFinal && b.messages[i].Text == ev.Text {
				b.messages[i].StartTime = ev.StartTime
				b.messages[i].IsFinal = ev.IsFinal
				b.messages[i].Duration = ev.Duration
				b.sortLocked()
				return
			}
		}

		// Rule 3: overlapping pending window, text still changing.
		for i := range b.messages {
			m := b.messages[i]
			if !m.IsFinal && m.StartTime < ev.EndTime() && ev.StartTime < m.EndTime() {
				b.messages[i].StartTime = ev.StartTime
				b.messages[i].Text = ev.Text
				b.messages[i].IsFinal = ev.IsFinal
				b.messages[i].Duration = ev.Duration
				b.sortLocked()
				return
			}
		}
	}

	// Rule 4: new utterance.
	b.messages = append(b.messages, Message{
		StartTime: ev.StartTime,
		Text:      ev.Text,
		IsFinal:   ev.IsFinal,
		Duration:  ev.Duration,
		Locale:    ev.Locale,
		Source:    ev.Source,
	})
	b.sortLocked()
}

// Messages returns a snapshot copy of the transcript, ordered ascending by
// start time.
func (b *Buffer) Messages() []Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Message, len(b.messages))
	copy(out, b.messages)
	return out
}

// Len returns the number of messages in the transcript.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.messages)
}

// Clear removes all messages. This is an operator action ("start a new
// transcript"); no event ever triggers it.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = nil
}

func (b *Buffer) sortLocked() {
	sort.SliceStable(b.messages, func(i, j int) bool {
		return b.messages[i].StartTime < b.messages[j].StartTime
	})
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
