package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleRecord() EventRecord {
	start := time.Date(2026, 7, 1, 19, 0, 0, 0, time.UTC)
	return EventRecord{
		ExternalID: "e1",
		Kind:       KindEvent,
		Title:      "Concert",
		Location:   "City Park",
		Start:      start,
		End:        start.Add(4 * time.Hour),
		Timezone:   "UTC",
		Organizer:  "The Venue",
		RSVP:       RSVPAttending,
	}
}

func TestEventRecord_Valid(t *testing.T) {
	assert.True(t, sampleRecord().Valid())

	noID := sampleRecord()
	noID.ExternalID = ""
	assert.False(t, noID.Valid())

	noStart := sampleRecord()
	noStart.Start = time.Time{}
	assert.False(t, noStart.Valid())
}

func TestEventRecord_FingerprintIsStable(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.True(t, a.Equal(b))
}

func TestEventRecord_FingerprintChangesWithAnyField(t *testing.T) {
	base := sampleRecord()

	mutations := map[string]func(*EventRecord){
		"title":     func(r *EventRecord) { r.Title = "Other" },
		"start":     func(r *EventRecord) { r.Start = r.Start.Add(time.Minute) },
		"cancelled": func(r *EventRecord) { r.Cancelled = true },
		"rsvp":      func(r *EventRecord) { r.RSVP = RSVPDeclined },
		"reminder":  func(r *EventRecord) { r.ReminderMinutes = 10 },
	}
	for name, mutate := range mutations {
		changed := sampleRecord()
		mutate(&changed)
		assert.NotEqual(t, base.Fingerprint(), changed.Fingerprint(), "field %s must affect the fingerprint", name)
		assert.False(t, base.Equal(changed), "field %s must affect equality", name)
	}
}

func TestEventRecord_WithReminderDoesNotMutate(t *testing.T) {
	base := sampleRecord()
	withReminder := base.WithReminder(30)

	assert.Equal(t, 30, withReminder.ReminderMinutes)
	assert.Equal(t, 0, base.ReminderMinutes)
}
