package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// EventKind identifies which remote feed shape produced an EventRecord.
type EventKind string

const (
	// KindUnknown is the zero value; records of this kind match no calendar.
	KindUnknown EventKind = ""

	// KindEvent is a regular event from the events feed.
	KindEvent EventKind = "event"

	// KindBirthday is a contact birthday from the birthday feed.
	KindBirthday EventKind = "birthday"
)

// RSVPStatus is the viewer's reply to an event invitation.
type RSVPStatus string

const (
	RSVPNone       RSVPStatus = ""
	RSVPAttending  RSVPStatus = "attending"
	RSVPUnsure     RSVPStatus = "unsure"
	RSVPDeclined   RSVPStatus = "declined"
	RSVPNotReplied RSVPStatus = "not_replied"
)

// EventRecord is the canonical in-memory representation of a remote event.
// It is constructed by a normaliser from a raw feed entry, is immutable once
// constructed, and is discarded after being applied to a calendar.
//
// ExternalID is the identifier assigned by the feed and is the idempotency
// key against the local store.
type EventRecord struct {
	// ExternalID is the stable feed-assigned identifier.
	ExternalID string

	// Kind records which feed shape produced this record.
	Kind EventKind

	// Title is the event name. Never empty for a valid record.
	Title string

	// Description is optional free-form text.
	Description string

	// Location is the optional place name.
	Location string

	// Start and End are the event instants. End may equal Start when the
	// feed omits an end time.
	Start time.Time
	End   time.Time

	// Timezone is the IANA zone name the start instant was expressed in.
	Timezone string

	// Organizer is the event owner's display name.
	Organizer string

	// Cancelled marks an event the feed reports as cancelled. Applying a
	// cancelled record removes the local entry.
	Cancelled bool

	// RSVP is the viewer's reply status.
	RSVP RSVPStatus

	// Recurrence is an RRULE string; birthdays carry FREQ=YEARLY.
	Recurrence string

	// ReminderMinutes is the configured reminder lead time stored with the
	// event. Zero means no reminder.
	ReminderMinutes int
}

// Valid reports whether the record carries the minimal identity and time
// information required to reconcile it.
func (r EventRecord) Valid() bool {
	return r.ExternalID != "" && !r.Start.IsZero()
}

// WithReminder returns a copy of the record with the reminder lead time set.
func (r EventRecord) WithReminder(minutes int) EventRecord {
	r.ReminderMinutes = minutes
	return r
}

// Equal reports whether two records agree on every semantic field. Two
// fetches of the same external id compare equal iff nothing the local store
// cares about changed, which is what makes redundant writes detectable.
func (r EventRecord) Equal(other EventRecord) bool {
	return r.ExternalID == other.ExternalID &&
		r.Kind == other.Kind &&
		r.Title == other.Title &&
		r.Description == other.Description &&
		r.Location == other.Location &&
		r.Start.Equal(other.Start) &&
		r.End.Equal(other.End) &&
		r.Timezone == other.Timezone &&
		r.Organizer == other.Organizer &&
		r.Cancelled == other.Cancelled &&
		r.RSVP == other.RSVP &&
		r.Recurrence == other.Recurrence &&
		r.ReminderMinutes == other.ReminderMinutes
}

// Fingerprint returns a stable hash of the semantic fields. The local store
// keeps the fingerprint alongside each entry so an unchanged record can be
// recognised without comparing every column.
func (r EventRecord) Fingerprint() string {
	fields := []string{
		r.ExternalID,
		string(r.Kind),
		r.Title,
		r.Description,
		r.Location,
		strconv.FormatInt(r.Start.UnixMilli(), 10),
		strconv.FormatInt(r.End.UnixMilli(), 10),
		r.Timezone,
		r.Organizer,
		strconv.FormatBool(r.Cancelled),
		string(r.RSVP),
		r.Recurrence,
		strconv.Itoa(r.ReminderMinutes),
	}
	sum := sha256.Sum256([]byte(strings.Join(fields, "\x1f")))
	return hex.EncodeToString(sum[:])
}
