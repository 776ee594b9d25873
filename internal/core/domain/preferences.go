package domain

// FeedSource selects which feed shape the events calendar syncs from.
type FeedSource string

const (
	// SourceICal syncs events from the iCalendar export. This is the
	// default: the iCal feed includes private group events the JSON API
	// omits.
	SourceICal FeedSource = "ical"

	// SourceGraph syncs events from the cursor-paginated JSON API.
	SourceGraph FeedSource = "graph"
)

// Valid reports whether the source is a known feed shape.
func (s FeedSource) Valid() bool {
	return s == SourceICal || s == SourceGraph
}

// Preferences are the resolved user preferences one pass runs under. They
// are re-read at the start of every pass.
type Preferences struct {
	// Locale is the feed locale, "lang_REGION". Empty means fall back to
	// DefaultLocale.
	Locale string

	// Source selects the events feed shape.
	Source FeedSource

	// EventsEnabled and BirthdaysEnabled toggle the two calendars. A
	// disabled calendar is skipped entirely: no fetch, no reconciliation,
	// no finalize.
	EventsEnabled    bool
	BirthdaysEnabled bool

	// ReminderMinutes is the reminder lead time stored with each event.
	ReminderMinutes int
}

// DefaultLocale is used when no locale preference is set.
const DefaultLocale = "en_US"

// DefaultPreferences returns the preferences a fresh install runs under.
func DefaultPreferences() Preferences {
	return Preferences{
		Source:           SourceICal,
		EventsEnabled:    true,
		BirthdaysEnabled: true,
	}
}

// ResolvedLocale returns the configured locale or the default.
func (p Preferences) ResolvedLocale() string {
	if p.Locale == "" {
		return DefaultLocale
	}
	return p.Locale
}

// CalendarEnabled reports whether the given calendar type is enabled.
func (p Preferences) CalendarEnabled(t CalendarType) bool {
	switch t {
	case CalendarEvents:
		return p.EventsEnabled
	case CalendarBirthdays:
		return p.BirthdaysEnabled
	default:
		return false
	}
}
