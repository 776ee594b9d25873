package domain

import "fmt"

// CalendarType is the closed set of logical calendars the agent maintains.
type CalendarType string

const (
	// CalendarEvents holds regular events.
	CalendarEvents CalendarType = "events"

	// CalendarBirthdays holds contact birthdays.
	CalendarBirthdays CalendarType = "birthdays"
)

// AllCalendarTypes lists every calendar type in sync order: the events
// calendar is always processed before the birthday calendar.
func AllCalendarTypes() []CalendarType {
	return []CalendarType{CalendarEvents, CalendarBirthdays}
}

// Valid reports whether t is a known calendar type.
func (t CalendarType) Valid() bool {
	switch t {
	case CalendarEvents, CalendarBirthdays:
		return true
	default:
		return false
	}
}

// DisplayName returns a human-readable calendar name.
func (t CalendarType) DisplayName() string {
	switch t {
	case CalendarEvents:
		return "Events"
	case CalendarBirthdays:
		return "Birthdays"
	default:
		return string(t)
	}
}

// CalendarTypeForRecord is the total dispatch function from an EventRecord
// to its target calendar. Records from the birthday feed go to the birthday
// calendar, regular events to the events calendar. The second return is
// false when no calendar accepts the record.
func CalendarTypeForRecord(rec EventRecord) (CalendarType, bool) {
	switch rec.Kind {
	case KindBirthday:
		return CalendarBirthdays, true
	case KindEvent:
		return CalendarEvents, true
	default:
		return "", false
	}
}

// ParseCalendarType converts a stored string back to a CalendarType.
func ParseCalendarType(s string) (CalendarType, error) {
	t := CalendarType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: calendar type %q", ErrInvalidInput, s)
	}
	return t, nil
}
