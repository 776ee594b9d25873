package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllCalendarTypes_EventsFirst(t *testing.T) {
	types := AllCalendarTypes()

	require.Len(t, types, 2)
	assert.Equal(t, CalendarEvents, types[0])
	assert.Equal(t, CalendarBirthdays, types[1])
}

func TestCalendarTypeForRecord(t *testing.T) {
	ctype, ok := CalendarTypeForRecord(EventRecord{Kind: KindEvent})
	require.True(t, ok)
	assert.Equal(t, CalendarEvents, ctype)

	ctype, ok = CalendarTypeForRecord(EventRecord{Kind: KindBirthday})
	require.True(t, ok)
	assert.Equal(t, CalendarBirthdays, ctype)

	_, ok = CalendarTypeForRecord(EventRecord{Kind: KindUnknown})
	assert.False(t, ok)
}

func TestParseCalendarType(t *testing.T) {
	ctype, err := ParseCalendarType("events")
	require.NoError(t, err)
	assert.Equal(t, CalendarEvents, ctype)

	_, err = ParseCalendarType("holidays")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
