// Package ical normalises iCalendar documents into event records. One
// malformed VEVENT is skipped and counted; it never sinks the rest of the
// document.
package ical

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
)

// NormaliseDocument parses a whole iCal document into EventRecords tagged
// with the given kind. The returned count is the number of VEVENTs skipped
// because they could not yield a minimal identity+time record. A non-nil
// error means the document itself was unparseable.
//
// now anchors recurrence handling: birthday records are advanced to their
// next yearly occurrence so the stored entry is the upcoming one.
func NormaliseDocument(body []byte, kind domain.EventKind, now time.Time) ([]domain.EventRecord, int, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: parse iCal document: %w", domain.ErrParseFailure, err)
	}

	records := make([]domain.EventRecord, 0, len(cal.Events()))
	skipped := 0
	for _, ve := range cal.Events() {
		rec, err := normaliseVEvent(ve, kind, now)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func normaliseVEvent(ve *ical.VEvent, kind domain.EventKind, now time.Time) (domain.EventRecord, error) {
	uid := propValue(ve, ical.ComponentPropertyUniqueId)
	if uid == "" {
		return domain.EventRecord{}, fmt.Errorf("%w: VEVENT has no UID", domain.ErrParseFailure)
	}

	start, err := ve.GetStartAt()
	if err != nil || start.IsZero() {
		return domain.EventRecord{}, fmt.Errorf("%w: VEVENT %s has no usable DTSTART", domain.ErrParseFailure, uid)
	}
	end, err := ve.GetEndAt()
	if err != nil || end.IsZero() {
		end = start
	}

	rec := domain.EventRecord{
		ExternalID:  uid,
		Kind:        kind,
		Title:       propValue(ve, ical.ComponentPropertySummary),
		Description: propValue(ve, ical.ComponentPropertyDescription),
		Location:    propValue(ve, ical.ComponentPropertyLocation),
		Start:       start,
		End:         end,
		Timezone:    start.Location().String(),
		Organizer:   organizer(ve),
		Cancelled:   strings.EqualFold(propValue(ve, "STATUS"), "CANCELLED"),
		RSVP:        viewerRSVP(ve),
	}

	if rule := propValue(ve, ical.ComponentPropertyRrule); rule != "" {
		normalised, next, err := applyRecurrence(rule, start, end, now)
		if err != nil {
			return domain.EventRecord{}, err
		}
		rec.Recurrence = normalised
		if kind == domain.KindBirthday && !next.start.IsZero() {
			// Store the upcoming occurrence, not the historical DTSTART.
			rec.Start = next.start
			rec.End = next.end
			rec.Timezone = next.start.Location().String()
		}
	}

	return rec, nil
}

type occurrence struct {
	start time.Time
	end   time.Time
}

// applyRecurrence normalises the RRULE and computes the next occurrence at
// or after now, preserving the event's duration.
func applyRecurrence(rule string, start, end, now time.Time) (string, occurrence, error) {
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return "", occurrence{}, fmt.Errorf("%w: RRULE %q: %w", domain.ErrParseFailure, rule, err)
	}
	r.DTStart(start)

	next := r.After(now.AddDate(0, 0, -1), true)
	if next.IsZero() {
		return r.String(), occurrence{}, nil
	}
	return r.String(), occurrence{start: next, end: next.Add(end.Sub(start))}, nil
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

// organizer prefers the CN display-name parameter over the raw value,
// which is usually a mailto URI.
func organizer(ve *ical.VEvent) string {
	p := ve.GetProperty("ORGANIZER")
	if p == nil {
		return ""
	}
	if cns, ok := p.ICalParameters["CN"]; ok && len(cns) > 0 {
		return cns[0]
	}
	return strings.TrimPrefix(p.Value, "mailto:")
}

// viewerRSVP maps the attendee participation status onto the feed's RSVP
// vocabulary.
func viewerRSVP(ve *ical.VEvent) domain.RSVPStatus {
	p := ve.GetProperty("ATTENDEE")
	if p == nil {
		return domain.RSVPNone
	}
	partstat := ""
	if vals, ok := p.ICalParameters["PARTSTAT"]; ok && len(vals) > 0 {
		partstat = vals[0]
	}
	switch strings.ToUpper(partstat) {
	case "ACCEPTED":
		return domain.RSVPAttending
	case "TENTATIVE":
		return domain.RSVPUnsure
	case "DECLINED":
		return domain.RSVPDeclined
	case "NEEDS-ACTION":
		return domain.RSVPNotReplied
	default:
		return domain.RSVPNone
	}
}
