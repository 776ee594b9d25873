// Package graph normalises raw JSON feed entries into event records. The
// conversion is pure: no I/O, no shared state, one entry in, one record
// out.
package graph

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
)

// timeLayout is the feed's timestamp format, e.g. "2018-03-01T19:00:00+0100".
const timeLayout = "2006-01-02T15:04:05-0700"

// entry mirrors the fixed field set every page requests:
// id,name,description,place,start_time,end_time,owner,is_canceled,rsvp_status.
type entry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Place       struct {
		Name string `json:"name"`
	} `json:"place"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Owner      struct {
		Name string `json:"name"`
	} `json:"owner"`
	IsCanceled bool   `json:"is_canceled"`
	RSVPStatus string `json:"rsvp_status"`
}

// Normalise converts one raw feed entry into an EventRecord. Missing
// optional fields (description, place, owner, end time) yield empty or
// derived values. An entry that cannot produce even a minimal identity and
// time record fails with an error wrapping domain.ErrParseFailure; callers
// skip and count it without ending the pass.
func Normalise(raw json.RawMessage) (domain.EventRecord, error) {
	var ent entry
	if err := json.Unmarshal(raw, &ent); err != nil {
		return domain.EventRecord{}, fmt.Errorf("%w: decode entry: %w", domain.ErrParseFailure, err)
	}
	if ent.ID == "" {
		return domain.EventRecord{}, fmt.Errorf("%w: entry has no id", domain.ErrParseFailure)
	}

	start, err := time.Parse(timeLayout, ent.StartTime)
	if err != nil {
		return domain.EventRecord{}, fmt.Errorf("%w: entry %s start time: %w", domain.ErrParseFailure, ent.ID, err)
	}

	end := start
	if ent.EndTime != "" {
		if parsed, err := time.Parse(timeLayout, ent.EndTime); err == nil {
			end = parsed
		}
	}

	return domain.EventRecord{
		ExternalID:  ent.ID,
		Kind:        domain.KindEvent,
		Title:       ent.Name,
		Description: ent.Description,
		Location:    ent.Place.Name,
		Start:       start,
		End:         end,
		Timezone:    start.Format("-07:00"),
		Organizer:   ent.Owner.Name,
		Cancelled:   ent.IsCanceled,
		RSVP:        parseRSVP(ent.RSVPStatus),
	}, nil
}

func parseRSVP(s string) domain.RSVPStatus {
	switch s {
	case "attending":
		return domain.RSVPAttending
	case "unsure", "maybe":
		return domain.RSVPUnsure
	case "declined":
		return domain.RSVPDeclined
	case "not_replied":
		return domain.RSVPNotReplied
	default:
		return domain.RSVPNone
	}
}
