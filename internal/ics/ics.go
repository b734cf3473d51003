// Package ics renders extracted events as iCalendar documents that mail and
// calendar clients can import directly.
package ics

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"calvite/internal/models"
	"calvite/internal/timeparse"
)

// DefaultDuration is assumed for every event because extracted records carry
// a start time but no end time.
const DefaultDuration = time.Hour

// Component builds the VEVENT for one extracted record. The organizer email
// may be empty, in which case no ORGANIZER property is emitted.
func Component(rec models.EventRecord, organizer string) *ical.Component {
	start := timeparse.Instant(rec.Date, rec.Time)

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, fmt.Sprintf("%s@calvite", uuid.New().String()))
	ve.Props.SetText(ical.PropSummary, rec.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, start)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(DefaultDuration))

	if rec.Description != "" {
		ve.Props.SetText(ical.PropDescription, rec.Description)
	}
	if rec.Location != "" {
		ve.Props.SetText(ical.PropLocation, rec.Location)
	}
	if rec.OriginalLink != "" {
		ve.Props.SetText(ical.PropURL, rec.OriginalLink)
	}
	if organizer != "" {
		p := ical.NewProp(ical.PropOrganizer)
		p.SetText(fmt.Sprintf("mailto:%s", organizer))
		ve.Props.Add(p)
	}
	return ve
}

// Calendar wraps a single event component in a VCALENDAR document.
func Calendar(rec models.EventRecord, organizer string) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//calvite//EN")
	cal.Children = append(cal.Children, Component(rec, organizer))
	return cal
}

// Encode renders the calendar document for rec as .ics bytes.
func Encode(rec models.EventRecord, organizer string) ([]byte, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(Calendar(rec, organizer)); err != nil {
		return nil, fmt.Errorf("failed to encode event to iCal format: %w", err)
	}
	return buf.Bytes(), nil
}
