package ics

import (
	"strings"
	"testing"

	"calvite/internal/models"
)

func testRecord() models.EventRecord {
	return models.EventRecord{
		Title:        "Garden Workshop",
		Date:         "2025-03-05",
		Time:         "2:30 PM",
		Location:     "Ag Lab",
		Description:  "Soil health basics.",
		OriginalLink: "https://example.org/e/1",
	}
}

func TestEncode(t *testing.T) {
	data, err := Encode(testRecord(), "events@gpedc.org")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	doc := string(data)

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"SUMMARY:Garden Workshop",
		"LOCATION:Ag Lab",
		"ORGANIZER:mailto:events@gpedc.org",
		"@calvite",
		"END:VEVENT",
		"END:VCALENDAR",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}

	// Start derives from the normalized instant, end one hour later.
	if !strings.Contains(doc, "20250305T143000") {
		t.Errorf("DTSTART not derived from canonical instant:\n%s", doc)
	}
	if !strings.Contains(doc, "20250305T153000") {
		t.Errorf("DTEND not one hour after start:\n%s", doc)
	}
}

func TestEncodeOmitsEmptyProps(t *testing.T) {
	rec := testRecord()
	rec.Location = ""
	rec.Description = ""
	rec.OriginalLink = ""

	data, err := Encode(rec, "")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	doc := string(data)
	for _, absent := range []string{"LOCATION", "DESCRIPTION", "URL:", "ORGANIZER"} {
		if strings.Contains(doc, absent) {
			t.Errorf("document should not contain %q:\n%s", absent, doc)
		}
	}
}

func TestComponentUIDsAreUnique(t *testing.T) {
	a := Component(testRecord(), "")
	b := Component(testRecord(), "")
	ua := a.Props.Get("UID").Value
	ub := b.Props.Get("UID").Value
	if ua == "" || ua == ub {
		t.Errorf("expected distinct non-empty UIDs, got %q and %q", ua, ub)
	}
}
