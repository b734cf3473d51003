package extract

import (
	"strings"
	"testing"
)

const singleBlock = `The assistant found something for you.

---EVENT---
title:  Community Garden Workshop
date: 2025-03-05
time: 2:30 PM
location: USDA Ag Lab
description: Hands-on session about soil health.
originalLink: https://example.org/events/garden
---END-EVENT---

Let me know if you want more.`

func TestEventsSingleBlock(t *testing.T) {
	records := Events(singleBlock)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Title != "Community Garden Workshop" {
		t.Errorf("title not trimmed/extracted: %q", rec.Title)
	}
	if rec.Date != "2025-03-05" {
		t.Errorf("unexpected date: %q", rec.Date)
	}
	if rec.Time != "2:30 PM" {
		t.Errorf("unexpected time: %q", rec.Time)
	}
	if rec.Location != "USDA Ag Lab" {
		t.Errorf("unexpected location: %q", rec.Location)
	}
	if rec.Description != "Hands-on session about soil health." {
		t.Errorf("unexpected description: %q", rec.Description)
	}
	if rec.OriginalLink != "https://example.org/events/garden" {
		t.Errorf("unexpected link: %q", rec.OriginalLink)
	}
}

func TestEventsPluralMarkersAndMultipleCandidates(t *testing.T) {
	content := `---EVENTS---
title: First
date: 3/5/2025
time: 10:00
title: Second
date: March 6, 2025
time: 9:00 AM
location: Main Hall
---END-EVENT---`

	records := Events(content)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Title != "First" || records[1].Title != "Second" {
		t.Errorf("source order not preserved: %q, %q", records[0].Title, records[1].Title)
	}
	if records[0].Location != "" {
		t.Errorf("field from second candidate leaked into first: %q", records[0].Location)
	}
	if records[1].Location != "Main Hall" {
		t.Errorf("unexpected location on second record: %q", records[1].Location)
	}
}

func TestEventsDropsIncompleteCandidates(t *testing.T) {
	for name, content := range map[string]string{
		"missing title": "---EVENT---\ndate: 2025-01-01\ntime: 1:00 PM\n---END-EVENT---",
		"missing date":  "---EVENT---\ntitle: X\ntime: 1:00 PM\n---END-EVENT---",
		"missing time":  "---EVENT---\ntitle: X\ndate: 2025-01-01\n---END-EVENT---",
		"empty value":   "---EVENT---\ntitle:\ndate: 2025-01-01\ntime: 1:00 PM\n---END-EVENT---",
	} {
		if got := Events(content); len(got) != 0 {
			t.Errorf("%s: expected 0 records, got %d", name, len(got))
		}
	}
}

func TestEventsCaseInsensitiveFieldNames(t *testing.T) {
	content := "---EVENT---\nTitle: Mixed Case\nDATE: 2025-01-01\nTime: 1:00 PM\nOriginalLink: https://example.org\n---END-EVENT---"
	records := Events(content)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Title != "Mixed Case" || records[0].OriginalLink != "https://example.org" {
		t.Errorf("case-insensitive extraction failed: %+v", records[0])
	}
}

func TestEventsRegionOrder(t *testing.T) {
	content := "---EVENT---\ntitle: A\ndate: 2025-01-01\ntime: 1:00 PM\n---END-EVENT---\nprose\n---EVENTS---\ntitle: B\ndate: 2025-01-02\ntime: 2:00 PM\n---END-EVENTS---"
	records := Events(content)
	if len(records) != 2 || records[0].Title != "A" || records[1].Title != "B" {
		t.Fatalf("region order not preserved: %+v", records)
	}
}

func TestStripMarkup(t *testing.T) {
	content := "before\n---EVENT---\ntitle: A\n---END-EVENT---\nbetween\n---EVENTS---\ntitle: B\n---END-EVENTS---\nafter"
	stripped := StripMarkup(content)

	if strings.Contains(stripped, "---EVENT") || strings.Contains(stripped, "title:") {
		t.Errorf("markers or contents survived stripping: %q", stripped)
	}
	for _, keep := range []string{"before", "between", "after"} {
		if !strings.Contains(stripped, keep) {
			t.Errorf("surrounding text %q was lost: %q", keep, stripped)
		}
	}

	// Idempotent: a second pass changes nothing.
	if again := StripMarkup(stripped); again != stripped {
		t.Errorf("StripMarkup is not idempotent: %q vs %q", again, stripped)
	}
}

func TestStripMarkupNoBlocks(t *testing.T) {
	content := "just some prose, nothing delimited"
	if got := StripMarkup(content); got != content {
		t.Errorf("text without blocks was modified: %q", got)
	}
}
