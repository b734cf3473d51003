// Package extract pulls structured event records out of free-form
// AI-generated text. Events arrive inside delimited regions:
//
//	---EVENT---
//	title: Community Garden Workshop
//	date: 2025-03-05
//	time: 2:30 PM
//	---END-EVENT---
//
// Extraction is best effort: candidates missing a required field are
// dropped silently rather than reported as errors.
package extract

import (
	"regexp"
	"strings"

	"calvite/internal/models"
)

var (
	// Singular and plural marker spellings are accepted independently for
	// the opening and closing markers.
	blockRe = regexp.MustCompile(`(?s)---EVENTS?---(.*?)---END-EVENTS?---`)
	titleRe = regexp.MustCompile(`(?im)^[ \t]*title[ \t]*:`)
)

// Events returns every complete event record found in content, preserving
// source order: region order first, then sub-block order within a region.
// A record is complete when title, date and time are all non-empty.
func Events(content string) []models.EventRecord {
	var records []models.EventRecord
	for _, block := range blockRe.FindAllStringSubmatch(content, -1) {
		for _, candidate := range splitCandidates(block[1]) {
			rec := models.EventRecord{
				Title:        field(candidate, "title"),
				Date:         field(candidate, "date"),
				Time:         field(candidate, "time"),
				Location:     field(candidate, "location"),
				Description:  field(candidate, "description"),
				OriginalLink: field(candidate, "originalLink"),
			}
			if rec.Title == "" || rec.Date == "" || rec.Time == "" {
				continue
			}
			records = append(records, rec)
		}
	}
	return records
}

// splitCandidates cuts a region into one candidate per title occurrence, so
// a single region can carry several events back to back.
func splitCandidates(region string) []string {
	marks := titleRe.FindAllStringIndex(region, -1)
	if len(marks) == 0 {
		return nil
	}
	candidates := make([]string, 0, len(marks))
	for i, m := range marks {
		end := len(region)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		candidates = append(candidates, region[m[0]:end])
	}
	return candidates
}

// field captures the value of a single "name: value" line, case-insensitively.
// The value runs from after the colon to the end of the line, trimmed.
// A missing field yields the empty string, never an error.
func field(block, name string) string {
	re := regexp.MustCompile(`(?im)^[ \t]*` + regexp.QuoteMeta(name) + `[ \t]*:[ \t]*(.*)$`)
	m := re.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// StripMarkup deletes every delimited event region, markers included, from
// content so the remaining prose can be displayed on its own. It does not
// parse or validate and is a no-op on already-stripped text.
func StripMarkup(content string) string {
	return blockRe.ReplaceAllString(content, "")
}
