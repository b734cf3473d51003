// Package invite assembles outbound invite payloads from extracted event
// records. Building a payload has no side effects and hits no network.
package invite

import (
	"fmt"
	"strings"

	"calvite/internal/models"
	"calvite/internal/timeparse"
)

// Build derives the invite payload for one event. curatedBy supplies the
// attribution line of the description; when empty a default is derived from
// the organization name. The trailing "view original" segment only exists
// when the record carries a link.
func Build(rec models.EventRecord, organization, curatedBy, email string) models.InvitePayload {
	if curatedBy == "" {
		curatedBy = fmt.Sprintf("Curated by %s", organization)
	}
	parts := []string{curatedBy, rec.Description}
	if rec.OriginalLink != "" {
		parts = append(parts, fmt.Sprintf("View original event: %s", rec.OriginalLink))
	}
	return models.InvitePayload{
		Email:       email,
		Title:       fmt.Sprintf("[%s] %s", organization, rec.Title),
		Date:        timeparse.CanonicalInstant(rec.Date, rec.Time),
		Location:    rec.Location,
		Description: strings.Join(parts, "\n\n"),
		URL:         rec.OriginalLink,
	}
}
