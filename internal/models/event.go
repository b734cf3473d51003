package models

// EventRecord is one calendar event extracted from AI-generated text.
// This is an internal representation, independent of any delivery target.
// A record is only materialized when title, date and time are all present;
// the raw date and time strings stay unnormalized until a payload is built.
type EventRecord struct {
	Title        string // Summary or title of the event
	Date         string // Raw date, e.g. "2025-03-05", "March 5, 2025" or "3/5/2025"
	Time         string // Raw time, e.g. "2:30 PM" or "14:30"
	Location     string // Location of the event, may be empty
	Description  string // Detailed description, may be empty
	OriginalLink string // Optional reference URL, empty when absent
}

// InvitePayload is the outbound body for one calendar invite. It is derived
// fresh from an EventRecord for every dispatch attempt, never cached.
type InvitePayload struct {
	Email       string `json:"email"`
	Title       string `json:"title"` // organization-prefixed
	Date        string `json:"date"`  // canonical instant with the fixed offset
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// BatchOutcome aggregates one dispatch action over a batch of invites.
// A batch with at least one delivered invite counts as a success.
type BatchOutcome struct {
	Succeeded int
	Attempted int
	Success   bool
	Message   string
}
