// Package dispatch sends batches of calendar invites concurrently and
// aggregates per-call outcomes. All calls in a batch run to completion
// regardless of individual failures; transport errors are tallied, never
// propagated. A batch with at least one delivered invite is a success.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"sync/atomic"

	"calvite/internal/models"
)

// SendFunc performs one call to the calendar-invite endpoint. A non-nil
// error marks the call as failed; it never travels past the batch tally.
type SendFunc func(ctx context.Context, payload models.InvitePayload) error

// FailureMessage is reported when no invite in a batch could be delivered.
const FailureMessage = "Failed to send calendar invites. Please try again."

// Deliberately lighter than RFC 5322: local part, @, domain, dot, suffix.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email passes the light syntactic check used to
// gate dispatch.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// Dispatcher runs dispatch actions. It keeps no per-batch state beyond an
// in-flight guard, so one Dispatcher can serve a whole process.
type Dispatcher struct {
	logger   *slog.Logger
	inFlight atomic.Bool
}

// New creates a Dispatcher.
func New(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Many sends every payload concurrently and settles: no call is cancelled or
// blocked by another's failure. The second result is false when a
// precondition failed (invalid email, empty batch, or a dispatch already in
// flight) and no calls were made.
func (d *Dispatcher) Many(ctx context.Context, email string, payloads []models.InvitePayload, send SendFunc) (models.BatchOutcome, bool) {
	if !ValidEmail(email) || len(payloads) == 0 {
		return models.BatchOutcome{}, false
	}
	if !d.inFlight.CompareAndSwap(false, true) {
		return models.BatchOutcome{}, false
	}
	defer d.inFlight.Store(false)

	results := make([]bool, len(payloads))
	var wg sync.WaitGroup
	for i, p := range payloads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := send(ctx, p)
			if err != nil {
				d.logger.Error("Invite send failed", "title", p.Title, "error", err)
			}
			results[i] = err == nil
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, ok := range results {
		if ok {
			succeeded++
		}
	}

	outcome := models.BatchOutcome{Succeeded: succeeded, Attempted: len(payloads)}
	if succeeded > 0 {
		noun := "invites"
		if succeeded == 1 {
			noun = "invite"
		}
		outcome.Success = true
		outcome.Message = fmt.Sprintf("%d calendar %s sent to %s!", succeeded, noun, email)
	} else {
		outcome.Message = FailureMessage
	}
	d.logger.Info("Batch dispatch finished", "succeeded", succeeded, "attempted", outcome.Attempted)
	return outcome, true
}

// One sends a single invite under the same email and in-flight gating, but
// with fixed singular messages instead of the batch pluralization.
func (d *Dispatcher) One(ctx context.Context, payload models.InvitePayload, send SendFunc) (models.BatchOutcome, bool) {
	if !ValidEmail(payload.Email) {
		return models.BatchOutcome{}, false
	}
	if !d.inFlight.CompareAndSwap(false, true) {
		return models.BatchOutcome{}, false
	}
	defer d.inFlight.Store(false)

	if err := send(ctx, payload); err != nil {
		d.logger.Error("Invite send failed", "title", payload.Title, "error", err)
		return models.BatchOutcome{Attempted: 1, Message: FailureMessage}, true
	}
	return models.BatchOutcome{
		Succeeded: 1,
		Attempted: 1,
		Success:   true,
		Message:   fmt.Sprintf("Calendar invite sent to %s!", payload.Email),
	}, true
}
