package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the raffle services. Handlers map these to HTTP
// statuses at the action boundary; nothing below them panics across a request.
var (
	ErrRaffleNotFound      = errors.New("raffle not found")
	ErrSlugTaken           = errors.New("a raffle with this slug already exists")
	ErrInvalidStatus       = errors.New("raffle is not in a valid status for this operation")
	ErrDrawingInProgress   = errors.New("a drawing is already in progress for this raffle")
	ErrNoConfirmedEntries  = errors.New("raffle has no confirmed entries to draw from")
	ErrSelectionMissing    = errors.New("no winner selection exists; start the drawing first")
	ErrAllRevealed         = errors.New("all winners have already been revealed")
	ErrRegistrationClosed  = errors.New("registration is not open for this raffle")
	ErrEntryLimitReached   = errors.New("participant has reached the entry limit for this raffle")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
)

// NotEligibleError reports a failed eligibility evaluation with every reason
// that applied, not just the first.
type NotEligibleError struct {
	Reasons []string
}

func (e *NotEligibleError) Error() string {
	return fmt.Sprintf("participant is not eligible: %s", strings.Join(e.Reasons, "; "))
}
