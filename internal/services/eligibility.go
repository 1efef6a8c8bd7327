package services

import (
	"fmt"
	"time"

	"github.com/hypeshop/raffle-backend/internal/models"
)

// EligibilityResult is the outcome of evaluating a participant against a
// raffle's requirements. Eligible is true iff Reasons is empty.
type EligibilityResult struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons"`
}

// EvaluateEligibility checks a participant against a raffle's requirements.
// All checks run independently and every failing reason is collected. The
// function is pure: no side effects, safe to call repeatedly and concurrently,
// and it is re-run at entry time and page render time rather than cached.
func EvaluateEligibility(raffle *models.Raffle, participant *models.Participant, completedOrders int64, now time.Time) *EligibilityResult {
	var reasons []string

	if raffle.RequireEmailVerification && !participant.EmailVerified {
		reasons = append(reasons, "Email verification required")
	}

	if raffle.MinAccountAgeDays > 0 && participant.AccountAgeDays(now) < raffle.MinAccountAgeDays {
		reasons = append(reasons, fmt.Sprintf("Account must be at least %d days old", raffle.MinAccountAgeDays))
	}

	if raffle.RequirePreviousPurchase && completedOrders == 0 {
		reasons = append(reasons, "Previous purchase required")
	}

	return &EligibilityResult{
		Eligible: len(reasons) == 0,
		Reasons:  reasons,
	}
}
