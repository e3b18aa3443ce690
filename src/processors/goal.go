// backend/src/processors/goal.go
package processors

import (
	"time"

	"github.com/username/financeflow/backend/src/models"
)

// Goal progress states. Derived from the linked account balance on every
// call, never stored. A stored "cancelled" status coming from the API is
// passed through untouched but never produced here.
const (
	GoalNotStarted = "not_started"
	GoalInProgress = "in_progress"
	GoalCompleted  = "completed"
	GoalCancelled  = "cancelled"
)

// GoalStatus is one goal with its derived progress and, when a deadline
// exists, the monthly savings plan to reach it.
type GoalStatus struct {
	Goal            models.Goal `json:"goal"`
	CurrentAmount   float64     `json:"currentAmount"`
	ProgressPercent float64     `json:"progressPercent"` // clamped to [0,100]
	Status          string      `json:"status"`

	// Savings plan; nil when the goal has no deadline.
	MonthsRemaining *int     `json:"monthsRemaining,omitempty"`
	MonthlyTarget   *float64 `json:"monthlyTarget,omitempty"`
}

// GoalProgress derives a goal's progress from its linked account's current
// balance. A zero target counts as trivially met for any non-negative
// balance.
func GoalProgress(goal models.Goal, accounts []models.Account, now time.Time) GoalStatus {
	var balance float64
	for i := range accounts {
		if accounts[i].ID == goal.AccountID {
			balance = accounts[i].Balance
			break
		}
	}

	status := GoalStatus{
		Goal:          goal,
		CurrentAmount: balance,
	}

	if goal.TargetAmount > 0 {
		pct := balance / goal.TargetAmount * 100
		if pct > 100 {
			pct = 100
		}
		if pct < 0 {
			pct = 0
		}
		status.ProgressPercent = pct
	} else if balance >= 0 {
		status.ProgressPercent = 100
	}

	switch {
	case goal.Status == GoalCancelled:
		status.Status = GoalCancelled
	case status.ProgressPercent >= 100:
		status.Status = GoalCompleted
	case balance <= 0:
		status.Status = GoalNotStarted
	default:
		status.Status = GoalInProgress
	}

	if goal.Deadline != "" {
		dYear, dMonth, _ := DateParts(goal.Deadline)
		monthsRemaining := (dYear-now.Year())*12 + (dMonth - int(now.Month()))
		if monthsRemaining < 1 {
			monthsRemaining = 1
		}

		remaining := goal.TargetAmount - balance
		var monthlyTarget float64
		if remaining > 0 {
			monthlyTarget = remaining / float64(monthsRemaining)
		}
		status.MonthsRemaining = &monthsRemaining
		status.MonthlyTarget = &monthlyTarget
	}

	return status
}

// BuildGoalStatuses derives every goal's status, in the goals' stored order.
func BuildGoalStatuses(snap *models.Snapshot, now time.Time) []GoalStatus {
	statuses := make([]GoalStatus, 0, len(snap.Goals))
	for _, g := range snap.Goals {
		statuses = append(statuses, GoalProgress(g, snap.Accounts, now))
	}
	return statuses
}
