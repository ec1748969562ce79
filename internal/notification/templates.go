package notification

import (
	"fmt"
	"strings"

	"go-hrops/internal/events"
)

// LifecycleMessage renders the email for a suspension lifecycle event.
// ok is false for events nobody is notified about.
func LifecycleMessage(name string, e events.SuspensionLifecycleEvent) (subject, body string, ok bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", name)

	switch e.EventType {
	case events.EventSuspensionCreated:
		subject = "Suspension submitted for approval"
		fmt.Fprintf(&b, "A suspension (strike %d) has been filed and is waiting for approval.\n", e.StrikeNumber)
	case events.EventSuspensionActivated:
		subject = "Your suspension is now active"
		fmt.Fprintf(&b, "Your suspension (strike %d) is active", e.StrikeNumber)
		if e.SuspensionEnd != nil {
			fmt.Fprintf(&b, " until %s", e.SuspensionEnd.Format("2 January 2006"))
		}
		b.WriteString(".\n")
		if e.DeductionAmount != "" && e.DeductionAmount != "0" && e.DeductionAmount != "0.00" {
			fmt.Fprintf(&b, "A salary deduction of %s has been applied.\n", e.DeductionAmount)
		}
	case events.EventSuspensionRejected:
		subject = "Suspension withdrawn"
		b.WriteString("A suspension filed against you was rejected and has no effect.\n")
	case events.EventSuspensionCompleted:
		subject = "Your suspension has ended"
		b.WriteString("Your suspension period is over. Welcome back.\n")
	case events.EventEmployeeTerminated:
		subject = "Employment terminated"
		b.WriteString("Your employment has been terminated.\n")
	default:
		return "", "", false
	}

	if e.Reason != "" {
		fmt.Fprintf(&b, "\nReason: %s\n", e.Reason)
	}
	b.WriteString("\nHR Operations")
	return subject, b.String(), true
}
