package poller

// State is the lifecycle position of one poll.
type State string

const (
	StateIdle      State = "idle"
	StatePolling   State = "polling"
	StateConfirmed State = "confirmed"
	StateCancelled State = "cancelled"
	StateExpired   State = "expired"
	StateUnderpaid State = "underpaid"
	StateTimedOut  State = "timed_out"
	StateStopped   State = "stopped"
)

// Terminal reports whether the poll has finished.
func (s State) Terminal() bool {
	switch s {
	case StateConfirmed, StateCancelled, StateExpired, StateUnderpaid, StateTimedOut, StateStopped:
		return true
	}
	return false
}

// Message is the text shown to the payer for the state.
func (s State) Message() string {
	switch s {
	case StatePolling:
		return "Waiting for payment confirmation."
	case StateConfirmed:
		return "Payment confirmed. Your credits have been added."
	case StateCancelled:
		return "The payment was cancelled."
	case StateExpired:
		return "The payment link has expired."
	case StateUnderpaid:
		return "The amount paid is below the price of one credit. No credits were added; contact support."
	case StateTimedOut:
		return "We have not received a confirmation yet. Refresh the page to check again."
	case StateStopped:
		return "Stopped checking the payment status."
	default:
		return ""
	}
}
