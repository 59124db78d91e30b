package payments

// Status represents the payment lifecycle state
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusSuccess  Status = "SUCCESS"
	StatusFailed   Status = "FAILED"
	StatusRefunded Status = "REFUNDED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusFailed || s == StatusRefunded
}

// CanTransitionTo enforces PENDING -> {SUCCESS, FAILED} and SUCCESS -> REFUNDED
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusSuccess || next == StatusFailed
	case StatusSuccess:
		return next == StatusRefunded
	default:
		return false
	}
}
