package domain

// Goal is a named savings target
type Goal struct {
	Name   string  `json:"name"`   // Goal name
	Target float64 `json:"target"` // Target amount
}

// Savings Model
type Savings struct {
	Amount float64 `json:"amount"`         // Total saved so far
	Goal   *Goal   `json:"goal,omitempty"` // Optional savings goal
	PIN    string  `json:"pin,omitempty"`  // Optional lock gate, empty means unlocked
}

// Locked reports whether a PIN gates access to the savings record
func (s Savings) Locked() bool {
	return s.PIN != ""
}

// Progress returns the goal completion percentage, 0 when there is no usable goal
func (s Savings) Progress() float64 {
	if s.Goal == nil || s.Goal.Target <= 0 {
		return 0
	}
	return s.Amount * 100 / s.Goal.Target
}

// SavingsUpdate is a partial savings record; nil fields are preserved on merge
type SavingsUpdate struct {
	Amount *float64 // Replaces the total outright
	Goal   *Goal    // Replaces the goal
	PIN    *string  // Replaces the PIN
}

// Merge applies the given fields of u onto s and returns the result
func (s Savings) Merge(u SavingsUpdate) Savings {
	merged := s
	if u.Amount != nil {
		merged.Amount = *u.Amount
	}
	if u.Goal != nil {
		goal := *u.Goal // Copy so the caller cannot mutate the stored goal
		merged.Goal = &goal
	}
	if u.PIN != nil {
		merged.PIN = *u.PIN
	}
	return merged
}
