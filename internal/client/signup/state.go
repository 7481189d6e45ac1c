package signup

// State is a step of the signup flow.
type State int

const (
	CollectingEmail State = iota
	CollectingPassword
	CollectingLocation
	CollectingTopics
	AwaitingVerification
	Confirmed
	Abandoned
)

var stateNames = [...]string{
	CollectingEmail:      "collecting-email",
	CollectingPassword:   "collecting-password",
	CollectingLocation:   "collecting-location",
	CollectingTopics:     "collecting-topics",
	AwaitingVerification: "awaiting-verification",
	Confirmed:            "confirmed",
	Abandoned:            "abandoned",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Confirmed || s == Abandoned
}
