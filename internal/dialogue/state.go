package dialogue

// State is a step of the IVR call flow.
type State string

const (
	StateGreeting       State = "greeting"
	StateAskIssue       State = "ask_issue"
	StateAskSubCategory State = "ask_sub_category"
	StateAskLocation    State = "ask_location"
	StateAskLandmark    State = "ask_landmark"
	StateAskPhone       State = "ask_phone"
	StateConfirm        State = "confirm"
	StateComplete       State = "complete"
)

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	switch s {
	case StateGreeting, StateAskIssue, StateAskSubCategory, StateAskLocation,
		StateAskLandmark, StateAskPhone, StateConfirm, StateComplete:
		return true
	}
	return false
}

// ExpectedInput is the human-readable hint of what the caller should say
// while the session is in s.
func (s State) ExpectedInput() string {
	switch s {
	case StateGreeting:
		return "greeting or complaint description"
	case StateAskIssue:
		return "complaint description"
	case StateAskSubCategory:
		return "specific issue details"
	case StateAskLocation:
		return "location/address"
	case StateAskLandmark:
		return "nearby landmark"
	case StateAskPhone:
		return "10-digit mobile number"
	case StateConfirm:
		return "yes/no confirmation"
	case StateComplete:
		return "none - complaint registered"
	}
	return "text input"
}
