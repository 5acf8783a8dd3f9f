package onboarding

// State is a step of the onboarding flow.
type State string

const (
	StateSearch        State = "search"
	StateVerify        State = "verify"
	StateCreateAccount State = "create_account"
	StateAcceptTerms   State = "accept_terms"
	StateSuccess       State = "success"
)

// Path is the flow URL of the state.
func (s State) Path() string {
	switch s {
	case StateVerify:
		return "/onboarding/verify"
	case StateCreateAccount:
		return "/onboarding/create-account"
	case StateAcceptTerms:
		return "/onboarding/terms"
	case StateSuccess:
		return "/onboarding/success"
	default:
		return "/onboarding/search"
	}
}

type DecisionKind int

const (
	DecisionProceed DecisionKind = iota
	DecisionRedirect
)

// Decision is the outcome of a guard or a transition. A redirect is not an error.
type Decision struct {
	Kind  DecisionKind
	State State
}

func Proceed(s State) Decision {
	return Decision{Kind: DecisionProceed, State: s}
}

func RedirectTo(s State) Decision {
	return Decision{Kind: DecisionRedirect, State: s}
}

func (d Decision) Redirected() bool {
	return d.Kind == DecisionRedirect
}

var prerequisites = map[State][]StepKey{
	StateSearch:        nil,
	StateVerify:        {KeySearchQuery},
	StateCreateAccount: {KeyVerifiedBusiness},
	StateAcceptTerms:   {KeyVerifiedBusiness, KeyAccountDraft},
}

// Guard decides whether a visitor holding the keys reported by present may enter s.
// Every failed guard sends the visitor back to Search. Success is only reachable
// through activation, so it is never enterable here.
func Guard(s State, present func(StepKey) bool) Decision {
	required, ok := prerequisites[s]
	if !ok {
		return RedirectTo(StateSearch)
	}
	for _, key := range required {
		if !present(key) {
			return RedirectTo(StateSearch)
		}
	}
	return Proceed(s)
}
