package contact

// Outcome is the result of the most recent call to OnSubmit.
type Outcome int

const (
	// OutcomeNone means OnSubmit has not been called yet.
	OutcomeNone Outcome = iota
	// OutcomeInvalid means at least one field failed validation and nothing
	// was sent.
	OutcomeInvalid
	// OutcomeBusy means a submission was already in flight and the call was
	// rejected.
	OutcomeBusy
	// OutcomeSubmitted means the relay accepted the submission.
	OutcomeSubmitted
	// OutcomeRejected means the relay answered with a non-2xx status.
	OutcomeRejected
	// OutcomeFailed means the request did not complete.
	OutcomeFailed
)

var outcomeNames = map[Outcome]string{
	OutcomeNone:      "none",
	OutcomeInvalid:   "invalid",
	OutcomeBusy:      "busy",
	OutcomeSubmitted: "submitted",
	OutcomeRejected:  "rejected",
	OutcomeFailed:    "failed",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Sent reports whether the outcome followed a relay call.
func (o Outcome) Sent() bool {
	return o == OutcomeSubmitted || o == OutcomeRejected || o == OutcomeFailed
}
