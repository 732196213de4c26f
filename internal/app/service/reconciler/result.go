package reconciler

// Outcome describes what a delivery did to local state.
type Outcome string

const (
	// OutcomeApplied: the event mutated the subscription record.
	OutcomeApplied Outcome = "applied"
	// OutcomeIgnored: unrecognized or unusable event, dropped on purpose.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeStale: the event is older than the state already applied.
	OutcomeStale Outcome = "stale"
	// OutcomeMissing: update/delete against a record that no longer exists.
	// Reported as a handled miss, never as a processing failure.
	OutcomeMissing Outcome = "missing_target"
	// OutcomeFailed: the handler could not complete.
	OutcomeFailed Outcome = "failed"
)

// Disposition tells the caller how to treat the delivery. The handler never
// acknowledges by itself; acknowledgment policy lives at the HTTP layer.
type Disposition int

const (
	DispositionSuccess Disposition = iota
	// DispositionRetryable: transient failure (store unreachable). Whether to
	// acknowledge anyway is the caller's call.
	DispositionRetryable
	// DispositionTerminal: retrying this delivery cannot succeed.
	DispositionTerminal
)

// Result is the typed outcome of applying one event.
type Result struct {
	Outcome     Outcome
	Disposition Disposition
	Err         error
}

func applied() Result {
	return Result{Outcome: OutcomeApplied, Disposition: DispositionSuccess}
}

func ignored() Result {
	return Result{Outcome: OutcomeIgnored, Disposition: DispositionSuccess}
}

func stale() Result {
	return Result{Outcome: OutcomeStale, Disposition: DispositionSuccess}
}

func missingTarget() Result {
	return Result{Outcome: OutcomeMissing, Disposition: DispositionSuccess}
}

func retryable(err error) Result {
	return Result{Outcome: OutcomeFailed, Disposition: DispositionRetryable, Err: err}
}

func terminal(err error) Result {
	return Result{Outcome: OutcomeFailed, Disposition: DispositionTerminal, Err: err}
}
