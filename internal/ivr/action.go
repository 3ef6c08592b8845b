package ivr

// Action is the provider-agnostic output of a menu decision.
//
// It must contain *only* information required for the provider adapter
// boundary (e.g., the TwiML builder) to execute the decision.
//
// No provider identity and no provider-specific fields belong here.

type Action struct {
	Kind Kind `json:"kind"`

	// Say is the text spoken to the caller. For ActionPrompt it is the
	// prompt of the state named by Next; for ActionReject/ActionInvalid it
	// is the closing message spoken before hangup.
	Say string `json:"say,omitempty"`

	// Next is the state whose gather collects the following digit.
	// Set only when Kind == ActionPrompt.
	Next StateID `json:"next,omitempty"`

	// Transfer is set only when Kind == ActionTransfer.
	Transfer *Transfer `json:"transfer,omitempty"`
}

type Kind string

const (
	// ActionPrompt re-enters a single-digit gather bound to Next.
	ActionPrompt Kind = "prompt"
	// ActionTransfer bridges the call to an operator-configured target.
	ActionTransfer Kind = "transfer"
	// ActionReject speaks a refusal or closing message and ends the call.
	ActionReject Kind = "reject"
	// ActionInvalid speaks a guidance message and ends the call. It is the
	// defined result for unrecognized or missing digits, never an error.
	ActionInvalid Kind = "invalid"
)

// Transfer describes a bridge to a dial target. All fields come from
// operator configuration, never from caller-supplied data.
type Transfer struct {
	// Target is a PSTN number (E.164) or a sip: URI.
	Target string `json:"target"`

	// CallerID overrides the caller identity presented to the target.
	CallerID string `json:"caller_id,omitempty"`

	// Record enables recording from answer; RecordingCallbackURL receives
	// the recording-complete webhook when set.
	Record               bool   `json:"record,omitempty"`
	RecordingCallbackURL string `json:"recording_callback_url,omitempty"`

	// TimeoutSeconds bounds ringing; the provider's default behavior
	// applies when the target does not answer in time.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}
