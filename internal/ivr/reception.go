package ivr

// Default reception tree. Prompts are ja-JP; the voice/language pair is
// applied by the telephony adapter, not here.

const (
	// StateReception is the top-level menu.
	StateReception StateID = "reception"
	// StateConfirmReturn confirms a return/exchange inquiry before
	// transferring.
	StateConfirmReturn StateID = "confirm-return"
)

const (
	receptionPrompt     = "営業の方は1を、お客様は2を、返品・交換のお問い合わせは3を押してください。"
	confirmReturnPrompt = "返品・交換のお問い合わせの場合は1を押してください。"
	salesRejectMessage  = "営業のお電話はお断りしています。"
	invalidInputMessage = "有効な番号を押してください。"
	confirmCloseMessage = "お問い合わせありがとうございました。ウェブサイトのお問い合わせフォームもご利用ください。"
)

// InvalidInput is the terminal action for requests that cannot be matched
// to any configured option, including gathers naming a state the menu
// does not define.
func InvalidInput() Action {
	return Action{Kind: ActionInvalid, Say: invalidInputMessage}
}

// ReceptionParams carries the operator-configured transfer target for the
// reception menu. Values are trusted configuration, not caller input.
type ReceptionParams struct {
	// ForwardTo is the operator's number all transfers bridge to.
	ForwardTo string
	// CallerID is presented to the operator instead of the caller's number.
	CallerID string
	// RecordingCallbackURL receives the recording-complete webhook.
	RecordingCallbackURL string
	// DialTimeoutSeconds bounds ringing on the transfer leg.
	DialTimeoutSeconds int
}

// NewReceptionMenu builds the default tree:
//
//	reception: 1 = sales (rejected), 2 = customer (transfer, recorded),
//	           3 = return/exchange (confirmation sub-menu)
//	confirm-return: 1 = transfer, anything else = closing message
func NewReceptionMenu(p ReceptionParams) (*Menu, error) {
	transfer := Action{
		Kind: ActionTransfer,
		Transfer: &Transfer{
			Target:               p.ForwardTo,
			CallerID:             p.CallerID,
			Record:               true,
			RecordingCallbackURL: p.RecordingCallbackURL,
			TimeoutSeconds:       p.DialTimeoutSeconds,
		},
	}

	return NewMenu(StateReception,
		State{
			ID:     StateReception,
			Prompt: receptionPrompt,
			Options: map[string]Action{
				"1": {Kind: ActionReject, Say: salesRejectMessage},
				"2": transfer,
				"3": {Kind: ActionPrompt, Next: StateConfirmReturn},
			},
			Fallback: Action{Kind: ActionInvalid, Say: invalidInputMessage},
		},
		State{
			ID:     StateConfirmReturn,
			Prompt: confirmReturnPrompt,
			Options: map[string]Action{
				"1": transfer,
			},
			Fallback: Action{Kind: ActionReject, Say: confirmCloseMessage},
		},
	)
}
