package ivr

import "testing"

func testMenu(t *testing.T) *Menu {
	t.Helper()
	m, err := NewReceptionMenu(ReceptionParams{
		ForwardTo:            "+819012345678",
		CallerID:             "+815011112222",
		RecordingCallbackURL: "/ivr/recording-status",
		DialTimeoutSeconds:   30,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return m
}

func TestDecide_Totality(t *testing.T) {
	m := testMenu(t)

	inputs := []string{"", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}
	for _, state := range []StateID{StateReception, StateConfirmReturn} {
		for _, digits := range inputs {
			a, err := m.Decide(state, digits)
			if err != nil {
				t.Fatalf("state %q digits %q: unexpected err: %v", state, digits, err)
			}
			if a.Kind == "" {
				t.Fatalf("state %q digits %q: no action", state, digits)
			}
		}
	}
}

func TestDecide_UnconfiguredDigitFallsBack(t *testing.T) {
	m := testMenu(t)

	for _, digits := range []string{"", "0", "9", "*", "12"} {
		a, err := m.Decide(StateReception, digits)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if a.Kind != ActionInvalid {
			t.Fatalf("digits %q: expected invalid, got %q", digits, a.Kind)
		}
		if a.Say == "" {
			t.Fatalf("invalid action must speak guidance")
		}
		if a.Transfer != nil {
			t.Fatalf("invalid action must not carry a transfer")
		}
	}
}

func TestDecide_DirectTransfer(t *testing.T) {
	m := testMenu(t)

	a, err := m.Decide(StateReception, "2")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.Kind != ActionTransfer {
		t.Fatalf("expected transfer, got %q", a.Kind)
	}
	if a.Transfer.Target != "+819012345678" {
		t.Fatalf("transfer must use the configured destination, got %q", a.Transfer.Target)
	}
	if !a.Transfer.Record {
		t.Fatalf("transfer must carry recording enabled")
	}
	if a.Transfer.RecordingCallbackURL != "/ivr/recording-status" {
		t.Fatalf("unexpected recording callback %q", a.Transfer.RecordingCallbackURL)
	}
}

func TestDecide_BlockedOptionRejects(t *testing.T) {
	m := testMenu(t)

	a, err := m.Decide(StateReception, "1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.Kind != ActionReject {
		t.Fatalf("expected reject, got %q", a.Kind)
	}
}

func TestDecide_ConfirmationSubMenu(t *testing.T) {
	m := testMenu(t)

	a, err := m.Decide(StateReception, "3")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.Kind != ActionPrompt || a.Next != StateConfirmReturn {
		t.Fatalf("expected prompt into confirm-return, got %+v", a)
	}
	if a.Say == "" {
		t.Fatalf("prompt action must carry the target state's prompt")
	}

	a, err = m.Decide(StateConfirmReturn, "1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.Kind != ActionTransfer {
		t.Fatalf("confirm digit 1 must transfer, got %q", a.Kind)
	}

	// Every other input, including none, yields the same closing message.
	var closing string
	for _, digits := range []string{"", "0", "2", "9"} {
		a, err = m.Decide(StateConfirmReturn, digits)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if a.Kind != ActionReject {
			t.Fatalf("digits %q: expected reject, got %q", digits, a.Kind)
		}
		if closing == "" {
			closing = a.Say
		} else if a.Say != closing {
			t.Fatalf("closing message must not vary by input")
		}
	}
}

func TestDecide_UnknownState(t *testing.T) {
	m := testMenu(t)
	if _, err := m.Decide("no-such-state", "1"); err == nil {
		t.Fatalf("expected error for unknown state")
	}
}

func TestEntry(t *testing.T) {
	m := testMenu(t)
	a := m.Entry()
	if a.Kind != ActionPrompt || a.Next != StateReception {
		t.Fatalf("entry must prompt the top state, got %+v", a)
	}
	if a.Say != receptionPrompt {
		t.Fatalf("entry prompt mismatch: %q", a.Say)
	}
}

func TestNewMenu_RequiresFallback(t *testing.T) {
	_, err := NewMenu("a", State{ID: "a", Prompt: "p", Options: map[string]Action{
		"1": {Kind: ActionReject, Say: "x"},
	}})
	if err == nil {
		t.Fatalf("expected error for missing fallback")
	}
}

func TestNewMenu_RejectsNonTerminalFallback(t *testing.T) {
	_, err := NewMenu("a",
		State{
			ID: "a", Prompt: "p",
			Fallback: Action{Kind: ActionPrompt, Next: "a"},
		})
	if err == nil {
		t.Fatalf("expected error for prompt fallback")
	}
}

func TestNewMenu_RejectsDanglingPromptTarget(t *testing.T) {
	_, err := NewMenu("a",
		State{
			ID: "a", Prompt: "p",
			Options:  map[string]Action{"1": {Kind: ActionPrompt, Next: "missing"}},
			Fallback: Action{Kind: ActionInvalid, Say: "x"},
		})
	if err == nil {
		t.Fatalf("expected error for dangling prompt target")
	}
}

func TestNewMenu_RejectsNonDigitOption(t *testing.T) {
	_, err := NewMenu("a",
		State{
			ID: "a", Prompt: "p",
			Options:  map[string]Action{"*": {Kind: ActionReject, Say: "x"}},
			Fallback: Action{Kind: ActionInvalid, Say: "x"},
		})
	if err == nil {
		t.Fatalf("expected error for non-digit option key")
	}
}

// Nesting is not limited to two levels: a confirmation state may prompt
// into a deeper state through the same transition abstraction.
func TestNewMenu_SupportsDeeperNesting(t *testing.T) {
	m, err := NewMenu("l1",
		State{
			ID: "l1", Prompt: "one",
			Options:  map[string]Action{"1": {Kind: ActionPrompt, Next: "l2"}},
			Fallback: Action{Kind: ActionInvalid, Say: "x"},
		},
		State{
			ID: "l2", Prompt: "two",
			Options:  map[string]Action{"1": {Kind: ActionPrompt, Next: "l3"}},
			Fallback: Action{Kind: ActionInvalid, Say: "x"},
		},
		State{
			ID: "l3", Prompt: "three",
			Options:  map[string]Action{"1": {Kind: ActionTransfer, Transfer: &Transfer{Target: "+1555"}}},
			Fallback: Action{Kind: ActionReject, Say: "bye"},
		},
	)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	a, err := m.Decide("l2", "1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.Kind != ActionPrompt || a.Next != "l3" || a.Say != "three" {
		t.Fatalf("unexpected action: %+v", a)
	}
}
