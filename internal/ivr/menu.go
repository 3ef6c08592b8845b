package ivr

import (
	"fmt"
	"strings"
)

// Menu is the call-routing decision tree: an explicit state/transition
// table keyed by the single digit a caller pressed.
//
// Decide is pure. No side effects (no provider calls, no storage) —
// rendering the resulting Action into markup belongs to the telephony
// adapter.
//
// Totality: for every state, every digit 0-9 and "no digit" resolves to
// exactly one Action. Digits without a configured option resolve through
// the state's mandatory Fallback; NewMenu rejects states that leave the
// fallback implicit.
//
// MenuState is not stored here between requests. The provider tracks it
// externally via which gather endpoint it submits to next.

type StateID string

// State is one menu screen: a prompt, the digit options it accepts, and
// the fallback for everything else.
type State struct {
	ID     StateID
	Prompt string

	// Options maps a single digit ("0".."9") to its Action.
	Options map[string]Action

	// Fallback handles every input not present in Options, including an
	// empty gather (timeout / no keypress). It must be terminal
	// (ActionReject or ActionInvalid): the tree does not re-prompt
	// indefinitely on persistent caller error.
	Fallback Action
}

type Menu struct {
	entry  StateID
	states map[StateID]State
}

// NewMenu validates the transition table and returns the menu.
func NewMenu(entry StateID, states ...State) (*Menu, error) {
	m := &Menu{entry: entry, states: make(map[StateID]State, len(states))}
	for _, s := range states {
		if s.ID == "" {
			return nil, fmt.Errorf("ivr: state without id")
		}
		if _, dup := m.states[s.ID]; dup {
			return nil, fmt.Errorf("ivr: duplicate state %q", s.ID)
		}
		m.states[s.ID] = s
	}
	if _, ok := m.states[entry]; !ok {
		return nil, fmt.Errorf("ivr: entry state %q not defined", entry)
	}
	for _, s := range m.states {
		if err := m.validateState(s); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Menu) validateState(s State) error {
	if strings.TrimSpace(s.Prompt) == "" {
		return fmt.Errorf("ivr: state %q has no prompt", s.ID)
	}
	switch s.Fallback.Kind {
	case ActionReject, ActionInvalid:
	case "":
		return fmt.Errorf("ivr: state %q has no fallback; the digit table must be total", s.ID)
	default:
		return fmt.Errorf("ivr: state %q fallback must be terminal, got %q", s.ID, s.Fallback.Kind)
	}
	if strings.TrimSpace(s.Fallback.Say) == "" {
		return fmt.Errorf("ivr: state %q fallback has no spoken message", s.ID)
	}
	for digit, a := range s.Options {
		if len(digit) != 1 || digit[0] < '0' || digit[0] > '9' {
			return fmt.Errorf("ivr: state %q option %q is not a single digit", s.ID, digit)
		}
		if err := m.validateAction(s.ID, digit, a); err != nil {
			return err
		}
	}
	return nil
}

func (m *Menu) validateAction(id StateID, digit string, a Action) error {
	switch a.Kind {
	case ActionPrompt:
		if _, ok := m.states[a.Next]; !ok {
			return fmt.Errorf("ivr: state %q option %q targets unknown state %q", id, digit, a.Next)
		}
	case ActionTransfer:
		if a.Transfer == nil || strings.TrimSpace(a.Transfer.Target) == "" {
			return fmt.Errorf("ivr: state %q option %q transfer has no target", id, digit)
		}
	case ActionReject, ActionInvalid:
		if strings.TrimSpace(a.Say) == "" {
			return fmt.Errorf("ivr: state %q option %q has no spoken message", id, digit)
		}
	default:
		return fmt.Errorf("ivr: state %q option %q has unknown action kind %q", id, digit, a.Kind)
	}
	return nil
}

// Entry returns the prompt action that opens a call: a gather bound to
// the entry state.
func (m *Menu) Entry() Action {
	s := m.states[m.entry]
	return Action{Kind: ActionPrompt, Say: s.Prompt, Next: s.ID}
}

// Decide maps (state, pressed digit) to exactly one Action. digits is the
// raw gather value; empty means no keypress before the gather timed out.
// An unrecognized digit is not an error: it resolves to the state's
// fallback. The only error is an unknown state id, which can only come
// from a URL this service did not emit.
func (m *Menu) Decide(id StateID, digits string) (Action, error) {
	s, ok := m.states[id]
	if !ok {
		return Action{}, fmt.Errorf("ivr: unknown state %q", id)
	}
	a, ok := s.Options[strings.TrimSpace(digits)]
	if !ok {
		a = s.Fallback
	}
	if a.Kind == ActionPrompt && a.Say == "" {
		// Fill the spoken prompt from the target state so callers of
		// Decide never need the table to render a gather.
		a.Say = m.states[a.Next].Prompt
	}
	return a, nil
}
