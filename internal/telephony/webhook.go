package telephony

import (
	"net/http"
	"strings"
)

// Form structs capture the subset of Twilio voice webhook fields we care
// about. Twilio sends application/x-www-form-urlencoded by default.
// Ref: https://www.twilio.com/docs/voice/twiml
//
// Keep them minimal and provider-adapter-only.
// Business logic (routing decisions) is not made here.

// GatherForm is the callback posted after a <Gather> collects digits.
type GatherForm struct {
	CallSid string
	From    string
	To      string

	// Digits is empty when the gather timed out without a keypress.
	Digits string
}

func ParseGatherCallback(r *http.Request) (GatherForm, error) {
	if err := r.ParseForm(); err != nil {
		return GatherForm{}, err
	}
	return GatherForm{
		CallSid: r.PostFormValue("CallSid"),
		From:    strings.TrimSpace(r.PostFormValue("From")),
		To:      strings.TrimSpace(r.PostFormValue("To")),
		Digits:  strings.TrimSpace(r.PostFormValue("Digits")),
	}, nil
}

// RecordingStatusForm is the callback posted when a dial-leg recording
// completes. All fields are provider-supplied and write-once.
type RecordingStatusForm struct {
	RecordingSid      string
	RecordingUrl      string
	RecordingStatus   string
	RecordingDuration string
	CallSid           string

	// From is the caller's number; Twilio omits it on some callback
	// variants, in which case the notifier falls back to a call lookup.
	From string
}

func ParseRecordingStatus(r *http.Request) (RecordingStatusForm, error) {
	if err := r.ParseForm(); err != nil {
		return RecordingStatusForm{}, err
	}
	return RecordingStatusForm{
		RecordingSid:      r.PostFormValue("RecordingSid"),
		RecordingUrl:      strings.TrimSpace(r.PostFormValue("RecordingUrl")),
		RecordingStatus:   r.PostFormValue("RecordingStatus"),
		RecordingDuration: r.PostFormValue("RecordingDuration"),
		CallSid:           r.PostFormValue("CallSid"),
		From:              strings.TrimSpace(r.PostFormValue("From")),
	}, nil
}
