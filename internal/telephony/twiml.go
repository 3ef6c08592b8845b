package telephony

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/hametuha/hamephone/internal/ivr"
)

// TwiML is a minimal Twilio Markup Language response builder.
// It intentionally avoids any provider SDK dependency.
//
// Only include primitives we need at the adapter boundary:
// Say, Gather (one digit + nested Say), Dial (with recording), Hangup.

// Voice/language applied to every Say. The menu tree carries text only.
const (
	sayVoice    = "woman"
	sayLanguage = "ja-JP"
)

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlSay struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr,omitempty"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

type twimlGather struct {
	XMLName   xml.Name `xml:"Gather"`
	NumDigits int      `xml:"numDigits,attr"`
	Action    string   `xml:"action,attr"`
	Method    string   `xml:"method,attr"`
	Say       twimlSay `xml:"Say"`
}

type twimlDial struct {
	XMLName                 xml.Name  `xml:"Dial"`
	Record                  string    `xml:"record,attr,omitempty"`
	RecordingStatusCallback string    `xml:"recordingStatusCallback,attr,omitempty"`
	CallerID                string    `xml:"callerId,attr,omitempty"`
	Timeout                 int       `xml:"timeout,attr,omitempty"`
	Number                  string    `xml:"Number,omitempty"`
	Sip                     *twimlSip `xml:"Sip,omitempty"`
}

type twimlSip struct {
	URI string `xml:",chardata"`
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// GatherActionURL is the path a gather for the given state submits to.
// The provider carries menu state by calling back this URL; callers can
// only supply the digit, never the state.
func GatherActionURL(id ivr.StateID) string {
	return "/ivr/gather/" + string(id)
}

// RenderTwiML maps an ivr.Action to the markup the provider executes.
func RenderTwiML(a ivr.Action) (string, error) {
	var r twimlResponse

	switch a.Kind {
	case ivr.ActionPrompt:
		if a.Next == "" {
			return "", errors.New("telephony: prompt action without next state")
		}
		r.Verbs = append(r.Verbs, twimlGather{
			NumDigits: 1,
			Action:    GatherActionURL(a.Next),
			Method:    "POST",
			Say:       say(a.Say),
		})
	case ivr.ActionTransfer:
		if a.Transfer == nil || strings.TrimSpace(a.Transfer.Target) == "" {
			return "", errors.New("telephony: transfer action without target")
		}
		if a.Say != "" {
			r.Verbs = append(r.Verbs, say(a.Say))
		}
		d := twimlDial{
			CallerID: a.Transfer.CallerID,
			Timeout:  a.Transfer.TimeoutSeconds,
		}
		if a.Transfer.Record {
			d.Record = "record-from-answer"
			d.RecordingStatusCallback = a.Transfer.RecordingCallbackURL
		}
		// Prefer SIP if it looks like sip:... otherwise treat as a PSTN number.
		if strings.HasPrefix(strings.ToLower(a.Transfer.Target), "sip:") {
			d.Sip = &twimlSip{URI: a.Transfer.Target}
		} else {
			d.Number = a.Transfer.Target
		}
		r.Verbs = append(r.Verbs, d)
	case ivr.ActionReject, ivr.ActionInvalid:
		if strings.TrimSpace(a.Say) == "" {
			return "", errors.New("telephony: terminal action without spoken message")
		}
		r.Verbs = append(r.Verbs, say(a.Say), twimlHangup{})
	default:
		return "", fmt.Errorf("telephony: unknown action kind %q", a.Kind)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func say(text string) twimlSay {
	return twimlSay{Voice: sayVoice, Language: sayLanguage, Text: text}
}
