package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Service turns a recording-complete event into a single operator SMS.
//
// Every step is best-effort and independently fault-isolated: a failed
// caller lookup must not prevent sending the notification with a
// placeholder number, and no failure here may surface to the webhook
// acknowledgment. The caller always acks the provider with 200.
//
// At-most-once: there are no retries and no state between invocations.

// RecordingEvent is an inbound notification that a call recording
// finished. All fields are provider-supplied, write-once, read-once.
type RecordingEvent struct {
	RecordingSID string
	RecordingURL string
	CallSID      string

	// From is the caller's number when the provider included it.
	From string
}

// ProviderClient is the minimal provider management surface the notifier
// needs. The Twilio implementation lives in the telephony adapter; no SDK
// types cross this boundary.
type ProviderClient interface {
	// CallerNumber looks up the caller of a call by its provider id.
	CallerNumber(ctx context.Context, callSID string) (string, error)
	// RecordingMediaURL returns the authoritative media URL for a
	// recording, preferred over the transient URL in the event payload.
	RecordingMediaURL(ctx context.Context, recordingSID string) (string, error)
	SendSMS(ctx context.Context, from, to, body string) error
	DeleteRecording(ctx context.Context, recordingSID string) error
}

// unknownCaller stands in when neither the payload nor the call lookup
// yields a number.
const unknownCaller = "不明"

const (
	smsTitle      = "📞 着信録音"
	retentionNote = "⏰ 7日後に自動削除"
)

// jst renders the notification timestamp; the operator reads it locally.
var jst = time.FixedZone("JST", 9*60*60)

type Config struct {
	// SMSFrom is the provider-issued sending number.
	SMSFrom string
	// SMSTo is the operator recipient. Empty is a valid configuration:
	// the SMS step is skipped silently.
	SMSTo string

	// PurgeRecording deletes the provider-side recording after the
	// notification attempt.
	PurgeRecording bool

	// CallTimeout bounds each outbound provider call.
	CallTimeout time.Duration
}

type Service struct {
	client ProviderClient
	cfg    Config
	log    *slog.Logger
	now    func() time.Time
}

func NewService(client ProviderClient, cfg Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	return &Service{client: client, cfg: cfg, log: log, now: time.Now}
}

// RecordingCompleted resolves caller and media URL, sends the operator
// SMS, and optionally purges the recording. It never returns an error.
func (s *Service) RecordingCompleted(ctx context.Context, ev RecordingEvent) {
	caller := s.resolveCaller(ctx, ev)
	mediaURL := s.resolveMediaURL(ctx, ev)

	if s.cfg.SMSTo == "" {
		s.log.Debug("notify: sms recipient not configured, skipping", "recording_sid", ev.RecordingSID)
	} else {
		body := s.composeSMS(caller, mediaURL)
		if err := s.call(ctx, func(c context.Context) error {
			return s.client.SendSMS(c, s.cfg.SMSFrom, s.cfg.SMSTo, body)
		}); err != nil {
			s.log.Error("notify: sms send failed", "recording_sid", ev.RecordingSID, "err", err)
		} else {
			s.log.Info("notify: sms sent", "recording_sid", ev.RecordingSID, "to", s.cfg.SMSTo)
		}
	}

	if s.cfg.PurgeRecording && ev.RecordingSID != "" {
		if err := s.call(ctx, func(c context.Context) error {
			return s.client.DeleteRecording(c, ev.RecordingSID)
		}); err != nil {
			s.log.Warn("notify: recording purge failed", "recording_sid", ev.RecordingSID, "err", err)
		}
	}
}

func (s *Service) resolveCaller(ctx context.Context, ev RecordingEvent) string {
	if ev.From != "" {
		return ev.From
	}
	if ev.CallSID == "" {
		return unknownCaller
	}
	var from string
	err := s.call(ctx, func(c context.Context) error {
		var err error
		from, err = s.client.CallerNumber(c, ev.CallSID)
		return err
	})
	if err != nil || from == "" {
		s.log.Warn("notify: caller lookup failed", "call_sid", ev.CallSID, "err", err)
		return unknownCaller
	}
	return from
}

func (s *Service) resolveMediaURL(ctx context.Context, ev RecordingEvent) string {
	if ev.RecordingSID == "" {
		return ev.RecordingURL
	}
	var url string
	err := s.call(ctx, func(c context.Context) error {
		var err error
		url, err = s.client.RecordingMediaURL(c, ev.RecordingSID)
		return err
	})
	if err != nil || url == "" {
		// The payload URL may be a redirect or transient link, but it is
		// better than nothing.
		s.log.Warn("notify: recording lookup failed, using payload url", "recording_sid", ev.RecordingSID, "err", err)
		return ev.RecordingURL
	}
	return url
}

func (s *Service) composeSMS(caller, mediaURL string) string {
	ts := s.now().In(jst).Format("2006/01/02 15:04:05")
	return fmt.Sprintf("[%s]\n⏰ %s\n📱 %s\n🎙️ 録音完了\n🔗 %s\n%s",
		smsTitle, ts, caller, mediaURL, retentionNote)
}

func (s *Service) call(ctx context.Context, fn func(context.Context) error) error {
	c, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()
	return fn(c)
}
