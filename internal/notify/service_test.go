package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubClient struct {
	from     string
	mediaURL string

	callErr error
	recErr  error
	smsErr  error
	delErr  error

	callLookups int
	recLookups  int
	sent        []string
	deleted     []string
}

func (s *stubClient) CallerNumber(ctx context.Context, callSID string) (string, error) {
	s.callLookups++
	return s.from, s.callErr
}

func (s *stubClient) RecordingMediaURL(ctx context.Context, recordingSID string) (string, error) {
	s.recLookups++
	return s.mediaURL, s.recErr
}

func (s *stubClient) SendSMS(ctx context.Context, from, to, body string) error {
	if s.smsErr != nil {
		return s.smsErr
	}
	s.sent = append(s.sent, body)
	return nil
}

func (s *stubClient) DeleteRecording(ctx context.Context, recordingSID string) error {
	if s.delErr != nil {
		return s.delErr
	}
	s.deleted = append(s.deleted, recordingSID)
	return nil
}

func newTestService(client *stubClient, cfg Config) *Service {
	s := NewService(client, cfg, nil)
	s.now = func() time.Time {
		return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	return s
}

func TestRecordingCompletedComposesSingleSMS(t *testing.T) {
	c := &stubClient{mediaURL: "https://api.twilio.com/m/RE1"}
	s := newTestService(c, Config{SMSFrom: "+815000000000", SMSTo: "+818000000000"})

	s.RecordingCompleted(context.Background(), RecordingEvent{
		RecordingSID: "RE1",
		RecordingURL: "https://api.twilio.com/rec/RE1",
		CallSID:      "CA1",
		From:         "+15551234567",
	})

	if len(c.sent) != 1 {
		t.Fatalf("expected exactly one sms, got %d", len(c.sent))
	}
	body := c.sent[0]
	for _, want := range []string{
		"📞 着信録音",
		"2025/01/02 12:04:05", // JST rendering of the fixed UTC clock
		"+15551234567",
		"https://api.twilio.com/m/RE1",
		"7日後に自動削除",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in sms body: %q", want, body)
		}
	}
	if c.callLookups != 0 {
		t.Fatalf("payload caller must not trigger a lookup")
	}
}

func TestRecordingCompletedCallerLookupFallback(t *testing.T) {
	c := &stubClient{from: "+15559999999", mediaURL: "https://api.twilio.com/m/RE1"}
	s := newTestService(c, Config{SMSTo: "+818000000000"})

	s.RecordingCompleted(context.Background(), RecordingEvent{
		RecordingSID: "RE1",
		RecordingURL: "u",
		CallSID:      "CA1",
	})
	if c.callLookups != 1 {
		t.Fatalf("expected caller lookup, got %d", c.callLookups)
	}
	if !strings.Contains(c.sent[0], "+15559999999") {
		t.Fatalf("expected looked-up caller in body: %q", c.sent[0])
	}
}

func TestRecordingCompletedCallerPlaceholder(t *testing.T) {
	c := &stubClient{callErr: errors.New("api down"), mediaURL: "m"}
	s := newTestService(c, Config{SMSTo: "+818000000000"})

	s.RecordingCompleted(context.Background(), RecordingEvent{RecordingSID: "RE1", CallSID: "CA1"})
	if len(c.sent) != 1 {
		t.Fatalf("lookup failure must not block the sms")
	}
	if !strings.Contains(c.sent[0], "不明") {
		t.Fatalf("expected placeholder caller: %q", c.sent[0])
	}
}

func TestRecordingCompletedPrefersFetchedMediaURL(t *testing.T) {
	c := &stubClient{mediaURL: "https://api.twilio.com/authoritative"}
	s := newTestService(c, Config{SMSTo: "+818000000000"})

	s.RecordingCompleted(context.Background(), RecordingEvent{
		RecordingSID: "RE1",
		RecordingURL: "https://transient.example/redirect",
		From:         "+1555",
	})
	if !strings.Contains(c.sent[0], "https://api.twilio.com/authoritative") {
		t.Fatalf("expected fetched url: %q", c.sent[0])
	}
	if strings.Contains(c.sent[0], "transient.example") {
		t.Fatalf("payload url must not win over the fetched one: %q", c.sent[0])
	}
}

func TestRecordingCompletedMediaURLFallback(t *testing.T) {
	c := &stubClient{recErr: errors.New("api down")}
	s := newTestService(c, Config{SMSTo: "+818000000000"})

	s.RecordingCompleted(context.Background(), RecordingEvent{
		RecordingSID: "RE1",
		RecordingURL: "https://transient.example/redirect",
		From:         "+1555",
	})
	if !strings.Contains(c.sent[0], "https://transient.example/redirect") {
		t.Fatalf("expected payload url fallback: %q", c.sent[0])
	}
}

func TestRecordingCompletedSkipsSMSWithoutRecipient(t *testing.T) {
	c := &stubClient{mediaURL: "m"}
	s := newTestService(c, Config{SMSTo: ""})

	s.RecordingCompleted(context.Background(), RecordingEvent{RecordingSID: "RE1", From: "+1555"})
	if len(c.sent) != 0 {
		t.Fatalf("sms must be skipped silently without a recipient")
	}
}

func TestRecordingCompletedPurge(t *testing.T) {
	c := &stubClient{mediaURL: "m"}
	s := newTestService(c, Config{SMSTo: "+818000000000", PurgeRecording: true})

	s.RecordingCompleted(context.Background(), RecordingEvent{RecordingSID: "RE1", From: "+1555"})
	if len(c.deleted) != 1 || c.deleted[0] != "RE1" {
		t.Fatalf("expected recording purge, got %v", c.deleted)
	}
}

func TestRecordingCompletedPurgeDisabledByDefault(t *testing.T) {
	c := &stubClient{mediaURL: "m"}
	s := newTestService(c, Config{SMSTo: "+818000000000"})

	s.RecordingCompleted(context.Background(), RecordingEvent{RecordingSID: "RE1", From: "+1555"})
	if len(c.deleted) != 0 {
		t.Fatalf("purge must be opt-in, got %v", c.deleted)
	}
}

func TestRecordingCompletedPurgeFailureIsSwallowed(t *testing.T) {
	c := &stubClient{mediaURL: "m", delErr: errors.New("gone already")}
	s := newTestService(c, Config{SMSTo: "+818000000000", PurgeRecording: true})

	// Must not panic and must still have sent the notification first.
	s.RecordingCompleted(context.Background(), RecordingEvent{RecordingSID: "RE1", From: "+1555"})
	if len(c.sent) != 1 {
		t.Fatalf("purge failure must not affect the notification")
	}
}
