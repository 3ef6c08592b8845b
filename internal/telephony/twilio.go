package telephony

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioopenapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioClient adapts the Twilio management REST API to the
// notify.ProviderClient surface.
//
// Rules:
// - No provider SDK calls outside telephony adapters.
// - SDK request/return types stay inside this file.
//
// The generated v2010 API does not accept a context; outbound calls are
// bounded by the REST client's HTTP timeout instead, and the context is
// checked before each call.

type restAPI interface {
	FetchCall(sid string, params *twilioopenapi.FetchCallParams) (*twilioopenapi.ApiV2010Call, error)
	FetchRecording(sid string, params *twilioopenapi.FetchRecordingParams) (*twilioopenapi.ApiV2010Recording, error)
	CreateMessage(params *twilioopenapi.CreateMessageParams) (*twilioopenapi.ApiV2010Message, error)
	DeleteRecording(sid string, params *twilioopenapi.DeleteRecordingParams) error
}

type TwilioClient struct {
	api restAPI
}

func NewTwilioClient(accountSID, authToken string, timeout time.Duration) *TwilioClient {
	rc := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	if timeout > 0 {
		rc.SetTimeout(timeout)
	}
	return &TwilioClient{api: rc.Api}
}

func (c *TwilioClient) CallerNumber(ctx context.Context, callSID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	call, err := c.api.FetchCall(callSID, &twilioopenapi.FetchCallParams{})
	if err != nil {
		return "", err
	}
	if call == nil || call.From == nil || *call.From == "" {
		return "", errors.New("telephony: call has no caller number")
	}
	return *call.From, nil
}

func (c *TwilioClient) RecordingMediaURL(ctx context.Context, recordingSID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rec, err := c.api.FetchRecording(recordingSID, &twilioopenapi.FetchRecordingParams{})
	if err != nil {
		return "", err
	}
	if rec == nil || rec.Uri == nil || *rec.Uri == "" {
		return "", errors.New("telephony: recording has no resource uri")
	}
	// The resource URI points at the JSON representation; the media lives
	// at the same path without the extension.
	return "https://api.twilio.com" + strings.TrimSuffix(*rec.Uri, ".json"), nil
}

func (c *TwilioClient) SendSMS(ctx context.Context, from, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &twilioopenapi.CreateMessageParams{}
	params.SetFrom(from)
	params.SetTo(to)
	params.SetBody(body)
	_, err := c.api.CreateMessage(params)
	return err
}

func (c *TwilioClient) DeleteRecording(ctx context.Context, recordingSID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.api.DeleteRecording(recordingSID, &twilioopenapi.DeleteRecordingParams{})
}
