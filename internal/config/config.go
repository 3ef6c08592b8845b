package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the webhook process.
// All values must come from env (or an env-file loaded at startup).
// No business logic should depend on raw environment variables: the
// decision engine and the notifier receive these values injected.
type Config struct {
	App    AppConfig
	Twilio TwilioConfig
	Call   CallConfig
	Notify NotifyConfig
}

type AppConfig struct {
	Env  string
	Port int
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string

	// PhoneNumber is the provider-issued number: SMS sender and the
	// caller-id presented on transfers.
	PhoneNumber string

	// RequestTimeout bounds each outbound management API call.
	RequestTimeout time.Duration
}

type CallConfig struct {
	// ForwardTo is the human operator's destination number.
	ForwardTo string

	// DialTimeout bounds ringing on the transfer leg.
	DialTimeout time.Duration
}

type NotifyConfig struct {
	// SMSTo is the recording-notification recipient. Optional: empty
	// disables the SMS without being an error.
	SMSTo string

	// PurgeRecording deletes provider-side recordings after notifying.
	PurgeRecording bool
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.Twilio.AccountSID = strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID"))
	c.Twilio.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	c.Twilio.PhoneNumber = strings.TrimSpace(os.Getenv("TWILIO_PHONE_NUMBER"))
	// Duration env vars are optional; defaults applied in Validate().
	c.Twilio.RequestTimeout = mustDuration("PROVIDER_TIMEOUT")

	c.Call.ForwardTo = strings.TrimSpace(os.Getenv("FORWARD_TO"))
	c.Call.DialTimeout = mustDuration("DIAL_TIMEOUT")

	c.Notify.SMSTo = strings.TrimSpace(os.Getenv("NOTIFY_SMS_TO"))
	c.Notify.PurgeRecording = isTrue(os.Getenv("RECORDING_PURGE"))

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.Twilio.AccountSID == "" {
		errs = append(errs, errors.New("TWILIO_ACCOUNT_SID is required"))
	}
	if c.Twilio.AuthToken == "" {
		errs = append(errs, errors.New("TWILIO_AUTH_TOKEN is required"))
	}
	if c.Twilio.PhoneNumber == "" {
		errs = append(errs, errors.New("TWILIO_PHONE_NUMBER is required"))
	}

	// ForwardTo is a configuration-trust boundary: it is operator-supplied,
	// so presence is checked but number format is not validated here.
	if c.Call.ForwardTo == "" {
		errs = append(errs, errors.New("FORWARD_TO is required"))
	}

	if c.Call.DialTimeout <= 0 {
		c.Call.DialTimeout = 30 * time.Second
	}
	if c.Twilio.RequestTimeout <= 0 {
		c.Twilio.RequestTimeout = 10 * time.Second
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func mustDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func isTrue(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
