package telephony

import (
	"net/http"
	"time"

	"github.com/hametuha/hamephone/internal/ivr"
	"github.com/hametuha/hamephone/internal/notify"
	"github.com/hametuha/hamephone/internal/observability/metrics"
	"github.com/hametuha/hamephone/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Webhook paths. The gather route takes the menu state as its final
// segment; GatherActionURL emits matching action URLs.
const (
	EntryPath           = "/ivr"
	GatherPath          = "/ivr/gather/:state"
	RecordingStatusPath = "/ivr/recording-status"
)

// IVRHandler serves the voice webhook surface: it converts Twilio
// callbacks to menu decisions and writes TwiML.
//
// No business logic here. Which menu a call is in comes from the URL this
// service emitted into the previous gather, never from caller data.

type IVRHandler struct {
	Menu    *ivr.Menu
	Metrics *metrics.CallMetrics
}

// HandleEntry answers a fresh inbound call with the top-level gather.
func (h IVRHandler) HandleEntry(c *gin.Context) {
	start := time.Now()
	h.respond(c, h.Menu.Entry(), "entry")
	h.Metrics.ObserveWebhookLatency("entry", time.Since(start).Seconds())
}

// HandleGather processes the digit collected for the state in the URL.
func (h IVRHandler) HandleGather(c *gin.Context) {
	start := time.Now()
	log := logger.FromGin(c)

	form, err := ParseGatherCallback(c.Request)
	if err != nil {
		log.Warn("gather webhook parse failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}

	state := ivr.StateID(c.Param("state"))
	action, err := h.Menu.Decide(state, form.Digits)
	if err != nil {
		// A state this menu never emitted. The call still needs executable
		// markup, so treat it like any other unrecognized input.
		log.Warn("gather for unknown state", "state", state, "call_sid", form.CallSid)
		action = ivr.InvalidInput()
	}
	log.Info("menu decision",
		"state", state,
		"digits", form.Digits,
		"action", string(action.Kind),
		"call_sid", form.CallSid,
	)

	h.Metrics.ObserveDecision(string(state), string(action.Kind))
	h.respond(c, action, "gather")
	h.Metrics.ObserveWebhookLatency("gather", time.Since(start).Seconds())
}

func (h IVRHandler) respond(c *gin.Context, action ivr.Action, endpoint string) {
	twiml, err := RenderTwiML(action)
	if err != nil {
		logger.FromGin(c).Error("twiml render failed", "endpoint", endpoint, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "twiml failed"})
		return
	}
	c.Header("Content-Type", "text/xml; charset=utf-8")
	c.String(http.StatusOK, twiml)
}

// RecordingStatusHandler acknowledges recording-complete callbacks and
// hands the event to the notifier.
//
// The ack is unconditional: the provider already committed the recording
// and must not retry this webhook over downstream notification failures,
// so every path below ends in an empty 200.
type RecordingStatusHandler struct {
	Notifier *notify.Service
	Metrics  *metrics.CallMetrics
}

func (h RecordingStatusHandler) HandleRecordingStatus(c *gin.Context) {
	start := time.Now()
	log := logger.FromGin(c)

	form, err := ParseRecordingStatus(c.Request)
	if err != nil {
		log.Warn("recording webhook parse failed", "err", err)
		h.Metrics.ObserveRecordingCallback("parse_error")
		c.Status(http.StatusOK)
		return
	}

	log.Info("recording completed",
		"recording_sid", form.RecordingSid,
		"call_sid", form.CallSid,
		"status", form.RecordingStatus,
		"duration", form.RecordingDuration,
	)

	h.Notifier.RecordingCompleted(c.Request.Context(), notify.RecordingEvent{
		RecordingSID: form.RecordingSid,
		RecordingURL: form.RecordingUrl,
		CallSID:      form.CallSid,
		From:         form.From,
	})

	h.Metrics.ObserveRecordingCallback("ok")
	h.Metrics.ObserveWebhookLatency("recording-status", time.Since(start).Seconds())
	c.Status(http.StatusOK)
}
