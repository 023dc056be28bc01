package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	apperrors "gymstore/pkg/errors"
	"gymstore/pkg/events"
	httputil "gymstore/pkg/http"
	"gymstore/pkg/logger"
	"gymstore/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	MercadoPagoWebhookPath = "/api/v1/payments/webhooks/mercadopago"
	OmiseWebhookPath       = "/api/v1/payments/webhooks/omise"
)

// WebhookHandler acknowledges gateway notifications and queues them for the
// payments worker. Nothing here trusts the payload: the worker re-fetches
// the payment from the gateway before touching an order. A notification is
// only acknowledged once it is queued, otherwise the gateway redelivers it.
type WebhookHandler struct {
	queue           events.Sender
	verifySignature func(http.Handler) http.Handler
	log             *logger.Logger
	now             func() time.Time
}

// NewWebhookHandler wires verifySignature in front of the Mercado Pago
// endpoint. Omise webhooks are unsigned.
func NewWebhookHandler(queue events.Sender, verifySignature func(http.Handler) http.Handler, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		queue:           queue,
		verifySignature: verifySignature,
		log:             log,
		now:             time.Now,
	}
}

type mercadoPagoNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

type omiseEvent struct {
	Key  string `json:"key"`
	Data struct {
		Object string `json:"object"`
		ID     string `json:"id"`
	} `json:"data"`
}

func (h *WebhookHandler) MercadoPago(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var body mercadoPagoNotification
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.log.Warn("Malformed Mercado Pago notification", logger.REQUEST_ID, logger.RequestID(r.Context()), "error", err)
		}
	}

	kind := firstNonEmpty(query.Get("type"), body.Type)
	reference := firstNonEmpty(query.Get("data.id"), body.Data.ID)
	if kind != "payment" || reference == "" {
		h.ack(w, "MercadoPago")
		return
	}

	if err := h.enqueue(r, model.PaymentMethodMercadoPago, reference); err != nil {
		h.fail(w, "MercadoPago", err)
		return
	}
	h.ack(w, "MercadoPago")
}

func (h *WebhookHandler) Omise(w http.ResponseWriter, r *http.Request) {
	var event omiseEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.log.Warn("Malformed Omise notification", logger.REQUEST_ID, logger.RequestID(r.Context()), "error", err)
		h.ack(w, "Omise")
		return
	}

	if event.Data.Object != "charge" || !strings.HasPrefix(event.Key, "charge.") || event.Data.ID == "" {
		h.ack(w, "Omise")
		return
	}

	if err := h.enqueue(r, model.PaymentMethodOmise, event.Data.ID); err != nil {
		h.fail(w, "Omise", err)
		return
	}
	h.ack(w, "Omise")
}

func (h *WebhookHandler) enqueue(r *http.Request, gateway, reference string) error {
	log := h.log.ForContext(r.Context())
	err := h.queue.Send(r.Context(), events.Event{
		Type: events.PaymentNotification,
		Key:  reference,
		Payload: events.PaymentNotificationPayload{
			Gateway:    gateway,
			Reference:  reference,
			ReceivedAt: h.now().UTC(),
		},
	})
	if err != nil {
		log.Error("Failed to queue payment notification", "gateway", gateway, "reference", reference, "error", err)
		return apperrors.Unavailable("Payment notification queue")
	}
	log.Info("Payment notification queued", "gateway", gateway, "reference", reference)
	return nil
}

// ack answers 200 so gateways stop redelivering. Notifications that are not
// about payments are acknowledged too.
func (h *WebhookHandler) ack(w http.ResponseWriter, name string) {
	if err := httputil.WriteJSON(w, http.StatusOK, map[string]bool{"received": true}); err != nil {
		h.log.Error("failed to write JSON response", "handler", name, "operation", "WriteJSON", "error", err)
	}
}

func (h *WebhookHandler) fail(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (h *WebhookHandler) RegisterRoutes(router *httprouter.Router) {
	router.Handler(http.MethodPost, MercadoPagoWebhookPath, h.verifySignature(http.HandlerFunc(h.MercadoPago)))
	router.Handler(http.MethodPost, OmiseWebhookPath, http.HandlerFunc(h.Omise))
}
