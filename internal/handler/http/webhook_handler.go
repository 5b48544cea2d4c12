package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/Eugen9719/test-pay-service/internal/domain"
	"github.com/Eugen9719/test-pay-service/internal/port"
)

var (
	webhookRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pay_webhook_requests_total",
		Help: "Processed webhook notifications by outcome",
	}, []string{"outcome"})

	webhookDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pay_webhook_request_duration_seconds",
		Help:    "Webhook processing latency",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})
)

type WebhookHandler struct {
	service  port.PaymentService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewWebhookHandler(service port.PaymentService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// ProcessPayment handles POST /api/v1/webhook/process-payment-webhook.
// A redelivered notification gets the same success response as the first
// delivery so the provider stops retrying.
func (h *WebhookHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(webhookDuration)
	defer timer.ObserveDuration()

	var req domain.WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		webhookRequestsTotal.WithLabelValues("bad_request").Inc()
		respondError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		webhookRequestsTotal.WithLabelValues("bad_request").Inc()
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.ProcessWebhook(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			webhookRequestsTotal.WithLabelValues("invalid_signature").Inc()
			respondError(w, http.StatusForbidden, "invalid signature")
		case errors.Is(err, domain.ErrUserNotFound):
			webhookRequestsTotal.WithLabelValues("user_not_found").Inc()
			respondError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, domain.ErrAccountOwnership):
			webhookRequestsTotal.WithLabelValues("ownership_mismatch").Inc()
			respondError(w, http.StatusBadRequest, "account belongs to another user")
		default:
			webhookRequestsTotal.WithLabelValues("error").Inc()
			h.logger.Error("webhook processing failed",
				zap.String("transaction_id", req.TransactionID),
				zap.Error(err))
			respondError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	webhookRequestsTotal.WithLabelValues("success").Inc()
	respondJSON(w, http.StatusOK, result)
}
