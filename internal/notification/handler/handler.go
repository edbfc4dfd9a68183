package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"caseflow/internal/notification"
	"caseflow/internal/platform/kafka/consumer"
	"caseflow/internal/zgw/models"
	"caseflow/pkg/platform/httputil"
	"caseflow/pkg/requestcontext"
)

const maxBodyBytes = 1 << 20

// Notifier handles one inbound notification.
type Notifier interface {
	Handle(ctx context.Context, n models.Notification) (notification.Outcome, error)
}

// Handler accepts notifications over HTTP and from Kafka.
type Handler struct {
	notifier Notifier
	logger   *slog.Logger
}

// New creates a new notification Handler.
func New(notifier Notifier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{notifier: notifier, logger: logger}
}

// Register registers the webhook route with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/notifications/webhook", h.handleWebhook)
}

// handleWebhook answers 204 for every well-formed event, declined or not,
// so the notifications API does not redeliver business declines.
func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	n, err := decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.WarnContext(ctx, "invalid notification body",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, httputil.NewError(httputil.CodeBadRequest, "invalid notification body"))
		return
	}

	outcome, err := h.notifier.Handle(ctx, n)
	if err != nil {
		if errors.Is(err, notification.ErrInvalidChannel) {
			httputil.WriteError(w, httputil.NewError(httputil.CodeBadRequest, "unsupported channel "+n.Channel))
			return
		}
		h.logger.ErrorContext(ctx, "notification handling failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, httputil.NewError(httputil.CodeInternal, "notification handling failed"))
		return
	}

	h.logger.DebugContext(ctx, "notification handled",
		"request_id", requestID,
		"outcome", outcome.String(),
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMessage is the Kafka entry point. Malformed records and records from
// another channel can never succeed, so they are logged and dropped.
func (h *Handler) HandleMessage(ctx context.Context, msg *consumer.Message) error {
	if id := msg.Headers["request-id"]; id != "" {
		ctx = requestcontext.WithRequestID(ctx, id)
	}
	var n models.Notification
	if err := json.Unmarshal(msg.Value, &n); err != nil {
		h.logger.ErrorContext(ctx, "dropping malformed notification record",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	outcome, err := h.notifier.Handle(ctx, n)
	if err != nil {
		h.logger.ErrorContext(ctx, "dropping notification record",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	h.logger.DebugContext(ctx, "notification record handled",
		"topic", msg.Topic,
		"offset", msg.Offset,
		"outcome", outcome.String(),
	)
	return nil
}

func decode(body io.Reader) (models.Notification, error) {
	var n models.Notification
	if err := json.NewDecoder(body).Decode(&n); err != nil {
		return n, fmt.Errorf("decode notification: %w", err)
	}
	if n.Channel == "" || n.Resource == "" || n.MainObject == "" {
		return n, errors.New("kanaal, resource and hoofdObject are required")
	}
	return n, nil
}
