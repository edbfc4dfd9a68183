package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"caseflow/internal/casetypeconfig"
	"caseflow/internal/notification/ledger"
	"caseflow/internal/notification/metrics"
	"caseflow/internal/zgw/client"
	"caseflow/internal/zgw/models"
	"caseflow/pkg/email"
	"caseflow/pkg/platform/audit"
	"caseflow/pkg/requestcontext"
)

// DefaultChannel is the notifications channel carrying case lifecycle events.
const DefaultChannel = "zaken"

// Config holds the policy switches of the gate chain.
type Config struct {
	// Channel events must arrive on. Defaults to DefaultChannel.
	Channel string
	// SkipStatusTypeInformeren makes the case type configuration, instead
	// of the status type's informeren flag, decide whether to notify.
	SkipStatusTypeInformeren bool
	// MaxConfidentiality is the highest level a case may have to be
	// notified about. Defaults to openbaar.
	MaxConfidentiality models.Confidentiality
	// SiteBaseURL prefixes the case link in the email.
	SiteBaseURL string
}

func (c *Config) normalize() error {
	if c.Channel == "" {
		c.Channel = DefaultChannel
	}
	if c.MaxConfidentiality == "" {
		c.MaxConfidentiality = models.ConfidentialityOpenbaar
	}
	if !c.MaxConfidentiality.Valid() {
		return fmt.Errorf("max confidentiality %q is not a known level", c.MaxConfidentiality)
	}
	if c.SiteBaseURL != "" {
		u, err := url.Parse(c.SiteBaseURL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("site base url %q must be absolute", c.SiteBaseURL)
		}
		c.SiteBaseURL = strings.TrimRight(c.SiteBaseURL, "/")
	}
	return nil
}

// ZaakTypeConfigs finds the local configuration of a case type.
type ZaakTypeConfigs interface {
	FindZaakTypeConfig(ctx context.Context, catalogURL, identificatie string) (*casetypeconfig.ZaakTypeConfig, error)
}

// AuditPublisher records what happened to an event.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service runs the gate chain for inbound notifications.
type Service struct {
	cfg        Config
	group      client.Group
	recipients *Recipients
	configs    ZaakTypeConfigs
	ledger     ledger.Ledger
	sender     email.Sender
	auditor    AuditPublisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	gates      []gate
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// New wires the gate chain. configs may be nil when SkipStatusTypeInformeren
// is off.
func New(
	cfg Config,
	group client.Group,
	users UserDirectory,
	configs ZaakTypeConfigs,
	store ledger.Ledger,
	sender email.Sender,
	opts ...Option,
) (*Service, error) {
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("notification config: %w", err)
	}
	if group == nil || users == nil || store == nil || sender == nil {
		return nil, fmt.Errorf("notification service: group, users, ledger and sender are required")
	}
	if cfg.SkipStatusTypeInformeren && configs == nil {
		return nil, fmt.Errorf("notification service: case type configs are required when skipping informeren")
	}
	s := &Service{
		cfg:        cfg,
		group:      group,
		recipients: NewRecipients(users),
		configs:    configs,
		ledger:     store,
		sender:     sender,
		logger:     slog.Default(),
		tracer:     otel.Tracer("caseflow/notification"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.gates = s.chain()
	return s, nil
}

// Handle runs one event through the gates and, when every gate passes,
// notifies each recipient once. Declines are returned as an Ignored
// outcome; only an event from the wrong channel is an error.
func (s *Service) Handle(ctx context.Context, n models.Notification) (Outcome, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveHandleLatency(time.Since(start)) }()

	ctx, span := s.tracer.Start(ctx, "notification.handle", trace.WithAttributes(
		attribute.String("notification.resource", n.Resource),
		attribute.String("notification.case_url", n.MainObject),
	))
	defer span.End()

	if n.Channel != s.cfg.Channel {
		s.logger.ErrorContext(ctx, "notification on unexpected channel",
			"channel", n.Channel,
			"expected", s.cfg.Channel,
			"request_id", requestcontext.RequestID(ctx),
		)
		return Outcome{}, fmt.Errorf("%w: expected %q, got %q", ErrInvalidChannel, s.cfg.Channel, n.Channel)
	}

	ev := &event{notification: n}
	defer ev.close(ctx, s.logger)

	for _, g := range s.gates {
		if d := g(ctx, ev); d != nil {
			s.declined(ctx, ev, d)
			span.SetAttributes(attribute.String("notification.outcome", string(d.reason)))
			return Ignored(d.reason), nil
		}
	}

	out := s.deliver(ctx, ev)
	s.metrics.IncrementOutcome(string(out.Kind), string(out.Reason))
	span.SetAttributes(attribute.String("notification.outcome", out.String()))
	return out, nil
}

func (s *Service) declined(ctx context.Context, ev *event, d *decline) {
	attrs := []any{
		"reason", d.reason,
		"case_url", ev.notification.MainObject,
		"resource_url", ev.notification.ResourceURL,
		"request_id", requestcontext.RequestID(ctx),
	}
	if d.err != nil {
		attrs = append(attrs, "error", d.err)
	}
	s.logger.Log(ctx, d.level, "ignored notification: "+d.message, attrs...)
	s.metrics.IncrementOutcome(string(KindIgnored), string(d.reason))
	s.audit(ctx, audit.Event{
		Action:  string(audit.EventNotificationIgnored),
		Subject: ev.notification.MainObject,
		Reason:  string(d.reason),
	})
}

// deliver records and sends one email per recipient. A failing recipient
// is logged and counted and does not stop the others.
func (s *Service) deliver(ctx context.Context, ev *event) Outcome {
	c, status := ev.kase, ev.status
	s.logger.InfoContext(ctx, "accepted notification",
		"case_url", c.URL,
		"status_url", status.URL,
		"recipients", len(ev.users),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.audit(ctx, audit.Event{
		Action:  string(audit.EventNotificationAccepted),
		Subject: c.URL,
		Reason:  fmt.Sprintf("%d recipients", len(ev.users)),
	})

	var delivered, duplicates, failed int
	for _, u := range ev.users {
		recorded, err := s.ledger.RecordIfUnique(ctx, u.ID, c.UUID, status.UUID)
		if err != nil {
			failed++
			s.metrics.IncrementFailure("ledger")
			s.logger.ErrorContext(ctx, "recording notification failed",
				"user_id", u.ID,
				"case_url", c.URL,
				"status_url", status.URL,
				"error", err,
			)
			s.audit(ctx, audit.Event{Action: string(audit.EventNotificationFailed), UserID: u.ID, Subject: c.URL, Reason: "ledger"})
			continue
		}
		if !recorded {
			duplicates++
			s.metrics.IncrementDuplicate()
			s.logger.InfoContext(ctx, "ignored duplicate notification delivery",
				"user_id", u.ID,
				"case_url", c.URL,
				"status_url", status.URL,
			)
			s.audit(ctx, audit.Event{Action: string(audit.EventNotificationDuplicate), UserID: u.ID, Subject: c.URL})
			continue
		}

		if err := s.sender.SendCaseNotification(ctx, u.Email, s.emailContext(ev, u.FirstName, u.Email)); err != nil {
			failed++
			s.metrics.IncrementFailure("email")
			s.logger.ErrorContext(ctx, "sending notification email failed",
				"user_id", u.ID,
				"case_url", c.URL,
				"status_url", status.URL,
				"error", err,
			)
			s.audit(ctx, audit.Event{Action: string(audit.EventNotificationFailed), UserID: u.ID, Subject: c.URL, Reason: "email"})
			continue
		}
		delivered++
		s.metrics.IncrementDelivery()
		s.logger.InfoContext(ctx, "sent notification email",
			"user_id", u.ID,
			"case_url", c.URL,
			"status_url", status.URL,
		)
		s.audit(ctx, audit.Event{Action: string(audit.EventNotificationDelivered), UserID: u.ID, Subject: c.URL, Reason: status.URL})
	}
	return deliveryOutcome(delivered, duplicates, failed)
}

func (s *Service) emailContext(ev *event, firstName, address string) email.CaseNotification {
	return email.CaseNotification{
		RecipientName:   email.RecipientName(firstName, address),
		Identification:  ev.kase.Identificatie,
		TypeDescription: ev.caseType.Omschrijving,
		StartDate:       FormatDate(ev.kase.StartDate),
		CaseLink:        s.caseLink(ev.kase),
	}
}

func (s *Service) caseLink(c *models.Case) string {
	return s.cfg.SiteBaseURL + "/cases/" + c.UUID.String() + "/status"
}

func (s *Service) audit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}
