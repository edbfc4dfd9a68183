package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"caseflow/internal/accounts"
	"caseflow/internal/casetypeconfig"
	"caseflow/internal/notification/ledger"
	"caseflow/internal/notification/metrics"
	"caseflow/internal/notification/mocks"
	"caseflow/internal/zgw/client/clienttest"
	"caseflow/internal/zgw/models"
	"caseflow/pkg/email"
	"caseflow/pkg/platform/audit"
	"caseflow/pkg/platform/audit/publisher"
	auditmemory "caseflow/pkg/platform/audit/store/memory"
)

//go:generate mockgen -source=../../pkg/email/email.go -destination=mocks/sender_mock.go -package=mocks Sender
//go:generate mockgen -source=ledger/ledger.go -destination=mocks/ledger_mock.go -package=mocks Ledger

const (
	zakenRoot     = "https://zaken.test/api/v1"
	catalogiRoot  = "https://catalogi.test/api/v1"
	catalogURL    = catalogiRoot + "/catalogussen/1"
	caseURL       = zakenRoot + "/zaken/1"
	statusURL     = zakenRoot + "/statussen/1"
	statusTypeURL = catalogiRoot + "/statustypen/1"
	caseTypeURL   = catalogiRoot + "/zaaktypen/1"
	citizenBSN    = "111222333"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	fake    *clienttest.Fake
	users   *accounts.InMemory
	configs *casetypeconfig.InMemory
	ledger  *ledger.InMemory
	outbox  *email.Outbox
	audit   *auditmemory.InMemoryStore

	user       *accounts.User
	caseUUID   uuid.UUID
	statusUUID uuid.UUID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

// SetupTest builds a case for which every gate passes.
func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.fake = clienttest.New()
	s.users = accounts.NewInMemory()
	s.configs = casetypeconfig.NewInMemory()
	s.ledger = ledger.NewInMemory()
	s.outbox = &email.Outbox{}
	s.audit = auditmemory.NewInMemoryStore()
	s.caseUUID = uuid.New()
	s.statusUUID = uuid.New()

	s.user = &accounts.User{BSN: citizenBSN, Email: "jan@gemeente.test", EmailVerified: true, IsActive: true, FirstName: "Jan"}
	s.Require().NoError(s.users.Save(s.ctx, s.user))

	s.fake.
		AddRoles(caseURL, role(models.RoleInitiator, models.PartyNaturalPerson, citizenBSN)).
		AddStatus(models.Status{
			URL:        statusURL,
			UUID:       s.statusUUID,
			Zaak:       caseURL,
			StatusType: models.Unresolved[models.StatusType](statusTypeURL),
		}).
		AddStatusType(models.StatusType{URL: statusTypeURL, Omschrijving: "In behandeling", Informeren: true}).
		AddCase(models.Case{
			URL:             caseURL,
			UUID:            s.caseUUID,
			Identificatie:   "ZAAK-2024-0001",
			Type:            models.Unresolved[models.CaseType](caseTypeURL),
			Status:          models.Unresolved[models.Status](statusURL),
			StartDate:       models.NewDate(2024, 3, 1),
			Confidentiality: models.ConfidentialityOpenbaar,
		}).
		AddCaseType(models.CaseType{
			URL:                     caseTypeURL,
			Catalogus:               catalogURL,
			Identificatie:           "ZT-PARKEREN",
			Omschrijving:            "Parkeervergunning",
			IndicatieInternOfExtern: "extern",
		})
}

func (s *ServiceSuite) service(cfg Config, opts ...Option) *Service {
	return s.serviceWith(cfg, s.ledger, s.outbox, opts...)
}

func (s *ServiceSuite) serviceWith(cfg Config, store ledger.Ledger, sender email.Sender, opts ...Option) *Service {
	if cfg.SiteBaseURL == "" {
		cfg.SiteBaseURL = "https://mijn.gemeente.test/"
	}
	opts = append([]Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(metrics.New(nil)),
		WithAuditPublisher(publisher.NewPublisher(s.audit)),
	}, opts...)
	svc, err := New(cfg, s.fake, s.users, s.configs, store, sender, opts...)
	s.Require().NoError(err)
	return svc
}

func statusNotification() models.Notification {
	return models.Notification{
		Channel:     "zaken",
		Resource:    models.ResourceStatus,
		ResourceURL: statusURL,
		MainObject:  caseURL,
		Action:      "create",
	}
}

func (s *ServiceSuite) auditActions() []string {
	events, err := s.audit.ListAll(s.ctx)
	s.Require().NoError(err)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	return actions
}

// =============================================================================
// Delivery
// =============================================================================

func (s *ServiceSuite) TestDeliversOnceAndDeduplicatesRedelivery() {
	svc := s.service(Config{})

	out, err := svc.Handle(s.ctx, statusNotification())
	s.Require().NoError(err)
	s.Equal(KindDelivered, out.Kind)
	s.Equal(1, out.Delivered)
	s.Equal(1, s.ledger.Len())

	sent := s.outbox.Sent()
	s.Require().Len(sent, 1)
	s.Equal("jan@gemeente.test", sent[0].To)
	s.Equal(email.CaseNotification{
		RecipientName:   "Jan",
		Identification:  "ZAAK-2024-0001",
		TypeDescription: "Parkeervergunning",
		StartDate:       "1 maart 2024",
		CaseLink:        "https://mijn.gemeente.test/cases/" + s.caseUUID.String() + "/status",
	}, sent[0].Notification)

	s.Run("redelivery is a duplicate", func() {
		out, err := svc.Handle(s.ctx, statusNotification())
		s.Require().NoError(err)
		s.Equal(KindIgnored, out.Kind)
		s.Equal(ReasonDuplicate, out.Reason)
		s.Equal(1, out.Duplicates)
		s.Len(s.outbox.Sent(), 1, "no additional email")
		s.Equal(1, s.ledger.Len(), "ledger unchanged")
	})

	s.Equal([]string{
		string(audit.EventNotificationAccepted),
		string(audit.EventNotificationDelivered),
		string(audit.EventNotificationAccepted),
		string(audit.EventNotificationDuplicate),
	}, s.auditActions())
}

func (s *ServiceSuite) TestFetchesCaseUncachedAndClosesSession() {
	_, err := s.service(Config{}).Handle(s.ctx, statusNotification())
	s.Require().NoError(err)

	s.Equal(1, s.fake.CallCount(clienttest.CallCaseFresh))
	s.Zero(s.fake.CallCount(clienttest.CallCase))
	s.Equal(1, s.fake.Opened())
	s.Equal(2, s.fake.Closed())
}

func (s *ServiceSuite) TestSameBSNInTwoRolesIsNotifiedOnce() {
	s.fake.AddRoles(caseURL, role(models.RoleMedeInitiator, models.PartyNaturalPerson, citizenBSN))

	out, err := s.service(Config{}).Handle(s.ctx, statusNotification())
	s.Require().NoError(err)
	s.Equal(1, out.Delivered)
	s.Len(s.outbox.Sent(), 1)
}

func (s *ServiceSuite) TestRecipientFailuresDoNotStopOthers() {
	other := &accounts.User{BSN: "999888777", Email: "piet@gemeente.test", EmailVerified: true, IsActive: true}
	s.Require().NoError(s.users.Save(s.ctx, other))
	s.fake.AddRoles(caseURL, role(models.RoleMedeInitiator, models.PartyNaturalPerson, other.BSN))

	ctrl := gomock.NewController(s.T())
	sender := mocks.NewMockSender(ctrl)
	gomock.InOrder(
		sender.EXPECT().SendCaseNotification(gomock.Any(), "jan@gemeente.test", gomock.Any()).Return(errors.New("mailbox unavailable")),
		sender.EXPECT().SendCaseNotification(gomock.Any(), "piet@gemeente.test", gomock.Any()).Return(nil),
	)

	out, err := s.serviceWith(Config{}, s.ledger, sender).Handle(s.ctx, statusNotification())
	s.Require().NoError(err)
	s.Equal(KindDelivered, out.Kind)
	s.Equal(1, out.Delivered)
	s.Equal(1, out.Failed)
	s.Equal(2, s.ledger.Len(), "a failed send keeps its ledger entry")
	s.Contains(s.auditActions(), string(audit.EventNotificationFailed))
}

func (s *ServiceSuite) TestLedgerErrorSkipsEmail() {
	ctrl := gomock.NewController(s.T())
	store := mocks.NewMockLedger(ctrl)
	store.EXPECT().
		RecordIfUnique(gomock.Any(), s.user.ID, s.caseUUID, s.statusUUID).
		Return(false, errors.New("connection reset"))
	sender := mocks.NewMockSender(ctrl)

	out, err := s.serviceWith(Config{}, store, sender).Handle(s.ctx, statusNotification())
	s.Require().NoError(err)
	s.Equal(ReasonDeliveryFailed, out.Reason)
	s.Equal(1, out.Failed)
}

// =============================================================================
// Gates
// =============================================================================

func (s *ServiceSuite) TestInvalidChannel() {
	n := statusNotification()
	n.Channel = "documenten"

	out, err := s.service(Config{}).Handle(s.ctx, n)
	s.ErrorIs(err, ErrInvalidChannel)
	s.Zero(out.Delivered)
	s.Empty(s.outbox.Sent())
	s.Zero(s.fake.Opened())
}

func (s *ServiceSuite) TestConfiguredChannel() {
	n := statusNotification()
	n.Channel = "zaken-acc"

	out, err := s.service(Config{Channel: "zaken-acc"}).Handle(s.ctx, n)
	s.Require().NoError(err)
	s.Equal(KindDelivered, out.Kind)

	_, err = s.service(Config{Channel: "zaken-acc"}).Handle(s.ctx, statusNotification())
	s.ErrorIs(err, ErrInvalidChannel)
}

func (s *ServiceSuite) TestDeclines() {
	tests := []struct {
		name    string
		cfg     Config
		arrange func()
		event   func(n *models.Notification)
		reason  Reason
	}{
		{
			name:   "resource is not a status",
			event:  func(n *models.Notification) { n.Resource = models.ResourceZaak },
			reason: ReasonResourceNotStatus,
		},
		{
			name:    "session cannot be opened",
			arrange: func() { s.fake.FailOpen(errors.New("no tls material")) },
			reason:  ReasonSessionUnavailable,
		},
		{
			name:    "roles unavailable",
			arrange: func() { s.fake.Fail(caseURL) },
			reason:  ReasonNoRoles,
		},
		{
			name:   "case without roles",
			event:  func(n *models.Notification) { n.MainObject = zakenRoot + "/zaken/empty" },
			reason: ReasonNoRoles,
		},
		{
			name: "no initiator with a usable email",
			arrange: func() {
				s.user.EmailVerified = false
				s.Require().NoError(s.users.Save(s.ctx, s.user))
			},
			reason: ReasonNoRecipients,
		},
		{
			name:    "status unavailable",
			arrange: func() { s.fake.Fail(statusURL) },
			reason:  ReasonStatusUnavailable,
		},
		{
			name:    "status type unavailable",
			arrange: func() { s.fake.Fail(statusTypeURL) },
			reason:  ReasonStatusTypeUnavailable,
		},
		{
			name: "status type does not inform",
			arrange: func() {
				s.fake.AddStatusType(models.StatusType{URL: statusTypeURL, Informeren: false})
			},
			reason: ReasonInformFalse,
		},
		{
			name:    "case type unavailable",
			arrange: func() { s.fake.Fail(caseTypeURL) },
			reason:  ReasonCaseTypeUnavailable,
		},
		{
			name:   "skip informeren without case type config",
			cfg:    Config{SkipStatusTypeInformeren: true},
			reason: ReasonNoConfigOrDisabled,
		},
		{
			name: "skip informeren with config for no catalogue",
			cfg:  Config{SkipStatusTypeInformeren: true},
			arrange: func() {
				s.Require().NoError(s.configs.SaveZaakTypeConfig(s.ctx, &casetypeconfig.ZaakTypeConfig{
					Identificatie: "ZT-PARKEREN", NotifyStatusChanges: true,
				}))
			},
			reason: ReasonNoConfigOrDisabled,
		},
		{
			name: "skip informeren with notifications disabled",
			cfg:  Config{SkipStatusTypeInformeren: true},
			arrange: func() {
				s.Require().NoError(s.configs.SaveZaakTypeConfig(s.ctx, &casetypeconfig.ZaakTypeConfig{
					CatalogusURL: catalogURL, Identificatie: "ZT-PARKEREN", NotifyStatusChanges: false,
				}))
			},
			reason: ReasonNoConfigOrDisabled,
		},
		{
			name: "confidentiality above the maximum",
			arrange: func() {
				c := s.fakeCase()
				c.Confidentiality = models.ConfidentialityGeheim
				s.fake.AddCase(c)
			},
			reason: ReasonConfidentiality,
		},
		{
			name: "unknown confidentiality",
			cfg:  Config{MaxConfidentiality: models.ConfidentialityZeerGeheim},
			arrange: func() {
				c := s.fakeCase()
				c.Confidentiality = "topgeheim"
				s.fake.AddCase(c)
			},
			reason: ReasonConfidentiality,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			if tt.arrange != nil {
				tt.arrange()
			}
			n := statusNotification()
			if tt.event != nil {
				tt.event(&n)
			}

			out, err := s.service(tt.cfg).Handle(s.ctx, n)
			s.Require().NoError(err)
			s.Equal(Ignored(tt.reason), out)
			s.Empty(s.outbox.Sent())
			s.Zero(s.ledger.Len())

			events, err := s.audit.ListBySubject(s.ctx, n.MainObject)
			s.Require().NoError(err)
			s.Require().Len(events, 1)
			s.Equal(string(audit.EventNotificationIgnored), events[0].Action)
			s.Equal(string(tt.reason), events[0].Reason)
		})
	}
}

func (s *ServiceSuite) TestCaseUnavailable() {
	s.fake.AddRoles(zakenRoot+"/zaken/gone", role(models.RoleInitiator, models.PartyNaturalPerson, citizenBSN))
	n := statusNotification()
	n.MainObject = zakenRoot + "/zaken/gone"

	out, err := s.service(Config{}).Handle(s.ctx, n)
	s.Require().NoError(err)
	s.Equal(Ignored(ReasonCaseUnavailable), out)
}

func (s *ServiceSuite) TestRecipientsUnavailable() {
	ctrl := gomock.NewController(s.T())
	directory := mocks.NewMockUserDirectory(ctrl)
	directory.EXPECT().FindNotifiableByBSNs(gomock.Any(), []string{citizenBSN}).Return(nil, errors.New("db down"))

	svc, err := New(Config{}, s.fake, directory, nil, s.ledger, s.outbox, WithMetrics(metrics.New(nil)))
	s.Require().NoError(err)
	out, err := svc.Handle(s.ctx, statusNotification())
	s.Require().NoError(err)
	s.Equal(Ignored(ReasonRecipientsUnavailable), out)
}

func (s *ServiceSuite) TestSkipInformerenUsesCaseTypeConfig() {
	s.fake.AddStatusType(models.StatusType{URL: statusTypeURL, Informeren: false})
	s.Require().NoError(s.configs.SaveZaakTypeConfig(s.ctx, &casetypeconfig.ZaakTypeConfig{
		CatalogusURL: catalogURL, Identificatie: "ZT-PARKEREN", NotifyStatusChanges: true,
	}))

	out, err := s.service(Config{SkipStatusTypeInformeren: true}).Handle(s.ctx, statusNotification())
	s.Require().NoError(err)
	s.Equal(KindDelivered, out.Kind)
	s.Len(s.outbox.Sent(), 1)
}

func (s *ServiceSuite) TestMaxConfidentialityIsConfigurable() {
	c := s.fakeCase()
	c.Confidentiality = models.ConfidentialityBeperktOpenbaar
	s.fake.AddCase(c)

	out, err := s.service(Config{MaxConfidentiality: models.ConfidentialityBeperktOpenbaar}).Handle(s.ctx, statusNotification())
	s.Require().NoError(err)
	s.Equal(KindDelivered, out.Kind)
}

func (s *ServiceSuite) TestNewValidatesConfig() {
	_, err := New(Config{MaxConfidentiality: "topgeheim"}, s.fake, s.users, nil, s.ledger, s.outbox)
	s.Error(err)

	_, err = New(Config{SiteBaseURL: "mijn.gemeente.test"}, s.fake, s.users, nil, s.ledger, s.outbox)
	s.Error(err)

	_, err = New(Config{SkipStatusTypeInformeren: true}, s.fake, s.users, nil, s.ledger, s.outbox)
	s.Error(err)

	_, err = New(Config{}, s.fake, s.users, nil, nil, s.outbox)
	s.Error(err)
}

// fakeCase returns the case registered by SetupTest for modification.
func (s *ServiceSuite) fakeCase() models.Case {
	return models.Case{
		URL:             caseURL,
		UUID:            s.caseUUID,
		Identificatie:   "ZAAK-2024-0001",
		Type:            models.Unresolved[models.CaseType](caseTypeURL),
		Status:          models.Unresolved[models.Status](statusURL),
		StartDate:       models.NewDate(2024, 3, 1),
		Confidentiality: models.ConfidentialityOpenbaar,
	}
}
