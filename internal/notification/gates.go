package notification

import (
	"context"
	"errors"
	"log/slog"

	"caseflow/internal/accounts"
	"caseflow/internal/casetypeconfig"
	"caseflow/internal/zgw/client"
	"caseflow/internal/zgw/models"
)

// event accumulates what the gates resolved so far. Each gate reads what its
// predecessors stored.
type event struct {
	notification models.Notification

	session    *client.Session
	roles      []models.Role
	users      []*accounts.User
	status     *models.Status
	statusType *models.StatusType
	kase       *models.Case
	caseType   *models.CaseType
}

func (ev *event) close(ctx context.Context, logger *slog.Logger) {
	if err := ev.session.Close(); err != nil {
		logger.WarnContext(ctx, "closing zgw session failed", "error", err)
	}
}

// decline ends the chain. Level separates misconfiguration and outages
// (error) from ordinary business filtering (info).
type decline struct {
	reason  Reason
	level   slog.Level
	message string
	err     error
}

func ignore(reason Reason, message string) *decline {
	return &decline{reason: reason, level: slog.LevelInfo, message: message}
}

func fail(reason Reason, message string, err error) *decline {
	return &decline{reason: reason, level: slog.LevelError, message: message, err: err}
}

type gate func(ctx context.Context, ev *event) *decline

func (s *Service) chain() []gate {
	return []gate{
		s.requireStatusResource,
		s.openSession,
		s.fetchRoles,
		s.resolveRecipients,
		s.fetchStatus,
		s.fetchStatusType,
		s.fetchCase,
		s.fetchCaseType,
		s.requireCaseTypeConfig,
		s.checkConfidentiality,
	}
}

func (s *Service) requireStatusResource(_ context.Context, ev *event) *decline {
	if ev.notification.Resource != models.ResourceStatus {
		return ignore(ReasonResourceNotStatus, "resource is not 'status' but '"+ev.notification.Resource+"'")
	}
	return nil
}

func (s *Service) openSession(ctx context.Context, ev *event) *decline {
	session, err := s.group.Open(ctx)
	if err != nil {
		return fail(ReasonSessionUnavailable, "cannot open zgw session", err)
	}
	ev.session = session
	return nil
}

func (s *Service) fetchRoles(ctx context.Context, ev *event) *decline {
	roles, err := ev.session.Zaken.FetchRoles(ctx, ev.notification.MainObject)
	if err != nil {
		return fail(ReasonNoRoles, "cannot retrieve rollen", err)
	}
	if len(roles) == 0 {
		return fail(ReasonNoRoles, "case has no rollen", nil)
	}
	ev.roles = roles
	return nil
}

func (s *Service) resolveRecipients(ctx context.Context, ev *event) *decline {
	users, err := s.recipients.Resolve(ctx, ev.roles)
	if err != nil {
		return fail(ReasonRecipientsUnavailable, "cannot look up initiators", err)
	}
	if len(users) == 0 {
		return ignore(ReasonNoRecipients, "no users with bsn and valid email as (mede)initiators")
	}
	ev.users = users
	return nil
}

func (s *Service) fetchStatus(ctx context.Context, ev *event) *decline {
	status, err := ev.session.Zaken.FetchStatus(ctx, ev.notification.ResourceURL)
	if err != nil {
		return fail(ReasonStatusUnavailable, "cannot retrieve status", err)
	}
	ev.status = status
	return nil
}

func (s *Service) fetchStatusType(ctx context.Context, ev *event) *decline {
	st, err := resolveRef(ctx, ev.status.StatusType, ev.session.Catalogi.FetchStatusType)
	if err != nil {
		return fail(ReasonStatusTypeUnavailable, "cannot retrieve status type", err)
	}
	resolved := *ev.status
	resolved.StatusType = models.Resolved(st)
	ev.status, ev.statusType = &resolved, st

	if !s.cfg.SkipStatusTypeInformeren && !st.Informeren {
		return ignore(ReasonInformFalse, "status type informeren is false")
	}
	return nil
}

// fetchCase bypasses the cache; a cached case may carry an outdated
// confidentiality level.
func (s *Service) fetchCase(ctx context.Context, ev *event) *decline {
	kase, err := ev.session.Zaken.FetchCaseUncached(ctx, ev.notification.MainObject)
	if err != nil {
		return fail(ReasonCaseUnavailable, "cannot retrieve case", err)
	}
	ev.kase = kase
	return nil
}

func (s *Service) fetchCaseType(ctx context.Context, ev *event) *decline {
	ct, err := resolveRef(ctx, ev.kase.Type, ev.session.Catalogi.FetchCaseType)
	if err != nil {
		return fail(ReasonCaseTypeUnavailable, "cannot retrieve case type", err)
	}
	ev.kase.Type = models.Resolved(ct)
	ev.caseType = ct
	return nil
}

// requireCaseTypeConfig only applies when the status type flag is skipped;
// the case type configuration is authoritative then.
func (s *Service) requireCaseTypeConfig(ctx context.Context, ev *event) *decline {
	if !s.cfg.SkipStatusTypeInformeren {
		return nil
	}
	cfg, err := s.configs.FindZaakTypeConfig(ctx, ev.caseType.Catalogus, ev.caseType.Identificatie)
	switch {
	case errors.Is(err, casetypeconfig.ErrNotFound):
		return ignore(ReasonNoConfigOrDisabled, "no case type configuration for '"+ev.caseType.Identificatie+"'")
	case err != nil:
		return fail(ReasonNoConfigOrDisabled, "cannot read case type configuration", err)
	case !cfg.NotifyStatusChanges:
		return ignore(ReasonNoConfigOrDisabled, "notify_status_changes is off for '"+ev.caseType.Identificatie+"'")
	}
	return nil
}

func (s *Service) checkConfidentiality(_ context.Context, ev *event) *decline {
	if !ev.kase.Confidentiality.AllowedUnder(s.cfg.MaxConfidentiality) {
		return ignore(ReasonConfidentiality, "bad confidentiality '"+string(ev.kase.Confidentiality)+"'")
	}
	return nil
}

// resolveRef returns an already resolved object or fetches it by URL.
func resolveRef[T any](ctx context.Context, ref models.Ref[T], fetch func(context.Context, string) (*T, error)) (*T, error) {
	if obj, ok := ref.Object(); ok {
		return obj, nil
	}
	url, _ := ref.URL()
	return fetch(ctx, url)
}
