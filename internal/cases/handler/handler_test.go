package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"caseflow/internal/cases"
	"caseflow/internal/zgw/client/clienttest"
	"caseflow/internal/zgw/models"
	"caseflow/pkg/testutil"
)

const (
	zakenRoot    = "https://zaken.test/api/v1"
	catalogiRoot = "https://catalogi.test/api/v1"
	bsn          = "111222333"
)

type CasesHandlerSuite struct {
	suite.Suite
	fake   *clienttest.Fake
	router chi.Router
}

func TestCasesHandlerSuite(t *testing.T) {
	suite.Run(t, new(CasesHandlerSuite))
}

func (s *CasesHandlerSuite) SetupTest() {
	s.fake = clienttest.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.fake, cases.NewPipeline(nil, cases.WithLogger(logger)), logger).Register(s.router)
}

func (s *CasesHandlerSuite) get(query string) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/api/cases"+query, nil))
}

func (s *CasesHandlerSuite) addVisibleCase(name string, start models.Date) {
	caseURL := zakenRoot + "/zaken/" + name
	s.fake.
		AddCase(models.Case{
			URL:             caseURL,
			UUID:            uuid.New(),
			Identificatie:   "ZAAK-" + name,
			Type:            models.Unresolved[models.CaseType](catalogiRoot + "/zaaktypen/1"),
			Status:          models.Unresolved[models.Status](zakenRoot + "/statussen/" + name),
			StartDate:       start,
			Confidentiality: models.ConfidentialityOpenbaar,
		}).
		AddStatus(models.Status{
			URL:        zakenRoot + "/statussen/" + name,
			StatusType: models.Unresolved[models.StatusType](catalogiRoot + "/statustypen/1"),
		}).
		AddCaseForBSN(bsn, caseURL)
}

func (s *CasesHandlerSuite) TestListCases() {
	s.fake.
		AddCaseType(models.CaseType{URL: catalogiRoot + "/zaaktypen/1", Omschrijving: "Parkeervergunning", IndicatieInternOfExtern: "extern"}).
		AddStatusType(models.StatusType{URL: catalogiRoot + "/statustypen/1", Omschrijving: "In behandeling"})
	s.addVisibleCase("older", models.NewDate(2023, 1, 1))
	s.addVisibleCase("newer", models.NewDate(2024, 1, 1))

	w := s.get("?bsn=" + bsn)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("application/json", w.Header().Get("Content-Type"))

	resp := testutil.UnmarshalResponse[listResponse](s.T(), w)
	s.Require().Len(resp.Cases, 2)
	s.Equal("ZAAK-newer", resp.Cases[0].Identification)
	s.Equal("Parkeervergunning", resp.Cases[0].TypeDescription)
	s.Equal("In behandeling", resp.Cases[0].Status)
	s.Equal(2, s.fake.Opened(), "listing and enrichment each use one session")
	s.Equal(4, s.fake.Closed())
}

func (s *CasesHandlerSuite) TestListCasesEmpty() {
	w := s.get("?bsn=" + bsn)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"cases": []}`, w.Body.String())
}

func (s *CasesHandlerSuite) TestRejectsInvalidBSN() {
	for _, query := range []string{"", "?bsn=", "?bsn=12345", "?bsn=11122233x"} {
		testutil.AssertStatusAndError(s.T(), s.get(query), http.StatusBadRequest, "bad_request")
	}
	s.Zero(s.fake.Opened())
}

func (s *CasesHandlerSuite) TestUpstreamUnavailable() {
	s.Run("listing fails", func() {
		s.fake.Fail(bsn)
		testutil.AssertStatusAndError(s.T(), s.get("?bsn="+bsn), http.StatusBadGateway, "upstream_unavailable")
	})

	s.Run("session cannot be opened", func() {
		s.fake.FailOpen(errors.New("no tls material"))
		w := s.get("?bsn=" + bsn)
		s.Equal(http.StatusInternalServerError, w.Code)
	})
}
