package handler

import (
	"github.com/google/uuid"

	"caseflow/internal/cases"
	"caseflow/internal/zgw/models"
)

type listResponse struct {
	Cases []caseResponse `json:"cases"`
}

type caseResponse struct {
	UUID                uuid.UUID   `json:"uuid"`
	Identification      string      `json:"identification"`
	Description         string      `json:"description"`
	TypeDescription     string      `json:"type_description"`
	StartDate           models.Date `json:"start_date"`
	Status              string      `json:"status,omitempty"`
	StatusIndicator     string      `json:"status_indicator,omitempty"`
	StatusIndicatorText string      `json:"status_indicator_text,omitempty"`
	Result              string      `json:"result,omitempty"`
	Closed              bool        `json:"closed"`
}

func toListResponse(in []*cases.Case) listResponse {
	out := listResponse{Cases: make([]caseResponse, 0, len(in))}
	for _, c := range in {
		out.Cases = append(out.Cases, toCaseResponse(c))
	}
	return out
}

func toCaseResponse(c *cases.Case) caseResponse {
	resp := caseResponse{
		UUID:           c.UUID,
		Identification: c.Identificatie,
		Description:    c.Omschrijving,
		StartDate:      c.StartDate,
	}
	if ct := c.ResolvedType(); ct != nil {
		resp.TypeDescription = ct.Omschrijving
	}
	if st := c.ResolvedStatusType(); st != nil {
		resp.Status = st.Omschrijving
		resp.Closed = st.IsEindstatus
	}
	if cfg := c.StatusTypeConfig; cfg != nil {
		resp.StatusIndicator = string(cfg.StatusIndicator)
		resp.StatusIndicatorText = cfg.StatusIndicatorText
		if cfg.Omschrijving != "" {
			resp.Status = cfg.Omschrijving
		}
	}
	if r := c.ResolvedResult(); r != nil {
		if rt, ok := r.ResultaatType.Object(); ok {
			resp.Result = rt.Omschrijving
		}
	}
	return resp
}
