package mandate

import (
	"time"

	"github.com/fizato/federation/internal/bureau"
)

// CreateMandateRequest represents the request to open a mandate
type CreateMandateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	StartDate   *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Description *string `json:"description,omitempty"`
}

// TransitionRequest carries the optional motif recorded on the closed mandate
type TransitionRequest struct {
	Motif *string `json:"motif,omitempty" validate:"omitempty,max=255"`
}

// MandateResponse represents the response for a mandate
type MandateResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
	State       State   `json:"state"`
	EndReason   *string `json:"end_reason,omitempty"`
	Description *string `json:"description,omitempty"`
}

// TransitionResponse reports a completed rollover
type TransitionResponse struct {
	Mandate           *MandateResponse `json:"mandate"`
	Previous          *MandateResponse `json:"previous"`
	BureauArchived    int64            `json:"bureau_archived"`
	CommitteeArchived int64            `json:"committee_archived"`
}

// EndResponse reports a manually ended mandate
type EndResponse struct {
	Mandate        *MandateResponse `json:"mandate"`
	BureauArchived int64            `json:"bureau_archived"`
}

// HistoryEntryResponse is one mandate with its bureau and committee
type HistoryEntryResponse struct {
	Mandate   *MandateResponse             `json:"mandate"`
	Bureau    []*bureau.MembershipResponse `json:"bureau"`
	Committee []*bureau.CommitteeResponse  `json:"committee"`
}

// HistoryResponse is the full mandate history
type HistoryResponse struct {
	Mandates []*HistoryEntryResponse `json:"mandates"`
	Totals   Totals                  `json:"totals"`
}

// ToResponse converts a Mandate model to a MandateResponse DTO
func (m *Mandate) ToResponse() *MandateResponse {
	if m == nil {
		return nil
	}
	resp := &MandateResponse{
		ID:          m.ID,
		Name:        m.Name,
		StartDate:   time.Time(m.StartDate).Format(time.DateOnly),
		State:       m.State,
		EndReason:   m.EndReason,
		Description: m.Description,
	}
	if m.EndDate != nil {
		s := time.Time(*m.EndDate).Format(time.DateOnly)
		resp.EndDate = &s
	}
	return resp
}

// ToResponse converts a TransitionResult to a TransitionResponse DTO
func (t *TransitionResult) ToResponse() *TransitionResponse {
	return &TransitionResponse{
		Mandate:           t.Mandate.ToResponse(),
		Previous:          t.Previous.ToResponse(),
		BureauArchived:    t.BureauArchived,
		CommitteeArchived: t.CommitteeArchived,
	}
}

// ToResponse converts a History to a HistoryResponse DTO
func (h *History) ToResponse() *HistoryResponse {
	resp := &HistoryResponse{
		Mandates: make([]*HistoryEntryResponse, len(h.Entries)),
		Totals:   h.Totals,
	}
	for i, e := range h.Entries {
		entry := &HistoryEntryResponse{
			Mandate:   e.Mandate.ToResponse(),
			Bureau:    make([]*bureau.MembershipResponse, len(e.Bureau)),
			Committee: make([]*bureau.CommitteeResponse, len(e.Committee)),
		}
		for j, b := range e.Bureau {
			entry.Bureau[j] = b.ToResponse()
		}
		for j, c := range e.Committee {
			entry.Committee[j] = c.ToResponse()
		}
		resp.Mandates[i] = entry
	}
	return resp
}
