/*
handlers.go - HTTP handlers for the case financial ledger

PURPOSE:
  Exposes the ledger service via REST. Handles HTTP request/response and
  JSON serialization, and delegates everything else to the service: the
  four sub-collection mutations each return the full updated case with its
  rebuilt totals cache.

ENDPOINTS:
  POST   /api/cases                       Create case with initial pricing
  GET    /api/cases                       List cases
  GET    /api/cases/{id}                  Get case (cache included)
  DELETE /api/cases/{id}                  Delete case
  PUT    /api/cases/{id}/pricing          Replace pricing quote
  PUT    /api/cases/{id}/participants     Replace participant list
  PUT    /api/cases/{id}/installments     Replace payment schedule
  PUT    /api/cases/{id}/costs            Replace incurred-cost list

ERROR HANDLING:
  - 400: malformed body or unparseable decimals/dates
  - 404: unknown case id
  - 409: write conflict after bounded retries (caller should retry)
  - 422: sub-collection violates a ledger invariant
  - 500: internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - ledger/service.go: The logic behind every endpoint
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iconic-inc/cube-erp-sub000/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *ledger.Service
}

// NewHandler creates a handler on top of a ledger service.
func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{Service: svc}
}

// =============================================================================
// CASE LIFECYCLE
// =============================================================================

// CreateCase opens a case with an initial pricing quote and empty
// sub-collections.
func (h *Handler) CreateCase(w http.ResponseWriter, r *http.Request) {
	var req CreateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	pricing, err := parsePricing(req.Pricing)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pricing", err)
		return
	}

	c, err := h.Service.CreateCase(r.Context(), req.ID, pricing)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCaseDTO(c))
}

// ListCases returns every case.
func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.Service.ListCases(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list cases", err)
		return
	}

	dtos := make([]CaseDTO, len(cases))
	for i, c := range cases {
		dtos[i] = toCaseDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCase returns a single case including its totals cache.
func (h *Handler) GetCase(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.GetCase(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCaseDTO(c))
}

// DeleteCase destroys the case and its cache.
func (h *Handler) DeleteCase(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteCase(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SUB-COLLECTION MUTATIONS - replacement semantics, full case returned
// =============================================================================

// UpdatePricing replaces the pricing quote.
func (h *Handler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	var dto PricingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	pricing, err := parsePricing(dto)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pricing", err)
		return
	}

	c, err := h.Service.UpdatePricing(r.Context(), chi.URLParam(r, "id"), pricing)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCaseDTO(c))
}

// UpdateParticipants replaces the participant list.
func (h *Handler) UpdateParticipants(w http.ResponseWriter, r *http.Request) {
	var req UpdateParticipantsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	participants, err := parseParticipants(req.Participants)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid participants", err)
		return
	}

	c, err := h.Service.UpdateParticipants(r.Context(), chi.URLParam(r, "id"), participants)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCaseDTO(c))
}

// UpdateInstallments replaces the payment schedule.
func (h *Handler) UpdateInstallments(w http.ResponseWriter, r *http.Request) {
	var req UpdateInstallmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	installments, err := parseInstallments(req.Installments)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid installments", err)
		return
	}

	c, err := h.Service.UpdateInstallments(r.Context(), chi.URLParam(r, "id"), installments)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCaseDTO(c))
}

// UpdateIncurredCosts replaces the incurred-cost list.
func (h *Handler) UpdateIncurredCosts(w http.ResponseWriter, r *http.Request) {
	var req UpdateIncurredCostsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	costs, err := parseIncurredCosts(req.Costs)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid costs", err)
		return
	}

	c, err := h.Service.UpdateIncurredCosts(r.Context(), chi.URLParam(r, "id"), costs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCaseDTO(c))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps ledger errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Case not found", err)
	case ledger.IsRetryable(err):
		writeError(w, http.StatusConflict, "Concurrent modification, retry the request", err)
	case ledger.IsClientError(err):
		writeError(w, http.StatusUnprocessableEntity, "Validation failed", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
