// Package api exposes the bill service over a JSON HTTP surface. It only
// shuttles primitive values into the service and renders snapshots back;
// all validation lives in the core.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tuanlee/sharebill/internal/roster"
	"github.com/tuanlee/sharebill/internal/service"
)

// BillHandler serves the UI-facing endpoints.
type BillHandler struct {
	svc *service.BillService
}

// NewBillHandler creates the handler around the given service.
func NewBillHandler(svc *service.BillService) *BillHandler {
	return &BillHandler{svc: svc}
}

// Register wires all API routes onto the mux.
func (h *BillHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/bill", h.GetBill)
	mux.HandleFunc("PUT /api/bill/{field}", h.UpdateBill)

	mux.HandleFunc("POST /api/members", h.AddMember)
	mux.HandleFunc("PATCH /api/members/{id}", h.UpdateMember)
	mux.HandleFunc("DELETE /api/members/{id}", h.RemoveMember)
	mux.HandleFunc("POST /api/members/{id}/name", h.CommitName)
	mux.HandleFunc("POST /api/members/{id}/name/edit", h.BeginNameEdit)
	mux.HandleFunc("POST /api/members/{id}/name/cancel", h.CancelNameEdit)

	mux.HandleFunc("GET /api/names", h.GetNames)
	mux.HandleFunc("POST /api/names", h.AddName)
	mux.HandleFunc("PUT /api/names/{name}", h.RenameName)
	mux.HandleFunc("DELETE /api/names/{name}", h.RemoveName)

	mux.HandleFunc("POST /api/qrcodes", h.AddQRCode)
	mux.HandleFunc("DELETE /api/qrcodes/{id}", h.RemoveQRCode)

	mux.HandleFunc("POST /api/reset", h.StartReset)
	mux.HandleFunc("DELETE /api/reset", h.CancelReset)
}

// writeError maps core validation errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var limitErr *roster.OrderLimitError
	switch {
	case errors.Is(err, roster.ErrMemberNotFound):
		ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, roster.ErrDuplicateName):
		ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.As(err, &limitErr),
		errors.Is(err, roster.ErrNegativeAmount),
		errors.Is(err, roster.ErrEmptyName),
		errors.Is(err, service.ErrQRTypeRequired),
		errors.Is(err, service.ErrQRImageRequired),
		errors.Is(err, service.ErrInvalidField):
		ErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "internal error")
	}
}

// GetBill handles GET /api/bill
func (h *BillHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, h.svc.Snapshot())
}

// UpdateBill handles PUT /api/bill/{field}
func (h *BillHandler) UpdateBill(w http.ResponseWriter, r *http.Request) {
	field := r.PathValue("field")

	var req struct {
		Value string `json:"value"`
	}
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.UpdateBill(r.Context(), field, req.Value); err != nil {
		writeError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, h.svc.Snapshot())
}

// AddMember handles POST /api/members
func (h *BillHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.svc.AddMember(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("member row added", "member_id", member.ID)
	JSONResponse(w, http.StatusCreated, member)
}

// UpdateMember handles PATCH /api/members/{id}
func (h *BillHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Field string `json:"field"`
		Value any    `json:"value"`
	}
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Field == "" {
		ErrorResponse(w, http.StatusBadRequest, "field is required")
		return
	}

	if err := h.svc.UpdateMember(r.Context(), id, req.Field, req.Value); err != nil {
		writeError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, h.svc.Snapshot())
}

// RemoveMember handles DELETE /api/members/{id}
func (h *BillHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveMember(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, h.svc.Snapshot())
}

// BeginNameEdit handles POST /api/members/{id}/name/edit
func (h *BillHandler) BeginNameEdit(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.BeginNameEdit(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, h.svc.Snapshot())
}

// CommitName handles POST /api/members/{id}/name
func (h *BillHandler) CommitName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.CommitName(r.Context(), r.PathValue("id"), req.Name); err != nil {
		writeError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, h.svc.Snapshot())
}

// CancelNameEdit handles POST /api/members/{id}/name/cancel
func (h *BillHandler) CancelNameEdit(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CancelNameEdit(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, h.svc.Snapshot())
}

// GetNames handles GET /api/names
func (h *BillHandler) GetNames(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, h.svc.Snapshot().Names)
}

// AddName handles POST /api/names
func (h *BillHandler) AddName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.AddName(r.Context(), req.Name); err != nil {
		writeError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, h.svc.Snapshot().Names)
}

// RenameName handles PUT /api/names/{name}
func (h *BillHandler) RenameName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewName string `json:"newName"`
	}
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.RenameName(r.Context(), r.PathValue("name"), req.NewName); err != nil {
		writeError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, h.svc.Snapshot().Names)
}

// RemoveName handles DELETE /api/names/{name}. Member rows using the name
// keep it; the UI clears them with a separate member edit when it wants the
// linked behavior.
func (h *BillHandler) RemoveName(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveName(r.Context(), r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, h.svc.Snapshot().Names)
}

// AddQRCode handles POST /api/qrcodes
func (h *BillHandler) AddQRCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type      string `json:"type"`
		ImageData string `json:"imageData"`
	}
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	item, err := h.svc.AddQRCode(r.Context(), req.Type, req.ImageData)
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("qr code stored", "qr_id", item.ID, "type", item.Type)
	JSONResponse(w, http.StatusCreated, item)
}

// RemoveQRCode handles DELETE /api/qrcodes/{id}
func (h *BillHandler) RemoveQRCode(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveQRCode(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, h.svc.Snapshot())
}

// StartReset handles POST /api/reset
func (h *BillHandler) StartReset(w http.ResponseWriter, r *http.Request) {
	seconds := h.svc.StartReset()
	slog.Info("reset countdown armed", "seconds", seconds)
	JSONResponse(w, http.StatusAccepted, map[string]int{"countdown": seconds})
}

// CancelReset handles DELETE /api/reset
func (h *BillHandler) CancelReset(w http.ResponseWriter, r *http.Request) {
	h.svc.CancelReset()
	JSONResponse(w, http.StatusOK, h.svc.Snapshot())
}
