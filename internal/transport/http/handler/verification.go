package handler

import (
	"net/http"

	"github.com/No0oD/Stajh2Test/internal/application/verification"
	"github.com/No0oD/Stajh2Test/internal/domain"
	"github.com/No0oD/Stajh2Test/internal/pkg/validate"
)

type SendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyCodeRequest only requires presence. Format is not checked so that an
// expired or missing record is reported before a malformed code.
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// VerificationHandler exposes issuing and verifying reset codes.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendVerificationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.Issue(r.Context(), req.Email); err != nil {
		httpError(w, r, err)
		return
	}
	writeSuccess(w)
}

func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.Verify(r.Context(), req.Email, req.Code); err != nil {
		httpError(w, r, err)
		return
	}
	writeSuccess(w)
}
