package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	familydomain "family-organizer/internal/domain/family"
	"family-organizer/internal/transport/httpserver/middleware"
)

type addMemberRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	Role        string  `json:"role" validate:"required,oneof=FATHER MOTHER SON DAUGHTER GRANDPARENTS OTHER"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,min=5,max=15"`
	CountryCode *string `json:"countryCode" validate:"omitempty,min=2,max=5"`
	AvatarURL   *string `json:"avatarUrl" validate:"omitempty,url"`
}

func (h *Handlers) AddFamilyMember(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "familyId")

	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	result, err := h.Families.AddMember(r.Context(), claims.UserID(), familyID, familydomain.AddMemberInput{
		Name:        req.Name,
		Role:        req.Role,
		Email:       req.Email,
		Phone:       req.Phone,
		CountryCode: req.CountryCode,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		h.writeFamilyError(w, "family.add_member", err, familyID)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status":         true,
		"userId":         result.UserID,
		"familyMemberId": result.FamilyMemberID,
		"loginCode":      result.LoginCode,
	})
}

func (h *Handlers) GetFamilyMembers(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "familyId")

	members, err := h.Families.ListMembers(r.Context(), claims.UserID(), familyID)
	if err != nil {
		h.writeFamilyError(w, "family.list_members", err, familyID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  true,
		"members": members,
	})
}

func (h *Handlers) writeFamilyError(w http.ResponseWriter, op string, err error, familyID string) {
	switch {
	case errors.Is(err, familydomain.ErrFamilyNotFound):
		h.log.BusinessError(op+": family not found", err, "family_id", familyID)
		writeError(w, http.StatusNotFound, "family_not_found", "family not found")
	case errors.Is(err, familydomain.ErrNotFamilyMember):
		h.log.BusinessError(op+": caller is not a member", err, "family_id", familyID)
		writeError(w, http.StatusForbidden, "not_family_member", "you are not a member of this family")
	default:
		h.log.InternalError(op+": failed", err, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
