package handler

import (
	"errors"
	"net/http"
	"time"

	familydomain "family-organizer/internal/domain/family"
	identitydomain "family-organizer/internal/domain/identity"
	"family-organizer/internal/domain/token"
	"family-organizer/internal/transport/httpserver/middleware"
)

type signupRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=6"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	CountryCode string  `json:"countryCode" validate:"required,min=2,max=5"`
	PhoneNumber string  `json:"phoneNumber" validate:"required,min=5,max=15"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type locationRequest struct {
	Label   string   `json:"label" validate:"required,min=1"`
	Address *string  `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

type completeProfileRequest struct {
	Name         string            `json:"name" validate:"required,min=1,max=120"`
	Gender       *string           `json:"gender" validate:"omitempty,oneof=male female other"`
	BirthDate    *string           `json:"birthDate"`
	AvatarURL    *string           `json:"avatarUrl" validate:"omitempty,url"`
	FamilyName   string            `json:"familyName" validate:"omitempty,min=1"`
	RoleInFamily string            `json:"roleInFamily" validate:"omitempty,oneof=FATHER MOTHER SON DAUGHTER GRANDPARENTS OTHER"`
	Locations    []locationRequest `json:"locations" validate:"omitempty,dive"`
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	result, err := h.Auth.Signup(r.Context(), identitydomain.SignupInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		CountryCode: req.CountryCode,
		Phone:       req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, identitydomain.ErrUserExists) {
			h.log.BusinessError("auth.signup: user exists", err, "email", req.Email)
			writeError(w, http.StatusBadRequest, "user_exists", "user already exists")
			return
		}
		h.log.InternalError("auth.signup: signup failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  true,
		"userId":  result.User.ID,
		"access":  result.Access,
		"refresh": result.Refresh,
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	result, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identitydomain.ErrInvalidCredentials) {
			h.log.BusinessError("auth.login: invalid credentials", err, "email", req.Email)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
			return
		}
		h.log.InternalError("auth.login: login failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  true,
		"access":  result.Access,
		"refresh": result.Refresh,
		"user":    toUserResponse(result.User),
	})
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	access, err := h.Auth.Refresh(r.Context(), req.Refresh)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrInvalidToken), errors.Is(err, identitydomain.ErrSessionExpired):
			h.log.BusinessError("auth.refresh: rejected", err)
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		default:
			h.log.InternalError("auth.refresh: refresh failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": true,
		"access": access,
	})
}

func (h *Handlers) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req completeProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	patch := identitydomain.ProfilePatch{
		Name:      &req.Name,
		Gender:    req.Gender,
		AvatarURL: req.AvatarURL,
	}
	if req.BirthDate != nil {
		birthDate, err := parseDate(*req.BirthDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid birthDate")
			return
		}
		patch.BirthDate = &birthDate
	}

	locations := make([]familydomain.LocationInput, 0, len(req.Locations))
	for _, loc := range req.Locations {
		locations = append(locations, familydomain.LocationInput{
			Label:   loc.Label,
			Address: loc.Address,
			Lat:     loc.Lat,
			Lng:     loc.Lng,
		})
	}

	user, family, err := h.Families.Setup(r.Context(), claims.UserID(), familydomain.SetupInput{
		Patch:      patch,
		FamilyName: req.FamilyName,
		Role:       req.RoleInFamily,
		Locations:  locations,
	})
	if err != nil {
		h.log.InternalError("auth.complete_profile: setup failed", err, "user_id", claims.UserID())
		writeError(w, http.StatusInternalServerError, "internal_error", "unable to complete registration")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status": true,
		"user":   toUserResponse(user),
		"family": toFamilyResponse(family),
	})
}

type userResponse struct {
	ID          string     `json:"id"`
	Email       *string    `json:"email"`
	Phone       *string    `json:"phone"`
	CountryCode *string    `json:"countryCode"`
	Name        *string    `json:"name"`
	Gender      *string    `json:"gender"`
	BirthDate   *time.Time `json:"birthDate"`
	AvatarURL   *string    `json:"avatarUrl"`
	LoginCode   *string    `json:"loginCode"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type familyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(user *identitydomain.User) userResponse {
	return userResponse{
		ID:          user.ID,
		Email:       user.Email,
		Phone:       user.Phone,
		CountryCode: user.CountryCode,
		Name:        user.Name,
		Gender:      user.Gender,
		BirthDate:   user.BirthDate,
		AvatarURL:   user.AvatarURL,
		LoginCode:   user.LoginCode,
		CreatedAt:   user.CreatedAt,
	}
}

func toFamilyResponse(family *familydomain.Family) familyResponse {
	return familyResponse{
		ID:        family.ID,
		Name:      family.Name,
		OwnerID:   family.OwnerID,
		CreatedAt: family.CreatedAt,
	}
}
