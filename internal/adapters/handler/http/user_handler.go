package http

import (
	"encoding/json"
	"net/http"

	"github.com/vidstream/accounts/internal/core/domain"
	"github.com/vidstream/accounts/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}
	writeSuccess(w, http.StatusOK, principal, "current user fetched successfully")
}

type updateProfileRequest struct {
	FullName      *string `json:"fullName"`
	Email         *string `json:"email"`
	AvatarURL     *string `json:"avatarUrl"`
	CoverImageURL *string `json:"coverImageUrl"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), principal.ID, domain.ProfileUpdate{
		FullName:      req.FullName,
		Email:         req.Email,
		AvatarURL:     req.AvatarURL,
		CoverImageURL: req.CoverImageURL,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, "profile updated successfully")
}
