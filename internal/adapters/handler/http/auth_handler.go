package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vidstream/accounts/internal/core/domain"
	"github.com/vidstream/accounts/internal/core/ports"
)

type AuthHandler struct {
	sessions   ports.SessionService
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthHandler(sessions ports.SessionService, accessTTL, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		sessions:   sessions,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

type registerRequest struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	AvatarURL     string `json:"avatarUrl"`
	CoverImageURL string `json:"coverImageUrl"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	user, err := h.sessions.Register(r.Context(), ports.RegisterInput{
		FullName:      req.FullName,
		Email:         req.Email,
		Username:      req.Username,
		Password:      req.Password,
		AvatarURL:     req.AvatarURL,
		CoverImageURL: req.CoverImageURL,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user, "user registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	result, err := h.sessions.Login(r.Context(), ports.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	h.setTokenCookies(w, result.Tokens)
	writeSuccess(w, http.StatusOK, loginResponse{
		User:         result.User,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	}, "login successful")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie("refreshToken"); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshRequest
		// The body is optional when the cookie is present, so decode
		// failures only matter if we still have no token.
		_ = json.NewDecoder(r.Body).Decode(&req)
		token = req.RefreshToken
	}
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing refresh token")
		return
	}

	pair, err := h.sessions.Refresh(r.Context(), token)
	if err != nil {
		h.expireTokenCookies(w)
		respondError(w, err)
		return
	}

	h.setTokenCookies(w, *pair)
	writeSuccess(w, http.StatusOK, pair, "token refreshed successfully")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	if err := h.sessions.Logout(r.Context(), principal.ID); err != nil {
		respondError(w, err)
		return
	}

	h.expireTokenCookies(w)
	writeSuccess(w, http.StatusOK, nil, "logged out successfully")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	if err := h.sessions.ChangePassword(r.Context(), principal.ID, req.OldPassword, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}

	// Changing the password revokes the stored refresh token, so the
	// cookies are dead weight from here on.
	h.expireTokenCookies(w)
	writeSuccess(w, http.StatusOK, nil, "password changed successfully")
}

func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, tokens domain.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    tokens.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.accessTTL.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    tokens.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.refreshTTL.Seconds()),
	})
}

func (h *AuthHandler) expireTokenCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "accessToken", MaxAge: -1, Path: "/", HttpOnly: true, Secure: true})
	http.SetCookie(w, &http.Cookie{Name: "refreshToken", MaxAge: -1, Path: "/", HttpOnly: true, Secure: true})
}
