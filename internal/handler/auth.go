package handler

import (
	"net/http"
	"strings"

	"github.com/templui/drivebox/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Signup(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "User registered successfully", ID: user.ID})
}

// Login accepts OAuth2 password-grant style forms, so the email may arrive
// as "username".
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("username")
	if strings.TrimSpace(email) == "" {
		email = r.FormValue("email")
	}

	user, err := h.authService.Login(r.Context(), email, r.FormValue("password"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
