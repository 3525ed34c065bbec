package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"mypts/internal/auth"
	"mypts/internal/middleware"
	"mypts/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	if err := validateRegistration(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "registration_failed")
		return
	}
	profileID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.profiles.Create(r.Context(), tx, profileID, req.Username, req.Email, passwordHash); err != nil {
			return err
		}
		// balance rows are created lazily on first credit; nothing to seed here
		hasAdmin, err := h.admin.HasAnyAdmin(r.Context())
		if err != nil {
			return err
		}
		if !hasAdmin {
			return h.admin.CreateAdmin(r.Context(), tx, profileID, true, nil)
		}
		return nil
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "username_or_email_exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "registration_failed")
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, profileID, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "token_generation_failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"token": token, "profile_id": profileID})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	profile, err := h.profiles.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "login_failed")
		return
	}
	hash, _ := profile["password_hash"].(string)
	if !auth.CheckPassword(hash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	profileID, _ := profile["id"].(string)
	token, err := auth.GenerateToken(h.cfg.JWTSecret, profileID, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "token_generation_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token, "profile_id": profileID})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	profile, err := h.profiles.GetByID(r.Context(), profileID)
	if err != nil {
		respondError(w, http.StatusNotFound, "profile_not_found")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid_token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.ProfileID)
}
