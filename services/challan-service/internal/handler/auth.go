package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/payload"
	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/usecase"
	"github.com/vasapolrittideah/challan-api/shared/httpmw"
	"github.com/vasapolrittideah/challan-api/shared/response"
)

func (h *httpHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req payload.SignupRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.authUsecase.Signup(r.Context(), usecase.SignupParams{
		Name:            req.Name,
		Email:           req.Gmail,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPasswordMismatch):
			response.WriteError(w, http.StatusBadRequest, "Passwords do not match")
		case errors.Is(err, usecase.ErrEmailTaken):
			response.WriteError(w, http.StatusBadRequest, "Email already exists")
		default:
			hlog.FromRequest(r).Error().Err(err).Msg("failed to sign up user")
			response.WriteError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	response.WriteJSON(w, http.StatusOK, payload.SignupResponse{Message: "User created successfully!"})
}

func (h *httpHandler) login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Gmail,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			response.WriteError(w, http.StatusBadRequest, "Invalid email or password")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("failed to log in user")
		response.WriteError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	response.WriteJSON(w, http.StatusOK, payload.LoginResponse{
		Message: "Login successful",
		Token:   tokens.AccessToken,
	})
}

func (h *httpHandler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpmw.UserClaimsFromContext(r.Context())
	if !ok {
		response.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	userID, err := claims.GetSubject()
	if err != nil || userID == "" {
		response.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	user, err := h.authUsecase.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			response.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("failed to load profile")
		response.WriteError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	response.WriteJSON(w, http.StatusOK, payload.ProfileResponse{
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Gmail: user.Email,
	})
}
