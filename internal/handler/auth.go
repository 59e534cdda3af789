package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dentexpo/expo-manager/internal/auth"
	"github.com/dentexpo/expo-manager/internal/repository"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /v1/auth/register and creates an operator
// account.
func (h *Handler) Register(c echo.Context) error {
	var body credentials
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" || !strings.Contains(body.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a valid email is required"})
	}
	if len(body.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	if _, err := h.Users.GetByEmail(c.Request().Context(), body.Email); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return h.respondRepoErr(c, err)
	}

	hash, err := auth.HashPassword(body.Password, h.Auth.BcryptCost)
	if err != nil {
		h.Log.Error("password hashing failed", err, nil)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	u := repository.User{Email: body.Email, PasswordHash: hash}
	if err := h.Users.Create(c.Request().Context(), &u); err != nil {
		return h.respondRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": u.ID, "email": u.Email})
}

// Login handles POST /v1/auth/login and issues an access token.
func (h *Handler) Login(c echo.Context) error {
	var body credentials
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	u, err := h.Users.GetByEmail(c.Request().Context(), strings.TrimSpace(body.Email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	if !auth.VerifyPassword(u.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := auth.NewAccessToken(h.Auth.JWTSecret, u.ID, h.Auth.AccessTTLMin)
	if err != nil {
		h.Log.Error("token signing failed", err, nil)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp,
	})
}
