package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/glovo-marketplace/internal/metrics"
	"github.com/iliyamo/glovo-marketplace/internal/model"
	"github.com/iliyamo/glovo-marketplace/internal/repository"
	"github.com/iliyamo/glovo-marketplace/internal/utils"
)

// UserStore is the credential store used by the auth endpoints.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// TokenLedger records issued refresh tokens until they are revoked.
type TokenLedger interface {
	Issue(ctx context.Context, userID uint64, token string, exp time.Time) error
	Lookup(ctx context.Context, token string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Users      UserStore
	Tokens     TokenLedger
	Issuer     *utils.TokenIssuer
	BcryptCost int

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthHandler(u UserStore, t TokenLedger, issuer *utils.TokenIssuer, bcryptCost int) *AuthHandler {
	return &AuthHandler{Users: u, Tokens: t, Issuer: issuer, BcryptCost: bcryptCost}
}

// ----- DTOs -----

type registerReq struct {
	Username    string     `json:"username" validate:"required,max=40"`
	Password    string     `json:"password" validate:"required,max=72"`
	Role        model.Role `json:"role"`
	FirstName   string     `json:"first_name" validate:"required,max=40"`
	LastName    string     `json:"last_name" validate:"required,max=40"`
	PhoneNumber *string    `json:"phone_number" validate:"omitempty,max=32"`
	Age         *int       `json:"age" validate:"omitempty,gte=0,lte=150"`
}

type loginReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenReq struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type loginResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type refreshResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

const errUsernameTaken = "username already exists"

// maxPasswordBytes is the longest input bcrypt accepts.  The validator's
// max counts runes, so multibyte passwords are checked separately.
const maxPasswordBytes = 72

// Register: create a user account.  No tokens are issued; the client
// logs in afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	if len(req.Password) > maxPasswordBytes {
		return errorJSON(c, http.StatusBadRequest, "password too long")
	}
	if req.Role == "" {
		req.Role = model.RoleClient
	}
	if !req.Role.Valid() {
		return errorJSON(c, http.StatusBadRequest, "invalid role")
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	exists, err := h.Users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		zap.L().Error("username lookup failed", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	if exists {
		return errorJSON(c, http.StatusBadRequest, errUsernameTaken)
	}

	u := &model.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		Age:         req.Age,
		Role:        req.Role,
	}
	if err := u.SetPassword(req.Password, h.BcryptCost); err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return errorJSON(c, http.StatusBadRequest, "password too long")
		}
		zap.L().Error("hash password failed", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "create user failed")
	}
	if err := h.Users.Create(ctx, u); err != nil {
		// a concurrent register can still win the unique key
		if errors.Is(err, repository.ErrConflict) {
			return errorJSON(c, http.StatusBadRequest, errUsernameTaken)
		}
		zap.L().Error("create user failed", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "create user failed")
	}
	metrics.RegistrationsTotal.Inc()
	return messageJSON(c, "Saved")
}

// Login: verify credentials and return a fresh token pair.  Unknown
// usernames and wrong passwords produce the same response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "username/password required")
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// burn a bcrypt comparison so response time does not reveal
			// whether the username exists
			utils.VerifyPassword(h.placeholderHash(), req.Password)
			return h.rejectLogin(c)
		}
		zap.L().Error("user lookup failed", zap.Error(err))
		return h.failLogin(c, "query failed")
	}
	if !u.CheckPassword(req.Password) {
		return h.rejectLogin(c)
	}

	claims := utils.Claims{
		UserID:           u.ID,
		Role:             string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{Subject: u.Username},
	}
	access, err := h.Issuer.CreateAccessToken(claims, 0)
	if err != nil {
		return h.failLogin(c, "issue access failed")
	}
	refresh, err := h.Issuer.CreateRefreshToken(claims)
	if err != nil {
		return h.failLogin(c, "issue refresh failed")
	}
	if err := h.Tokens.Issue(ctx, u.ID, refresh.Raw, refresh.Exp); err != nil {
		zap.L().Error("save refresh token failed", zap.Uint64("user_id", u.ID), zap.Error(err))
		return h.failLogin(c, "save refresh failed")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResp{
		AccessToken:  access.Raw,
		RefreshToken: refresh.Raw,
		TokenType:    "bearer",
	})
}

func (h *AuthHandler) rejectLogin(c echo.Context) error {
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
}

func (h *AuthHandler) failLogin(c echo.Context, msg string) error {
	metrics.LoginsTotal.WithLabelValues("error").Inc()
	return errorJSON(c, http.StatusInternalServerError, msg)
}

func (h *AuthHandler) placeholderHash() string {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = utils.HashPassword("placeholder-password", h.BcryptCost)
	})
	return h.dummyHash
}

// Logout: revoke a refresh token.  The token is read from the
// refresh_token query parameter, falling back to the request body.
func (h *AuthHandler) Logout(c echo.Context) error {
	token, err := refreshTokenFrom(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if token == "" {
		return errorJSON(c, http.StatusBadRequest, "refresh_token required")
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Tokens.Revoke(ctx, token); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return errorJSON(c, http.StatusUnauthorized, "invalid refresh token")
		}
		zap.L().Error("revoke refresh token failed", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "logout failed")
	}
	return messageJSON(c, "logged out")
}

// Refresh: exchange a live refresh token for a new access token.  The
// token must verify and still be present in the ledger; it is not rotated.
func (h *AuthHandler) Refresh(c echo.Context) error {
	token, err := refreshTokenFrom(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if token == "" {
		return errorJSON(c, http.StatusBadRequest, "refresh_token required")
	}
	claims, err := h.Issuer.ParseToken(token, utils.TypeRefresh)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, "invalid refresh token")
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	rt, err := h.Tokens.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return errorJSON(c, http.StatusUnauthorized, "invalid refresh token")
		}
		zap.L().Error("refresh token lookup failed", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	u, err := h.Users.GetByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusUnauthorized, "invalid refresh token")
		}
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}

	// role and username may have changed since the refresh token was minted
	claims.UserID = u.ID
	claims.Role = string(u.Role)
	claims.Subject = u.Username
	access, err := h.Issuer.CreateAccessToken(*claims, 0)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "issue access failed")
	}
	return c.JSON(http.StatusOK, refreshResp{AccessToken: access.Raw, TokenType: "bearer"})
}

// Me returns the account behind the access token.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "user not found")
		}
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, u)
}

func refreshTokenFrom(c echo.Context) (string, error) {
	if t := strings.TrimSpace(c.QueryParam("refresh_token")); t != "" {
		return t, nil
	}
	var req tokenReq
	if c.Request().ContentLength == 0 {
		return "", nil
	}
	if err := c.Bind(&req); err != nil {
		return "", err
	}
	return strings.TrimSpace(req.RefreshToken), nil
}
