package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/glovo-marketplace/internal/handler"
	"github.com/iliyamo/glovo-marketplace/internal/metrics"
	"github.com/iliyamo/glovo-marketplace/internal/mocks"
	"github.com/iliyamo/glovo-marketplace/internal/model"
	"github.com/iliyamo/glovo-marketplace/internal/repository"
	"github.com/iliyamo/glovo-marketplace/internal/utils"
)

const testSecret = "test-secret"

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	return e
}

func newAuth(users *mocks.UserStore, ledger *mocks.TokenLedger) (*handler.AuthHandler, *utils.TokenIssuer) {
	iss := utils.NewTokenIssuer(testSecret, 0, 0)
	return handler.NewAuthHandler(users, ledger, iss, bcrypt.MinCost), iss
}

func request(e *echo.Echo, method, target, contentType, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func annUser(t *testing.T) *model.User {
	t.Helper()
	u := &model.User{ID: 7, FirstName: "Ann", LastName: "Lee", Username: "ann", Role: model.RoleClient}
	require.NoError(t, u.SetPassword("pw123", bcrypt.MinCost))
	return u
}

const annRegister = `{"username":"ann","password":"pw123","role":"client","first_name":"Ann","last_name":"Lee"}`

func TestRegister(t *testing.T) {
	e := newEcho()
	users := new(mocks.UserStore)
	users.On("ExistsByUsername", mock.Anything, "ann").Return(false, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Username == "ann" &&
			u.PasswordHash != "pw123" &&
			u.CheckPassword("pw123") &&
			u.Role == model.RoleClient
	})).Return(nil)
	h, _ := newAuth(users, new(mocks.TokenLedger))

	c, rec := request(e, http.MethodPost, "/auth/register/", echo.MIMEApplicationJSON, annRegister)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Saved", decode(t, rec)["message"])
	users.AssertExpectations(t)
}

func TestRegister_DefaultsRoleToClient(t *testing.T) {
	e := newEcho()
	users := new(mocks.UserStore)
	users.On("ExistsByUsername", mock.Anything, "bob").Return(false, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleClient
	})).Return(nil)
	h, _ := newAuth(users, new(mocks.TokenLedger))

	c, rec := request(e, http.MethodPost, "/auth/register/", echo.MIMEApplicationJSON,
		`{"username":"bob","password":"x","first_name":"Bob","last_name":"Ray"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	e := newEcho()
	users := new(mocks.UserStore)
	users.On("ExistsByUsername", mock.Anything, "ann").Return(true, nil)
	h, _ := newAuth(users, new(mocks.TokenLedger))

	c, rec := request(e, http.MethodPost, "/auth/register/", echo.MIMEApplicationJSON, annRegister)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "username already exists", decode(t, rec)["error"])
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_UniqueKeyRace(t *testing.T) {
	e := newEcho()
	users := new(mocks.UserStore)
	users.On("ExistsByUsername", mock.Anything, "ann").Return(false, nil)
	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrConflict)
	h, _ := newAuth(users, new(mocks.TokenLedger))

	c, rec := request(e, http.MethodPost, "/auth/register/", echo.MIMEApplicationJSON, annRegister)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "username already exists", decode(t, rec)["error"])
}

func TestRegister_Validation(t *testing.T) {
	e := newEcho()
	users := new(mocks.UserStore)
	h, _ := newAuth(users, new(mocks.TokenLedger))

	for name, body := range map[string]string{
		"missing first name": `{"username":"ann","password":"pw123","last_name":"Lee"}`,
		"bad role":           `{"username":"ann","password":"pw123","role":"admin","first_name":"A","last_name":"L"}`,
		"empty password":     `{"username":"ann","password":"","first_name":"A","last_name":"L"}`,
		"malformed":          `{"username":`,
	} {
		t.Run(name, func(t *testing.T) {
			c, rec := request(e, http.MethodPost, "/auth/register/", echo.MIMEApplicationJSON, body)
			require.NoError(t, h.Register(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_PasswordOverBcryptLimit(t *testing.T) {
	e := newEcho()
	users := new(mocks.UserStore)
	h, _ := newAuth(users, new(mocks.TokenLedger))

	// 72 runes passes the validator but is 144 bytes
	body := `{"username":"ann","password":"` + strings.Repeat("é", 72) + `","first_name":"A","last_name":"L"}`
	c, rec := request(e, http.MethodPost, "/auth/register/", echo.MIMEApplicationJSON, body)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password too long", decode(t, rec)["error"])
	users.AssertNotCalled(t, "ExistsByUsername", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_PasswordAtBcryptLimit(t *testing.T) {
	e := newEcho()
	users := new(mocks.UserStore)
	users.On("ExistsByUsername", mock.Anything, "ann").Return(false, nil)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	h, _ := newAuth(users, new(mocks.TokenLedger))

	body := `{"username":"ann","password":"` + strings.Repeat("é", 36) + `","first_name":"A","last_name":"L"}`
	c, rec := request(e, http.MethodPost, "/auth/register/", echo.MIMEApplicationJSON, body)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
}

func TestRegister_UnknownRole(t *testing.T) {
	e := newEcho()
	users := new(mocks.UserStore)
	h, _ := newAuth(users, new(mocks.TokenLedger))

	c, rec := request(e, http.MethodPost, "/auth/register/", echo.MIMEApplicationJSON,
		`{"username":"ann","password":"pw123","role":"admin","first_name":"A","last_name":"L"}`)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid role", decode(t, rec)["error"])
	users.AssertNotCalled(t, "ExistsByUsername", mock.Anything, mock.Anything)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestLogin_StoreErrorCountsAsError(t *testing.T) {
	e := newEcho()
	users := new(mocks.UserStore)
	users.On("GetByUsername", mock.Anything, "ann").Return(nil, errors.New("connection refused"))
	h, _ := newAuth(users, new(mocks.TokenLedger))

	errorsBefore := counterValue(t, metrics.LoginsTotal.WithLabelValues("error"))
	failuresBefore := counterValue(t, metrics.LoginsTotal.WithLabelValues("failure"))

	c, rec := request(e, http.MethodPost, "/auth/login", echo.MIMEApplicationForm, "username=ann&password=pw123")
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, errorsBefore+1, counterValue(t, metrics.LoginsTotal.WithLabelValues("error")))
	assert.Equal(t, failuresBefore, counterValue(t, metrics.LoginsTotal.WithLabelValues("failure")))
}

func TestLogin_Success(t *testing.T) {
	e := newEcho()
	users := new(mocks.UserStore)
	users.On("GetByUsername", mock.Anything, "ann").Return(annUser(t), nil)
	ledger := new(mocks.TokenLedger)
	ledger.On("Issue", mock.Anything, uint64(7), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)
	h, iss := newAuth(users, ledger)

	for name, tc := range map[string]struct{ ct, body string }{
		"form": {echo.MIMEApplicationForm, "username=ann&password=pw123"},
		"json": {echo.MIMEApplicationJSON, `{"username":"ann","password":"pw123"}`},
	} {
		t.Run(name, func(t *testing.T) {
			c, rec := request(e, http.MethodPost, "/auth/login", tc.ct, tc.body)
			require.NoError(t, h.Login(c))
			require.Equal(t, http.StatusOK, rec.Code)

			body := decode(t, rec)
			assert.Equal(t, "bearer", body["token_type"])

			access, err := iss.ParseToken(body["access_token"].(string), utils.TypeAccess)
			require.NoError(t, err)
			assert.Equal(t, "ann", access.Subject)
			assert.Equal(t, uint64(7), access.UserID)
			assert.Equal(t, "client", access.Role)

			refresh := body["refresh_token"].(string)
			_, err = iss.ParseToken(refresh, utils.TypeRefresh)
			require.NoError(t, err)
			ledger.AssertCalled(t, "Issue", mock.Anything, uint64(7), refresh, mock.Anything)
		})
	}
}

func TestLogin_UnknownUserAndWrongPasswordLookAlike(t *testing.T) {
	e := newEcho()
	users := new(mocks.UserStore)
	users.On("GetByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)
	users.On("GetByUsername", mock.Anything, "ann").Return(annUser(t), nil)
	ledger := new(mocks.TokenLedger)
	h, _ := newAuth(users, ledger)

	c1, unknown := request(e, http.MethodPost, "/auth/login", echo.MIMEApplicationForm, "username=ghost&password=pw123")
	require.NoError(t, h.Login(c1))
	c2, wrong := request(e, http.MethodPost, "/auth/login", echo.MIMEApplicationForm, "username=ann&password=nope")
	require.NoError(t, h.Login(c2))

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	assert.Equal(t, "invalid credentials", decode(t, wrong)["error"])
	ledger.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_MissingFields(t *testing.T) {
	e := newEcho()
	h, _ := newAuth(new(mocks.UserStore), new(mocks.TokenLedger))
	c, rec := request(e, http.MethodPost, "/auth/login", echo.MIMEApplicationForm, "username=ann")
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout_RevokesOnce(t *testing.T) {
	e := newEcho()
	ledger := new(mocks.TokenLedger)
	ledger.On("Revoke", mock.Anything, "tok").Return(nil).Once()
	ledger.On("Revoke", mock.Anything, "tok").Return(repository.ErrTokenNotFound).Once()
	h, _ := newAuth(new(mocks.UserStore), ledger)

	c, rec := request(e, http.MethodPost, "/auth/logout/?refresh_token=tok", "", "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "logged out", decode(t, rec)["message"])

	c, rec = request(e, http.MethodPost, "/auth/logout/?refresh_token=tok", "", "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	ledger.AssertExpectations(t)
}

func TestLogout_BodyAndMissingToken(t *testing.T) {
	e := newEcho()
	ledger := new(mocks.TokenLedger)
	ledger.On("Revoke", mock.Anything, "from-body").Return(nil)
	h, _ := newAuth(new(mocks.UserStore), ledger)

	c, rec := request(e, http.MethodPost, "/auth/logout/", echo.MIMEApplicationJSON, `{"refresh_token":"from-body"}`)
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = request(e, http.MethodPost, "/auth/logout/", "", "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ledger.AssertNumberOfCalls(t, "Revoke", 1)
}

func TestRefresh(t *testing.T) {
	e := newEcho()
	users := new(mocks.UserStore)
	users.On("GetByID", mock.Anything, uint64(7)).Return(annUser(t), nil)
	ledger := new(mocks.TokenLedger)
	h, iss := newAuth(users, ledger)

	refresh, err := iss.CreateRefreshToken(utils.Claims{UserID: 7, Role: "client"})
	require.NoError(t, err)
	ledger.On("Lookup", mock.Anything, refresh.Raw).
		Return(&model.RefreshToken{ID: 1, UserID: 7, ExpiresAt: refresh.Exp}, nil)

	c, rec := request(e, http.MethodPost, "/auth/refresh/", echo.MIMEApplicationJSON,
		`{"refresh_token":"`+refresh.Raw+`"}`)
	require.NoError(t, h.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)

	claims, err := iss.ParseToken(decode(t, rec)["access_token"].(string), utils.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "ann", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(utils.DefaultAccessTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestRefresh_Rejections(t *testing.T) {
	e := newEcho()
	ledger := new(mocks.TokenLedger)
	h, iss := newAuth(new(mocks.UserStore), ledger)

	access, err := iss.CreateAccessToken(utils.Claims{UserID: 7}, 0)
	require.NoError(t, err)
	revoked, err := iss.CreateRefreshToken(utils.Claims{UserID: 7})
	require.NoError(t, err)
	ledger.On("Lookup", mock.Anything, revoked.Raw).Return(nil, repository.ErrTokenNotFound)

	for name, tok := range map[string]string{
		"access token": access.Raw,
		"garbage":      "not-a-jwt",
		"revoked":      revoked.Raw,
	} {
		t.Run(name, func(t *testing.T) {
			c, rec := request(e, http.MethodPost, "/auth/refresh/?refresh_token="+tok, "", "")
			require.NoError(t, h.Refresh(c))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
	ledger.AssertNotCalled(t, "Lookup", mock.Anything, access.Raw)
}

func TestMe(t *testing.T) {
	e := newEcho()
	users := new(mocks.UserStore)
	users.On("GetByID", mock.Anything, uint64(7)).Return(annUser(t), nil)
	h, _ := newAuth(users, new(mocks.TokenLedger))

	c, rec := request(e, http.MethodGet, "/auth/me", "", "")
	c.Set("user_id", uint64(7))
	require.NoError(t, h.Me(c))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ann", body["username"])
	assert.NotContains(t, body, "password_hash")
	assert.NotContains(t, rec.Body.String(), "$2a$")
}
