package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const cookieName = "auction_session"

func newTestRouter(h *AccountHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.SetHTMLTemplate(web.Templates())
	router.GET("/login", h.LoginFormHandler)
	router.POST("/login", h.LoginHandler)
	router.GET("/logout", h.LogoutHandler)
	router.GET("/register", h.RegisterFormHandler)
	router.POST("/register", h.RegisterHandler)
	return router
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

// Test LoginHandler
func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAccountServiceInterface(ctrl)
	router := newTestRouter(NewAccountHandler(mockService, CookieSettings{Name: cookieName}))

	user := models.User{UserID: uuid.NewString(), Username: "alice"}

	tests := []struct {
		name             string
		form             url.Values
		mockSetup        func()
		expectedStatus   int
		expectedLocation string
		expectedBody     string
		expectCookie     bool
	}{
		{
			name: "success_sets_cookie",
			form: url.Values{"username": {"alice"}, "password": {"secret"}},
			mockSetup: func() {
				mockService.EXPECT().Authenticate(gomock.Any(), "alice", "secret").Return(user, nil)
				mockService.EXPECT().IssueSession(user).Return("signed-token", nil)
				mockService.EXPECT().SessionTTL().Return(time.Hour)
			},
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/",
			expectCookie:     true,
		},
		{
			name: "success_honours_next",
			form: url.Values{"username": {"alice"}, "password": {"secret"}, "next": {"/watchlist/"}},
			mockSetup: func() {
				mockService.EXPECT().Authenticate(gomock.Any(), "alice", "secret").Return(user, nil)
				mockService.EXPECT().IssueSession(user).Return("signed-token", nil)
				mockService.EXPECT().SessionTTL().Return(time.Hour)
			},
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/watchlist/",
			expectCookie:     true,
		},
		{
			name: "external_next_ignored",
			form: url.Values{"username": {"alice"}, "password": {"secret"}, "next": {"https://evil.example/"}},
			mockSetup: func() {
				mockService.EXPECT().Authenticate(gomock.Any(), "alice", "secret").Return(user, nil)
				mockService.EXPECT().IssueSession(user).Return("signed-token", nil)
				mockService.EXPECT().SessionTTL().Return(time.Hour)
			},
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/",
			expectCookie:     true,
		},
		{
			name: "wrong_password",
			form: url.Values{"username": {"alice"}, "password": {"nope"}},
			mockSetup: func() {
				mockService.EXPECT().
					Authenticate(gomock.Any(), "alice", "nope").
					Return(models.User{}, fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid username and/or password.",
		},
		{
			name: "session_issue_failure",
			form: url.Values{"username": {"alice"}, "password": {"secret"}},
			mockSetup: func() {
				mockService.EXPECT().Authenticate(gomock.Any(), "alice", "secret").Return(user, nil)
				mockService.EXPECT().IssueSession(user).Return("", errors.New("signing failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "internal server error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			w := postForm(router, "/login", tc.form)

			require.Equal(t, tc.expectedStatus, w.Code)
			if tc.expectedLocation != "" {
				require.Equal(t, tc.expectedLocation, w.Header().Get("Location"))
			}
			if tc.expectedBody != "" {
				require.Contains(t, w.Body.String(), tc.expectedBody)
			}

			cookie := sessionCookie(w)
			if tc.expectCookie {
				require.NotNil(t, cookie)
				require.Equal(t, "signed-token", cookie.Value)
				require.True(t, cookie.HttpOnly)
				require.Equal(t, 3600, cookie.MaxAge)
			} else {
				require.Nil(t, cookie)
			}
		})
	}
}

// Test RegisterHandler
func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAccountServiceInterface(ctrl)
	router := newTestRouter(NewAccountHandler(mockService, CookieSettings{Name: cookieName}))

	form := url.Values{
		"username":     {"carol"},
		"email":        {"carol@example.com"},
		"password":     {"pw"},
		"confirmation": {"pw"},
	}
	input := models.NewAccount{Username: "carol", Email: "carol@example.com", Password: "pw", Confirmation: "pw"}
	user := models.User{UserID: uuid.NewString(), Username: "carol"}

	tests := []struct {
		name           string
		mockSetup      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success_logs_in",
			mockSetup: func() {
				mockService.EXPECT().Register(gomock.Any(), input).Return(user, nil)
				mockService.EXPECT().IssueSession(user).Return("signed-token", nil)
				mockService.EXPECT().SessionTTL().Return(24 * time.Hour)
			},
			expectedStatus: http.StatusSeeOther,
		},
		{
			name: "duplicate_username",
			mockSetup: func() {
				mockService.EXPECT().
					Register(gomock.Any(), input).
					Return(models.User{}, fmt.Errorf("service: %w", auctionerrors.ErrDuplicateUsername))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   "Username already taken.",
		},
		{
			name: "password_mismatch",
			mockSetup: func() {
				mockService.EXPECT().
					Register(gomock.Any(), input).
					Return(models.User{}, auctionerrors.ErrPasswordMismatch)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Passwords must match.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			w := postForm(router, "/register", form)

			require.Equal(t, tc.expectedStatus, w.Code)
			if tc.expectedBody != "" {
				require.Contains(t, w.Body.String(), tc.expectedBody)
				require.Contains(t, w.Body.String(), "carol@example.com")
			} else {
				require.Equal(t, "/", w.Header().Get("Location"))
				require.NotNil(t, sessionCookie(w))
			}
		})
	}
}

func TestLogoutAndForms(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := newTestRouter(NewAccountHandler(NewMockAccountServiceInterface(ctrl), CookieSettings{Name: cookieName}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logout", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	require.Empty(t, cookie.Value)
	require.Less(t, cookie.MaxAge, 0)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login?next=/create_listing", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `value="/create_listing"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/register", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "confirmation")
}
