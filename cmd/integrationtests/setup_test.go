package integrationtests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	account "auction-marketplace/internal/accountService"
	auction "auction-marketplace/internal/auctionService"
	"auction-marketplace/internal/auth"
	"auction-marketplace/internal/events"
	"auction-marketplace/internal/locker"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/server"
	accounthandler "auction-marketplace/services/account/handler"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const cookieName = "auction_session"

// testApp is the full router over an in-memory store
type testApp struct {
	router *gin.Engine
	repo   *repository.MemoryRepo
	events *test.Hook
}

// SetupTestApp initializes the router with in-memory repository for integration testing.
func SetupTestApp() *testApp {
	gin.SetMode(gin.TestMode)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.InfoLevel)

	repo := repository.NewMemoryRepo()
	auctionSvc := auction.NewAuctionService(repo, locker.NewLocalLocker(), events.NewLogPublisher(logger))
	accountSvc := account.NewAccountService(repo, auth.NewTokenManager("integration-secret", time.Hour))

	router := server.SetupRouter(auctionSvc, accountSvc, accounthandler.CookieSettings{Name: cookieName})
	return &testApp{router: router, repo: repo, events: hook}
}

// listingByTitle finds an active listing through the store
func (a *testApp) listingByTitle(t *testing.T, title string) model.Listing {
	t.Helper()

	listings, err := a.repo.ListActiveListings(context.Background(), "")
	require.NoError(t, err)
	for _, l := range listings {
		if l.Title == title {
			return l
		}
	}
	t.Fatalf("listing %q not found", title)
	return model.Listing{}
}

// browser keeps the cookies a real browser would between requests
type browser struct {
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) newBrowser() *browser {
	return &browser{app: a, cookies: map[string]*http.Cookie{}}
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func (b *browser) ExecuteRequest(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	b.app.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.ExecuteRequest(http.MethodGet, path, nil)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return b.ExecuteRequest(http.MethodPost, path, form)
}

// register signs a new user up and leaves the browser logged in
func (b *browser) register(t *testing.T, username string) {
	t.Helper()

	w := b.post("/register", url.Values{
		"username":     {username},
		"email":        {username + "@example.com"},
		"password":     {"pw-" + username},
		"confirmation": {"pw-" + username},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	require.Contains(t, b.cookies, cookieName)
}

func (b *browser) createListing(t *testing.T, title, category, startingBid string) model.Listing {
	t.Helper()

	w := b.post("/create_listing", url.Values{
		"title":        {title},
		"description":  {title + " description"},
		"category":     {category},
		"starting_bid": {startingBid},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	return b.app.listingByTitle(t, title)
}
