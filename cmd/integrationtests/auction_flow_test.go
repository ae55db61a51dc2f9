package integrationtests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuctionLifecycle(t *testing.T) {
	app := SetupTestApp()

	alice := app.newBrowser()
	alice.register(t, "alice")
	bob := app.newBrowser()
	bob.register(t, "bob")
	carol := app.newBrowser()
	carol.register(t, "carol")
	visitor := app.newBrowser()

	listing := alice.createListing(t, "Vintage Lamp", "Home", "10")
	detailPath := "/listing/" + listing.ListingID + "/"
	bidPath := detailPath + "bid/"

	// index shows the listing at its starting price
	w := visitor.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Vintage Lamp")
	require.Contains(t, w.Body.String(), "$10.00")

	tests := []struct {
		name       string
		who        *browser
		amount     string
		wantStatus int
		wantBody   string
	}{
		{name: "first_bid_at_starting_price", who: bob, amount: "10", wantStatus: http.StatusSeeOther},
		{name: "equal_bid_rejected", who: carol, amount: "10", wantStatus: http.StatusConflict, wantBody: "Bid must be greater than the current highest bid"},
		{name: "below_starting_bid", who: carol, amount: "5", wantStatus: http.StatusConflict, wantBody: "Bid must be"},
		{name: "owner_cannot_bid", who: alice, amount: "100", wantStatus: http.StatusForbidden, wantBody: "You cannot bid on your own listing."},
		{name: "invalid_amount", who: carol, amount: "lots", wantStatus: http.StatusBadRequest, wantBody: "Invalid bid amount"},
		{name: "higher_bid_accepted", who: carol, amount: "15", wantStatus: http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.who.post(bidPath, url.Values{"bid": {tt.amount}})
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusSeeOther {
				require.Equal(t, detailPath, w.Header().Get("Location"))
			}
			if tt.wantBody != "" {
				require.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}

	// anonymous bidders are sent to log in
	w = visitor.post(bidPath, url.Values{"bid": {"99"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Contains(t, w.Header().Get("Location"), "/login?next=")

	w = visitor.get(detailPath)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "$15.00")
	require.Contains(t, w.Body.String(), "2 bid(s)")

	// a non-owner cannot close the auction
	w = bob.post(detailPath+"close/", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.True(t, app.listingByTitle(t, "Vintage Lamp").Active)

	// the owner closes it and the highest bidder wins
	w = alice.post(detailPath+"close/", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = carol.get(detailPath)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "you won this auction")

	w = bob.get(detailPath)
	require.Contains(t, w.Body.String(), "Winner: carol")
	require.NotContains(t, w.Body.String(), "Place Bid")

	w = bob.post(bidPath, url.Values{"bid": {"50"}})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "This listing is closed")

	// closed listings leave the index
	w = visitor.get("/")
	require.NotContains(t, w.Body.String(), "Vintage Lamp")

	// every state change was published
	var types []string
	for _, e := range app.events.AllEntries() {
		if e.Message == "marketplace event" {
			types = append(types, e.Data["type"].(string))
		}
	}
	require.Equal(t, []string{"listing.created", "bid.placed", "bid.placed", "listing.closed"}, types)
}

func TestCommentsAndWatchlist(t *testing.T) {
	app := SetupTestApp()

	alice := app.newBrowser()
	alice.register(t, "alice")
	bob := app.newBrowser()
	bob.register(t, "bob")
	visitor := app.newBrowser()

	listing := alice.createListing(t, "Mechanical Keyboard", "Electronics", "45.50")
	detailPath := "/listing/" + listing.ListingID + "/"

	w := bob.post(detailPath, url.Values{"comment": {"  Which switches?  "}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = bob.post(detailPath, url.Values{"comment": {"   "}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Comment cannot be empty")

	w = visitor.post(detailPath, url.Values{"comment": {"hello"}})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "You must be logged in to comment")

	w = visitor.get(detailPath)
	require.Contains(t, w.Body.String(), "Which switches?")

	// watchlist toggles on and off
	w = bob.post(detailPath+"watchlist/", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = bob.get("/watchlist/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Mechanical Keyboard")

	w = bob.get(detailPath)
	require.Contains(t, w.Body.String(), "Remove from Watchlist")

	w = bob.post(detailPath+"watchlist/", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = bob.get("/watchlist/")
	require.NotContains(t, w.Body.String(), "Mechanical Keyboard")

	w = visitor.get("/watchlist/")
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/login?next=%2Fwatchlist%2F", w.Header().Get("Location"))

	// categories
	w = visitor.get("/categories")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "/categories/Electronics/")

	w = visitor.get("/categories/Electronics/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Mechanical Keyboard")
	require.Contains(t, w.Body.String(), "$45.50")
}

func TestAccounts(t *testing.T) {
	app := SetupTestApp()

	alice := app.newBrowser()
	alice.register(t, "alice")

	// duplicate username
	other := app.newBrowser()
	w := other.post("/register", url.Values{
		"username": {"alice"}, "password": {"x"}, "confirmation": {"x"},
	})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "Username already taken.")

	w = other.post("/register", url.Values{
		"username": {"dave"}, "password": {"x"}, "confirmation": {"y"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Passwords must match.")

	// protected pages redirect anonymous visitors
	w = other.get("/create_listing")
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/login?next=%2Fcreate_listing", w.Header().Get("Location"))

	w = other.post("/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Invalid username and/or password.")

	w = other.post("/login", url.Values{"username": {"alice"}, "password": {"pw-alice"}, "next": {"/create_listing"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/create_listing", w.Header().Get("Location"))

	w = other.get("/create_listing")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Signed in as <strong>alice</strong>")

	w = other.get("/logout")
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = other.get("/create_listing")
	require.Equal(t, http.StatusSeeOther, w.Code)

	// a forged session cookie is treated as anonymous
	forged := app.newBrowser()
	forged.cookies[cookieName] = &http.Cookie{Name: cookieName, Value: "forged.token.value"}
	w = forged.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Not signed in.")
}

func TestRoutingEdges(t *testing.T) {
	app := SetupTestApp()
	visitor := app.newBrowser()

	w := visitor.get("/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())

	w = visitor.get("/listing/not-a-uuid/")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Listing not found")

	w = visitor.get("/listing/00000000-0000-0000-0000-000000000000/")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = visitor.get("/no/such/page")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "page not found")
}

func TestCreateListingValidation(t *testing.T) {
	app := SetupTestApp()

	alice := app.newBrowser()
	alice.register(t, "alice")

	w := alice.post("/create_listing", url.Values{
		"title": {""}, "description": {"desc"}, "starting_bid": {"5"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Invalid listing: title is required")

	w = alice.post("/create_listing", url.Values{
		"title": {"Lamp"}, "description": {"desc"}, "starting_bid": {"five"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Starting bid must be a valid amount")
	require.Contains(t, w.Body.String(), `value="Lamp"`)
}
