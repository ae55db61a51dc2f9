package repository

import (
	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// UserStore persists registered users
type UserStore interface {
	CreateUser(ctx context.Context, user model.User) error
	GetUserByID(ctx context.Context, userID string) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

// ListingStore persists listings and their active flag
type ListingStore interface {
	CreateListing(ctx context.Context, listing model.Listing) error
	GetListing(ctx context.Context, listingID string) (model.Listing, error)
	ListActiveListings(ctx context.Context, category string) ([]model.Listing, error)
	ListCategories(ctx context.Context) ([]string, error)
	DeactivateListing(ctx context.Context, listingID string) error
}

// BidStore persists the append-only bid history of listings
type BidStore interface {
	RecordBidForListing(ctx context.Context, bid model.Bid) error
	GetBidsByListing(ctx context.Context, listingID string) ([]model.Bid, error)
	GetHighestBid(ctx context.Context, listingID string) (model.Bid, error)
}

// CommentStore persists the append-only comments of listings
type CommentStore interface {
	AddComment(ctx context.Context, comment model.Comment) error
	GetCommentsByListing(ctx context.Context, listingID string) ([]model.Comment, error)
}

// WatchlistStore persists the per-user set of watched listings
type WatchlistStore interface {
	IsWatching(ctx context.Context, userID, listingID string) (bool, error)
	AddToWatchlist(ctx context.Context, userID, listingID string) error
	RemoveFromWatchlist(ctx context.Context, userID, listingID string) error
	GetWatchlist(ctx context.Context, userID string) ([]model.Listing, error)
}

// AuctionDB defines the storage interface for the marketplace
type AuctionDB interface {
	UserStore
	ListingStore
	BidStore
	CommentStore
	WatchlistStore
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu           sync.RWMutex
	users        map[string]model.User             // key: userID
	usernames    map[string]string                 // key: username -> userID
	listings     map[string]model.Listing          // key: listingID
	listingOrder []string                          // listingIDs in creation order
	bids         map[string][]model.Bid            // key: listingID -> bids in arrival order
	comments     map[string][]model.Comment        // key: listingID -> comments in arrival order
	watchlists   map[string]map[string]time.Time   // key: userID -> listingID -> added at
	watchOrder   map[string][]string               // key: userID -> listingIDs in the order they were added
}

var _ AuctionDB = (*MemoryRepo)(nil)

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:      make(map[string]model.User),
		usernames:  make(map[string]string),
		listings:   make(map[string]model.Listing),
		bids:       make(map[string][]model.Bid),
		comments:   make(map[string][]model.Comment),
		watchlists: make(map[string]map[string]time.Time),
		watchOrder: make(map[string][]string),
	}
}

// CreateUser stores a new user; usernames are unique
func (r *MemoryRepo) CreateUser(_ context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.usernames[user.Username]; taken {
		return fmt.Errorf("create user %s: %w", user.Username, auctionerrors.ErrDuplicateUsername)
	}
	r.users[user.UserID] = user
	r.usernames[user.Username] = user.UserID
	return nil
}

// GetUserByID returns the user with the given id
func (r *MemoryRepo) GetUserByID(_ context.Context, userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return user, nil
}

// GetUserByUsername returns the user registered under username
func (r *MemoryRepo) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.usernames[username]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", username, auctionerrors.ErrUserNotFound)
	}
	return r.users[id], nil
}

// CreateListing stores a new listing
func (r *MemoryRepo) CreateListing(_ context.Context, listing model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[listing.OwnerID]; !ok {
		return fmt.Errorf("create listing %s: owner %s: %w", listing.ListingID, listing.OwnerID, auctionerrors.ErrUserNotFound)
	}
	listing.Owner = model.User{}
	r.listings[listing.ListingID] = listing
	r.listingOrder = append(r.listingOrder, listing.ListingID)
	return nil
}

// GetListing returns a listing together with its owner
func (r *MemoryRepo) GetListing(_ context.Context, listingID string) (model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[listingID]
	if !ok {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return r.withOwner(listing), nil
}

// ListActiveListings returns active listings, newest first.
// An empty category matches every listing.
func (r *MemoryRepo) ListActiveListings(_ context.Context, category string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listings := make([]model.Listing, 0, len(r.listingOrder))
	for i := len(r.listingOrder) - 1; i >= 0; i-- {
		listing := r.listings[r.listingOrder[i]]
		if !listing.Active {
			continue
		}
		if category != "" && listing.Category != category {
			continue
		}
		listings = append(listings, r.withOwner(listing))
	}
	return listings, nil
}

// ListCategories returns the distinct non-empty categories of all listings, sorted
func (r *MemoryRepo) ListCategories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := []string{}
	for _, listing := range r.listings {
		if listing.Category == "" {
			continue
		}
		if _, ok := seen[listing.Category]; ok {
			continue
		}
		seen[listing.Category] = struct{}{}
		categories = append(categories, listing.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// DeactivateListing flips the listing's active flag to false
func (r *MemoryRepo) DeactivateListing(_ context.Context, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[listingID]
	if !ok {
		return fmt.Errorf("deactivate listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	listing.Active = false
	r.listings[listingID] = listing
	return nil
}

// RecordBidForListing appends a bid to the listing's history
func (r *MemoryRepo) RecordBidForListing(_ context.Context, bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[bid.ListingID]; !ok {
		return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, auctionerrors.ErrListingNotFound)
	}
	bid.Bidder = model.User{}
	r.bids[bid.ListingID] = append(r.bids[bid.ListingID], bid)
	return nil
}

// GetBidsByListing returns all bids for a listing in the order they were placed
func (r *MemoryRepo) GetBidsByListing(_ context.Context, listingID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[listingID]
	if !ok || len(bids) == 0 {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}

	out := make([]model.Bid, 0, len(bids))
	for _, b := range bids {
		b.Bidder = r.users[b.BidderID]
		out = append(out, b)
	}
	return out, nil
}

// GetHighestBid returns the highest bid for a listing
func (r *MemoryRepo) GetHighestBid(_ context.Context, listingID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[listingID]
	if !ok || len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get highest bid for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}

	highest := bids[0]
	for _, b := range bids[1:] {
		if b.Amount.GreaterThan(highest.Amount) || (b.Amount.Equal(highest.Amount) && b.CreatedAt.Before(highest.CreatedAt)) {
			highest = b
		}
	}
	highest.Bidder = r.users[highest.BidderID]
	return highest, nil
}

// AddComment appends a comment to a listing
func (r *MemoryRepo) AddComment(_ context.Context, comment model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[comment.ListingID]; !ok {
		return fmt.Errorf("add comment to listing %s: %w", comment.ListingID, auctionerrors.ErrListingNotFound)
	}
	comment.Author = model.User{}
	r.comments[comment.ListingID] = append(r.comments[comment.ListingID], comment)
	return nil
}

// GetCommentsByListing returns a listing's comments, newest first
func (r *MemoryRepo) GetCommentsByListing(_ context.Context, listingID string) ([]model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := r.comments[listingID]
	out := make([]model.Comment, 0, len(comments))
	for i := len(comments) - 1; i >= 0; i-- {
		c := comments[i]
		c.Author = r.users[c.AuthorID]
		out = append(out, c)
	}
	return out, nil
}

// IsWatching reports whether the user watches the listing
func (r *MemoryRepo) IsWatching(_ context.Context, userID, listingID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.watchlists[userID][listingID]
	return ok, nil
}

// AddToWatchlist adds a listing to the user's watchlist; adding twice is a no-op
func (r *MemoryRepo) AddToWatchlist(_ context.Context, userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listingID]; !ok {
		return fmt.Errorf("watch listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	if r.watchlists[userID] == nil {
		r.watchlists[userID] = make(map[string]time.Time)
	}
	if _, ok := r.watchlists[userID][listingID]; ok {
		return nil
	}
	r.watchlists[userID][listingID] = time.Now().UTC()
	r.watchOrder[userID] = append(r.watchOrder[userID], listingID)
	return nil
}

// RemoveFromWatchlist removes a listing from the user's watchlist
func (r *MemoryRepo) RemoveFromWatchlist(_ context.Context, userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.watchlists[userID][listingID]; !ok {
		return nil
	}
	delete(r.watchlists[userID], listingID)

	order := r.watchOrder[userID]
	for i, id := range order {
		if id == listingID {
			r.watchOrder[userID] = append(order[:i:i], order[i+1:]...)
			break
		}
	}
	return nil
}

// GetWatchlist returns the listings a user watches, most recently added first
func (r *MemoryRepo) GetWatchlist(_ context.Context, userID string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order := r.watchOrder[userID]
	listings := make([]model.Listing, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		if listing, ok := r.listings[order[i]]; ok {
			listings = append(listings, r.withOwner(listing))
		}
	}
	return listings, nil
}

// withOwner attaches the owner record; callers must hold the lock
func (r *MemoryRepo) withOwner(listing model.Listing) model.Listing {
	listing.Owner = r.users[listing.OwnerID]
	return listing
}
