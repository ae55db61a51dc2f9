package repository

import (
	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepo is the relational implementation of AuctionDB
type GormRepo struct {
	db *gorm.DB
}

var _ AuctionDB = (*GormRepo)(nil)

// NewGormRepo creates a repository over an opened and migrated gorm database
func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

// CreateUser stores a new user; usernames are unique
func (r *GormRepo) CreateUser(ctx context.Context, user model.User) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("create user %s: %w", user.Username, auctionerrors.ErrDuplicateUsername)
	}
	if err != nil {
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return nil
}

// GetUserByID returns the user with the given id
func (r *GormRepo) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	return user, nil
}

// GetUserByUsername returns the user registered under username
func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, fmt.Errorf("get user %s: %w", username, auctionerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %s: %w", username, err)
	}
	return user, nil
}

// CreateListing stores a new listing
func (r *GormRepo) CreateListing(ctx context.Context, listing model.Listing) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&listing).Error; err != nil {
		return fmt.Errorf("create listing %s: %w", listing.ListingID, err)
	}
	return nil
}

// GetListing returns a listing together with its owner
func (r *GormRepo) GetListing(ctx context.Context, listingID string) (model.Listing, error) {
	var listing model.Listing
	err := r.db.WithContext(ctx).Preload("Owner").First(&listing, "listing_id = ?", listingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	if err != nil {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, err)
	}
	return listing, nil
}

// ListActiveListings returns active listings, newest first.
// An empty category matches every listing.
func (r *GormRepo) ListActiveListings(ctx context.Context, category string) ([]model.Listing, error) {
	q := r.db.WithContext(ctx).Preload("Owner").Where("active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var listings []model.Listing
	if err := q.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("list active listings: %w", err)
	}
	return listings, nil
}

// ListCategories returns the distinct non-empty categories of all listings, sorted
func (r *GormRepo) ListCategories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// DeactivateListing flips the listing's active flag to false
func (r *GormRepo) DeactivateListing(ctx context.Context, listingID string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("listing_id = ?", listingID).
		Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate listing %s: %w", listingID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("deactivate listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return nil
}

// RecordBidForListing appends a bid to the listing's history
func (r *GormRepo) RecordBidForListing(ctx context.Context, bid model.Bid) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Listing{}).Where("listing_id = ?", bid.ListingID).Count(&count).Error; err != nil {
			return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, err)
		}
		if count == 0 {
			return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, auctionerrors.ErrListingNotFound)
		}
		if err := tx.Omit(clause.Associations).Create(&bid).Error; err != nil {
			return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, err)
		}
		return nil
	})
}

// GetBidsByListing returns all bids for a listing in the order they were placed
func (r *GormRepo) GetBidsByListing(ctx context.Context, listingID string) ([]model.Bid, error) {
	var bids []model.Bid
	err := r.db.WithContext(ctx).
		Preload("Bidder").
		Where("listing_id = ?", listingID).
		Order("created_at ASC").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, err)
	}
	if len(bids) == 0 {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}
	return bids, nil
}

// GetHighestBid returns the highest bid for a listing
func (r *GormRepo) GetHighestBid(ctx context.Context, listingID string) (model.Bid, error) {
	var bid model.Bid
	err := r.db.WithContext(ctx).
		Preload("Bidder").
		Where("listing_id = ?", listingID).
		Order("amount DESC").
		Order("created_at ASC").
		First(&bid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Bid{}, fmt.Errorf("get highest bid for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("get highest bid for listing %s: %w", listingID, err)
	}
	return bid, nil
}

// AddComment appends a comment to a listing
func (r *GormRepo) AddComment(ctx context.Context, comment model.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&comment).Error; err != nil {
		return fmt.Errorf("add comment to listing %s: %w", comment.ListingID, err)
	}
	return nil
}

// GetCommentsByListing returns a listing's comments, newest first
func (r *GormRepo) GetCommentsByListing(ctx context.Context, listingID string) ([]model.Comment, error) {
	comments := []model.Comment{}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("get comments for listing %s: %w", listingID, err)
	}
	return comments, nil
}

// IsWatching reports whether the user watches the listing
func (r *GormRepo) IsWatching(ctx context.Context, userID, listingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WatchEntry{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check watchlist of user %s: %w", userID, err)
	}
	return count > 0, nil
}

// AddToWatchlist adds a listing to the user's watchlist; adding twice is a no-op
func (r *GormRepo) AddToWatchlist(ctx context.Context, userID, listingID string) error {
	entry := model.WatchEntry{UserID: userID, ListingID: listingID}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("watch listing %s for user %s: %w", listingID, userID, err)
	}
	return nil
}

// RemoveFromWatchlist removes a listing from the user's watchlist
func (r *GormRepo) RemoveFromWatchlist(ctx context.Context, userID, listingID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&model.WatchEntry{}).Error
	if err != nil {
		return fmt.Errorf("unwatch listing %s for user %s: %w", listingID, userID, err)
	}
	return nil
}

// GetWatchlist returns the listings a user watches, most recently added first
func (r *GormRepo) GetWatchlist(ctx context.Context, userID string) ([]model.Listing, error) {
	listings := []model.Listing{}
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Joins("JOIN watch_entries ON watch_entries.listing_id = listings.listing_id").
		Where("watch_entries.user_id = ?", userID).
		Order("watch_entries.created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("get watchlist of user %s: %w", userID, err)
	}
	return listings, nil
}
