package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered participant in the marketplace
type User struct {
	UserID       string    `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	Username     string    `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"type:varchar(254)"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// Listing represents an item put up for auction by its owner
type Listing struct {
	ListingID   string          `json:"listing_id" gorm:"primaryKey;type:varchar(36)"`
	Title       string          `json:"title" gorm:"type:varchar(100);not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Category    string          `json:"category,omitempty" gorm:"type:varchar(50);index"`
	StartingBid decimal.Decimal `json:"starting_bid" gorm:"type:numeric(10,2);not null"`
	ImageURL    string          `json:"image_url,omitempty" gorm:"type:varchar(200)"`
	OwnerID     string          `json:"owner_id" gorm:"type:varchar(36);index;not null"`
	Active      bool            `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time       `json:"created_at"`

	Owner User `json:"owner" gorm:"foreignKey:OwnerID;references:UserID"`
}

// Bid represents a user's offer on a listing
type Bid struct {
	BidID     string          `json:"bid_id" gorm:"primaryKey;type:varchar(36)"`
	ListingID string          `json:"listing_id" gorm:"type:varchar(36);index;not null"`
	BidderID  string          `json:"bidder_id" gorm:"type:varchar(36);index;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(10,2);not null"`
	CreatedAt time.Time       `json:"created_at"`

	Bidder User `json:"bidder" gorm:"foreignKey:BidderID;references:UserID"`
}

// Comment is a free-text note left on a listing
type Comment struct {
	CommentID string    `json:"comment_id" gorm:"primaryKey;type:varchar(36)"`
	ListingID string    `json:"listing_id" gorm:"type:varchar(36);index;not null"`
	AuthorID  string    `json:"author_id" gorm:"type:varchar(36);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	Author User `json:"author" gorm:"foreignKey:AuthorID;references:UserID"`
}

// WatchEntry records that a user watches a listing
type WatchEntry struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	ListingID string    `json:"listing_id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
}
