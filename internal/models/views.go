package models

import "github.com/shopspring/decimal"

// NewListing carries the owner-supplied fields of a listing to be created
type NewListing struct {
	Title       string `validate:"required,max=100"`
	Description string `validate:"required"`
	Category    string `validate:"max=50"`
	StartingBid string `validate:"required"`
	ImageURL    string `validate:"omitempty,http_url,max=200"`
}

// NewAccount carries the fields of a registration form
type NewAccount struct {
	Username     string
	Email        string
	Password     string
	Confirmation string
}

// ListingSummary is a listing paired with its current price
type ListingSummary struct {
	Listing      Listing
	CurrentPrice decimal.Decimal
}

// ListingDetail is everything the listing page shows
type ListingDetail struct {
	Listing      Listing
	CurrentPrice decimal.Decimal
	BidCount     int
	Winner       *User
	Comments     []Comment
	IsOwner      bool
	IsWatching   bool
	IsWinner     bool
}
