package helpers

import "auction-marketplace/internal/models"

// Form DTOs

type CreateListingRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Category    string `form:"category"`
	StartingBid string `form:"starting_bid"`
	ImageURL    string `form:"image_url"`
}

// ToNewListing converts the form into the service input
func (r CreateListingRequest) ToNewListing() models.NewListing {
	return models.NewListing{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		StartingBid: r.StartingBid,
		ImageURL:    r.ImageURL,
	}
}

type PlaceBidRequest struct {
	Amount string `form:"bid"`
}

type CommentRequest struct {
	Content string `form:"comment"`
}
