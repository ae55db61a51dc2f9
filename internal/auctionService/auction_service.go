package auction

import (
	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/events"
	"auction-marketplace/internal/locker"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// AuctionService holds the marketplace rules: pricing, bidding, closing,
// watchlists and comments
type AuctionService struct {
	repo      repository.AuctionDB
	locker    locker.Locker
	publisher events.Publisher
	validate  *validator.Validate
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(repo repository.AuctionDB, lk locker.Locker, publisher events.Publisher) *AuctionService {
	return &AuctionService{
		repo:      repo,
		locker:    lk,
		publisher: publisher,
		validate:  validator.New(),
	}
}

func listingLockKey(listingID string) string {
	return "listing:" + listingID
}

// CurrentPrice returns the highest bid on a listing, or its starting bid when nobody has bid
func (s *AuctionService) CurrentPrice(ctx context.Context, listingID string) (decimal.Decimal, error) {
	listing, err := s.getListing(ctx, listingID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.currentPrice(ctx, listing)
}

func (s *AuctionService) currentPrice(ctx context.Context, listing models.Listing) (decimal.Decimal, error) {
	highest, err := s.repo.GetHighestBid(ctx, listing.ListingID)
	if errors.Is(err, auctionerrors.ErrNoBids) {
		return listing.StartingBid, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("service: failed to get highest bid for listing %s: %w", listing.ListingID, err)
	}
	return highest.Amount, nil
}

// PlaceBid validates and records a bid, returning the listing's new current price
func (s *AuctionService) PlaceBid(ctx context.Context, listingID string, bidder models.Identity, rawAmount string) (decimal.Decimal, error) {
	if !bidder.Authenticated() {
		return decimal.Zero, fmt.Errorf("service: %w - bidder must be logged in", auctionerrors.ErrUnauthenticated)
	}

	unlock, err := s.locker.Lock(ctx, listingLockKey(listingID))
	if err != nil {
		return decimal.Zero, fmt.Errorf("service: failed to lock listing %s: %w", listingID, err)
	}
	defer unlock()

	listing, err := s.getListing(ctx, listingID)
	if err != nil {
		return decimal.Zero, err
	}

	amount, err := s.validateBid(ctx, listing, bidder, rawAmount)
	if err != nil {
		return decimal.Zero, err
	}

	bid := models.Bid{
		BidID:     utils.GenerateID(),
		ListingID: listingID,
		BidderID:  bidder.UserID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.RecordBidForListing(ctx, bid); err != nil {
		return decimal.Zero, fmt.Errorf("service: failed to record bid for listing %s by user %s: %w", listingID, bidder.UserID, err)
	}

	s.publish(ctx, events.New(events.BidPlaced, listingID, bidder.UserID, amount.StringFixed(amountScale)))
	return amount, nil
}

// validateBid applies the bidding rules in order: owner, amount format,
// starting bid, highest bid, then whether the listing is still open
func (s *AuctionService) validateBid(ctx context.Context, listing models.Listing, bidder models.Identity, rawAmount string) (decimal.Decimal, error) {
	if bidder.Is(listing.OwnerID) {
		return decimal.Zero, fmt.Errorf("service: %w - listing %s", auctionerrors.ErrOwnerConflict, listing.ListingID)
	}

	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidAmount)
	}
	if amount.LessThan(listing.StartingBid) {
		return decimal.Zero, fmt.Errorf("service: %w - starting bid is %s", auctionerrors.ErrBelowStartingBid, listing.StartingBid.StringFixed(amountScale))
	}

	highest, err := s.repo.GetHighestBid(ctx, listing.ListingID)
	if err == nil {
		if amount.LessThanOrEqual(highest.Amount) {
			return decimal.Zero, fmt.Errorf("service: %w - current highest bid is %s", auctionerrors.ErrBelowHighestBid, highest.Amount.StringFixed(amountScale))
		}
	} else if !errors.Is(err, auctionerrors.ErrNoBids) {
		return decimal.Zero, fmt.Errorf("service: failed to check highest bid: %w", err)
	}

	if !listing.Active {
		return decimal.Zero, fmt.Errorf("service: %w - listing %s", auctionerrors.ErrListingClosed, listing.ListingID)
	}
	return amount, nil
}

// CloseListing ends the auction. It silently does nothing unless the
// requester owns the listing and the listing is still active.
func (s *AuctionService) CloseListing(ctx context.Context, listingID string, requester models.Identity) (models.Listing, error) {
	unlock, err := s.locker.Lock(ctx, listingLockKey(listingID))
	if err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to lock listing %s: %w", listingID, err)
	}
	defer unlock()

	listing, err := s.getListing(ctx, listingID)
	if err != nil {
		return models.Listing{}, err
	}
	if !requester.Is(listing.OwnerID) || !listing.Active {
		return listing, nil
	}

	if err := s.repo.DeactivateListing(ctx, listingID); err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to close listing %s: %w", listingID, err)
	}
	listing.Active = false

	event := events.New(events.ListingClosed, listingID, "", "")
	highest, err := s.repo.GetHighestBid(ctx, listingID)
	switch {
	case err == nil:
		event.UserID = highest.BidderID
		event.Amount = highest.Amount.StringFixed(amountScale)
	case !errors.Is(err, auctionerrors.ErrNoBids):
		utils.Warn("AuctionService: failed to look up winning bid", map[string]any{"listing_id": listingID, "error": err.Error()})
	}
	s.publish(ctx, event)

	return listing, nil
}

// Winner returns the bidder of the highest bid on a closed listing.
// It returns nil while the listing is active or when nobody bid.
func (s *AuctionService) Winner(ctx context.Context, listingID string) (*models.User, error) {
	listing, err := s.getListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return s.winnerOf(ctx, listing)
}

func (s *AuctionService) winnerOf(ctx context.Context, listing models.Listing) (*models.User, error) {
	if listing.Active {
		return nil, nil
	}

	highest, err := s.repo.GetHighestBid(ctx, listing.ListingID)
	if errors.Is(err, auctionerrors.ErrNoBids) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("service: failed to get winning bid for listing %s: %w", listing.ListingID, err)
	}

	winner := highest.Bidder
	if winner.UserID == "" {
		winner, err = s.repo.GetUserByID(ctx, highest.BidderID)
		if err != nil {
			return nil, fmt.Errorf("service: failed to load winner of listing %s: %w", listing.ListingID, err)
		}
	}
	return &winner, nil
}

// BidsForListing returns a listing's bids in the order they were placed
func (s *AuctionService) BidsForListing(ctx context.Context, listingID string) ([]models.Bid, error) {
	bids, err := s.repo.GetBidsByListing(ctx, listingID)
	if errors.Is(err, auctionerrors.ErrNoBids) {
		return []models.Bid{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for listing %s: %w", listingID, err)
	}
	return bids, nil
}

// ToggleWatchlist flips the listing's membership in the user's watchlist
// and reports whether the user now watches it
func (s *AuctionService) ToggleWatchlist(ctx context.Context, listingID string, user models.Identity) (bool, error) {
	if !user.Authenticated() {
		return false, fmt.Errorf("service: %w - watchlist requires login", auctionerrors.ErrUnauthenticated)
	}
	if _, err := s.getListing(ctx, listingID); err != nil {
		return false, err
	}

	watching, err := s.repo.IsWatching(ctx, user.UserID, listingID)
	if err != nil {
		return false, fmt.Errorf("service: failed to read watchlist of user %s: %w", user.UserID, err)
	}

	if watching {
		if err := s.repo.RemoveFromWatchlist(ctx, user.UserID, listingID); err != nil {
			return true, fmt.Errorf("service: failed to unwatch listing %s: %w", listingID, err)
		}
		return false, nil
	}

	if err := s.repo.AddToWatchlist(ctx, user.UserID, listingID); err != nil {
		return false, fmt.Errorf("service: failed to watch listing %s: %w", listingID, err)
	}
	return true, nil
}

// Watchlist returns the listings the user watches, with current prices
func (s *AuctionService) Watchlist(ctx context.Context, user models.Identity) ([]models.ListingSummary, error) {
	if !user.Authenticated() {
		return nil, fmt.Errorf("service: %w - watchlist requires login", auctionerrors.ErrUnauthenticated)
	}

	listings, err := s.repo.GetWatchlist(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get watchlist of user %s: %w", user.UserID, err)
	}
	return s.summarize(ctx, listings)
}

// AddComment appends a comment to a listing
func (s *AuctionService) AddComment(ctx context.Context, listingID string, author models.Identity, content string) (models.Comment, error) {
	if !author.Authenticated() {
		return models.Comment{}, fmt.Errorf("service: %w - comments require login", auctionerrors.ErrUnauthenticated)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, fmt.Errorf("service: %w", auctionerrors.ErrEmptyComment)
	}

	if _, err := s.getListing(ctx, listingID); err != nil {
		return models.Comment{}, err
	}

	comment := models.Comment{
		CommentID: utils.GenerateID(),
		ListingID: listingID,
		AuthorID:  author.UserID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return models.Comment{}, fmt.Errorf("service: failed to add comment to listing %s: %w", listingID, err)
	}

	comment.Author = models.User{UserID: author.UserID, Username: author.Username}
	return comment, nil
}

// CreateListing validates the owner's input and stores an active listing
func (s *AuctionService) CreateListing(ctx context.Context, owner models.Identity, in models.NewListing) (models.Listing, error) {
	if !owner.Authenticated() {
		return models.Listing{}, fmt.Errorf("service: %w - listing requires login", auctionerrors.ErrUnauthenticated)
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.StartingBid = strings.TrimSpace(in.StartingBid)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	if err := s.validate.Struct(in); err != nil {
		return models.Listing{}, fmt.Errorf("service: %w", describeValidation(err))
	}

	startingBid, err := ParseAmount(in.StartingBid)
	if err != nil {
		return models.Listing{}, err
	}

	listing := models.Listing{
		ListingID:   utils.GenerateID(),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		StartingBid: startingBid,
		ImageURL:    in.ImageURL,
		OwnerID:     owner.UserID,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateListing(ctx, listing); err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to create listing for user %s: %w", owner.UserID, err)
	}
	listing.Owner = models.User{UserID: owner.UserID, Username: owner.Username}

	s.publish(ctx, events.New(events.ListingCreated, listing.ListingID, owner.UserID, startingBid.StringFixed(amountScale)))
	return listing, nil
}

var fieldLabels = map[string]string{
	"Title":       "title",
	"Description": "description",
	"Category":    "category",
	"StartingBid": "starting bid",
	"ImageURL":    "image URL",
}

// describeValidation turns validator output into a FieldError for the first failing field
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", auctionerrors.ErrInvalidListing, err)
	}

	fe := verrs[0]
	field, ok := fieldLabels[fe.Field()]
	if !ok {
		field = strings.ToLower(fe.Field())
	}

	switch fe.Tag() {
	case "required":
		return &auctionerrors.FieldError{Field: field, Problem: "is required"}
	case "max":
		return &auctionerrors.FieldError{Field: field, Problem: fmt.Sprintf("must be at most %s characters", fe.Param())}
	case "url", "http_url":
		return &auctionerrors.FieldError{Field: field, Problem: "must be a valid URL"}
	default:
		return &auctionerrors.FieldError{Field: field, Problem: "is invalid"}
	}
}

// ActiveListings returns every open listing with its current price, newest first
func (s *AuctionService) ActiveListings(ctx context.Context) ([]models.ListingSummary, error) {
	listings, err := s.repo.ListActiveListings(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("service: failed to list active listings: %w", err)
	}
	return s.summarize(ctx, listings)
}

// ListingsByCategory returns the open listings of one category
func (s *AuctionService) ListingsByCategory(ctx context.Context, category string) ([]models.ListingSummary, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return []models.ListingSummary{}, nil
	}

	listings, err := s.repo.ListActiveListings(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list listings in category %s: %w", category, err)
	}
	return s.summarize(ctx, listings)
}

// Categories returns the distinct categories in use
func (s *AuctionService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}
	return categories, nil
}

// ListingDetail gathers everything the listing page shows for viewer
func (s *AuctionService) ListingDetail(ctx context.Context, listingID string, viewer models.Identity) (models.ListingDetail, error) {
	listing, err := s.getListing(ctx, listingID)
	if err != nil {
		return models.ListingDetail{}, err
	}

	bids, err := s.BidsForListing(ctx, listingID)
	if err != nil {
		return models.ListingDetail{}, err
	}

	detail := models.ListingDetail{
		Listing:      listing,
		CurrentPrice: listing.StartingBid,
		BidCount:     len(bids),
		IsOwner:      viewer.Is(listing.OwnerID),
	}

	var highest *models.Bid
	for i := range bids {
		if highest == nil || bids[i].Amount.GreaterThan(highest.Amount) {
			highest = &bids[i]
		}
	}
	if highest != nil {
		detail.CurrentPrice = highest.Amount
	}

	if !listing.Active && highest != nil {
		winner, err := s.winnerOf(ctx, listing)
		if err != nil {
			return models.ListingDetail{}, err
		}
		detail.Winner = winner
		detail.IsWinner = winner != nil && viewer.Is(winner.UserID)
	}

	detail.Comments, err = s.repo.GetCommentsByListing(ctx, listingID)
	if err != nil {
		return models.ListingDetail{}, fmt.Errorf("service: failed to get comments for listing %s: %w", listingID, err)
	}

	if viewer.Authenticated() {
		detail.IsWatching, err = s.repo.IsWatching(ctx, viewer.UserID, listingID)
		if err != nil {
			return models.ListingDetail{}, fmt.Errorf("service: failed to read watchlist of user %s: %w", viewer.UserID, err)
		}
	}

	return detail, nil
}

func (s *AuctionService) getListing(ctx context.Context, listingID string) (models.Listing, error) {
	if listingID == "" {
		return models.Listing{}, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrListingNotFound)
	}

	listing, err := s.repo.GetListing(ctx, listingID)
	if err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to get listing %s: %w", listingID, err)
	}
	return listing, nil
}

func (s *AuctionService) summarize(ctx context.Context, listings []models.Listing) ([]models.ListingSummary, error) {
	summaries := make([]models.ListingSummary, 0, len(listings))
	for _, listing := range listings {
		price, err := s.currentPrice(ctx, listing)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.ListingSummary{Listing: listing, CurrentPrice: price})
	}
	return summaries, nil
}

func (s *AuctionService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		utils.Warn("AuctionService: failed to publish event", map[string]any{
			"type":       string(event.Type),
			"listing_id": event.ListingID,
			"error":      err.Error(),
		})
	}
}
