package handler

import (
	"context"
	"errors"
	"net/http"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/auth"
	"auction-marketplace/internal/models"
	"auction-marketplace/services/auction/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AuctionServiceInterface interface {
	ActiveListings(ctx context.Context) ([]models.ListingSummary, error)
	CreateListing(ctx context.Context, owner models.Identity, in models.NewListing) (models.Listing, error)
	ListingDetail(ctx context.Context, listingID string, viewer models.Identity) (models.ListingDetail, error)
	AddComment(ctx context.Context, listingID string, author models.Identity, content string) (models.Comment, error)
	PlaceBid(ctx context.Context, listingID string, bidder models.Identity, amount string) (decimal.Decimal, error)
	CloseListing(ctx context.Context, listingID string, requester models.Identity) (models.Listing, error)
	ToggleWatchlist(ctx context.Context, listingID string, user models.Identity) (bool, error)
	Watchlist(ctx context.Context, user models.Identity) ([]models.ListingSummary, error)
	Categories(ctx context.Context) ([]string, error)
	ListingsByCategory(ctx context.Context, category string) ([]models.ListingSummary, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// IndexHandler handles GET /
func (h *AuctionHandler) IndexHandler(c *gin.Context) {
	listings, err := h.service.ActiveListings(c.Request.Context())
	if err != nil {
		h.renderServiceError(c, "IndexHandler", err, nil)
		return
	}

	utils.HTMLResponse(c, http.StatusOK, "index.html", gin.H{
		"Title":    "Active Listings",
		"Listings": listings,
	})
}

// CreateListingFormHandler handles GET /create_listing
func (h *AuctionHandler) CreateListingFormHandler(c *gin.Context) {
	utils.HTMLResponse(c, http.StatusOK, "create_listing.html", gin.H{
		"Title": "Create Listing",
		"Form":  helpers.CreateListingRequest{},
	})
}

// CreateListingHandler handles POST /create_listing
func (h *AuctionHandler) CreateListingHandler(c *gin.Context) {
	var req helpers.CreateListingRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.HandleBindError(c, "CreateListingHandler", err)
		return
	}

	owner := auth.IdentityFrom(c)
	listing, err := h.service.CreateListing(c.Request.Context(), owner, req.ToNewListing())
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		if status == http.StatusInternalServerError {
			h.renderServiceError(c, "CreateListingHandler", err, map[string]any{"user_id": owner.UserID})
			return
		}
		if status == http.StatusBadRequest && !isFieldError(err) {
			message = "Starting bid must be a valid amount"
		}
		utils.HTMLResponse(c, status, "create_listing.html", gin.H{
			"Title":   "Create Listing",
			"Form":    req,
			"Message": message,
		})
		helpers.LogFailure("CreateListingHandler", "listing rejected", status, map[string]any{
			"user_id": owner.UserID,
			"error":   err.Error(),
		})
		return
	}

	utils.Redirect(c, "/")
	helpers.LogSuccess("CreateListingHandler", "listing created", map[string]any{
		"listing_id": listing.ListingID,
		"user_id":    owner.UserID,
	})
}

// ListingDetailHandler handles GET /listing/:listing_id/
func (h *AuctionHandler) ListingDetailHandler(c *gin.Context) {
	listingID, ok := h.listingID(c)
	if !ok {
		return
	}
	h.renderDetail(c, "ListingDetailHandler", http.StatusOK, listingID, nil)
}

// AddCommentHandler handles POST /listing/:listing_id/
func (h *AuctionHandler) AddCommentHandler(c *gin.Context) {
	listingID, ok := h.listingID(c)
	if !ok {
		return
	}

	var req helpers.CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.HandleBindError(c, "AddCommentHandler", err)
		return
	}

	author := auth.IdentityFrom(c)
	comment, err := h.service.AddComment(c.Request.Context(), listingID, author, req.Content)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		if status == http.StatusInternalServerError || status == http.StatusNotFound {
			h.renderServiceError(c, "AddCommentHandler", err, map[string]any{"listing_id": listingID})
			return
		}
		helpers.LogFailure("AddCommentHandler", "comment rejected", status, map[string]any{
			"listing_id": listingID,
			"user_id":    author.UserID,
			"error":      err.Error(),
		})
		h.renderDetail(c, "AddCommentHandler", status, listingID, gin.H{"CommentError": message})
		return
	}

	utils.Redirect(c, helpers.ListingPath(listingID))
	helpers.LogSuccess("AddCommentHandler", "comment added", map[string]any{
		"comment_id": comment.CommentID,
		"listing_id": listingID,
		"user_id":    author.UserID,
	})
}

// PlaceBidHandler handles POST /listing/:listing_id/bid/
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	listingID, ok := h.listingID(c)
	if !ok {
		return
	}

	var req helpers.PlaceBidRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bidder := auth.IdentityFrom(c)
	price, err := h.service.PlaceBid(c.Request.Context(), listingID, bidder, req.Amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		if status == http.StatusInternalServerError || status == http.StatusNotFound {
			h.renderServiceError(c, "PlaceBidHandler", err, map[string]any{"listing_id": listingID})
			return
		}
		helpers.LogFailure("PlaceBidHandler", "bid rejected", status, map[string]any{
			"listing_id": listingID,
			"user_id":    bidder.UserID,
			"amount":     req.Amount,
			"error":      err.Error(),
		})
		h.renderDetail(c, "PlaceBidHandler", status, listingID, gin.H{"BidError": message})
		return
	}

	utils.Redirect(c, helpers.ListingPath(listingID))
	helpers.LogSuccess("PlaceBidHandler", "bid recorded successfully", map[string]any{
		"listing_id": listingID,
		"user_id":    bidder.UserID,
		"amount":     price.StringFixed(2),
	})
}

// CloseListingHandler handles POST /listing/:listing_id/close/
func (h *AuctionHandler) CloseListingHandler(c *gin.Context) {
	listingID, ok := h.listingID(c)
	if !ok {
		return
	}

	requester := auth.IdentityFrom(c)
	listing, err := h.service.CloseListing(c.Request.Context(), listingID, requester)
	if err != nil {
		h.renderServiceError(c, "CloseListingHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.Redirect(c, helpers.ListingPath(listingID))
	helpers.LogSuccess("CloseListingHandler", "close requested", map[string]any{
		"listing_id": listingID,
		"user_id":    requester.UserID,
		"active":     listing.Active,
	})
}

// ToggleWatchlistHandler handles POST /listing/:listing_id/watchlist/
func (h *AuctionHandler) ToggleWatchlistHandler(c *gin.Context) {
	listingID, ok := h.listingID(c)
	if !ok {
		return
	}

	user := auth.IdentityFrom(c)
	watching, err := h.service.ToggleWatchlist(c.Request.Context(), listingID, user)
	if err != nil {
		h.renderServiceError(c, "ToggleWatchlistHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.Redirect(c, helpers.ListingPath(listingID))
	helpers.LogSuccess("ToggleWatchlistHandler", "watchlist toggled", map[string]any{
		"listing_id": listingID,
		"user_id":    user.UserID,
		"watching":   watching,
	})
}

// WatchlistHandler handles GET /watchlist/
func (h *AuctionHandler) WatchlistHandler(c *gin.Context) {
	listings, err := h.service.Watchlist(c.Request.Context(), auth.IdentityFrom(c))
	if err != nil {
		h.renderServiceError(c, "WatchlistHandler", err, nil)
		return
	}

	utils.HTMLResponse(c, http.StatusOK, "watchlist.html", gin.H{
		"Title":    "Watchlist",
		"Listings": listings,
	})
}

// CategoriesHandler handles GET /categories
func (h *AuctionHandler) CategoriesHandler(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.renderServiceError(c, "CategoriesHandler", err, nil)
		return
	}

	utils.HTMLResponse(c, http.StatusOK, "categories.html", gin.H{
		"Title":      "Categories",
		"Categories": categories,
	})
}

// CategoryListingsHandler handles GET /categories/:category/
func (h *AuctionHandler) CategoryListingsHandler(c *gin.Context) {
	category := c.Param("category")
	listings, err := h.service.ListingsByCategory(c.Request.Context(), category)
	if err != nil {
		h.renderServiceError(c, "CategoryListingsHandler", err, map[string]any{"category": category})
		return
	}

	utils.HTMLResponse(c, http.StatusOK, "category_listings.html", gin.H{
		"Title":    category,
		"Category": category,
		"Listings": listings,
	})
}

// listingID reads the :listing_id path parameter; malformed ids get a 404 page
func (h *AuctionHandler) listingID(c *gin.Context) (string, bool) {
	listingID := c.Param("listing_id")
	if !utils.IsValidID(listingID) {
		utils.HTMLError(c, http.StatusNotFound, "Listing not found")
		return "", false
	}
	return listingID, true
}

func (h *AuctionHandler) renderDetail(c *gin.Context, handlerName string, status int, listingID string, extra gin.H) {
	detail, err := h.service.ListingDetail(c.Request.Context(), listingID, auth.IdentityFrom(c))
	if err != nil {
		h.renderServiceError(c, handlerName, err, map[string]any{"listing_id": listingID})
		return
	}

	data := gin.H{
		"Title":  detail.Listing.Title,
		"Detail": detail,
	}
	for k, v := range extra {
		data[k] = v
	}
	utils.HTMLResponse(c, status, "listing_detail.html", data)
}

func (h *AuctionHandler) renderServiceError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := helpers.MapErrorToHTTP(err)
	utils.HTMLError(c, status, message)

	logFields := map[string]any{"error": err.Error()}
	for k, v := range fields {
		logFields[k] = v
	}
	helpers.LogFailure(handlerName, "request failed", status, logFields)
}

func isFieldError(err error) bool {
	var fieldErr *auctionerrors.FieldError
	return errors.As(err, &fieldErr)
}
