package helpers

import (
	"errors"
	"net/http"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError renders a standardized error page for unreadable form posts
func HandleBindError(c *gin.Context, handlerName string, err error) {
	utils.HTMLError(c, http.StatusBadRequest, "invalid form submission")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and user message
func MapErrorToHTTP(err error) (int, string) {
	var fieldErr *auctionerrors.FieldError
	switch {
	case errors.Is(err, auctionerrors.ErrListingNotFound):
		return http.StatusNotFound, "Listing not found"
	case errors.Is(err, auctionerrors.ErrOwnerConflict):
		return http.StatusForbidden, "You cannot bid on your own listing."
	case errors.Is(err, auctionerrors.ErrInvalidAmount):
		return http.StatusBadRequest, "Invalid bid amount"
	case errors.Is(err, auctionerrors.ErrBelowStartingBid):
		return http.StatusConflict, "Bid must be at least the starting bid"
	case errors.Is(err, auctionerrors.ErrBelowHighestBid):
		return http.StatusConflict, "Bid must be greater than the current highest bid"
	case errors.Is(err, auctionerrors.ErrListingClosed):
		return http.StatusConflict, "This listing is closed"
	case errors.Is(err, auctionerrors.ErrEmptyComment):
		return http.StatusBadRequest, "Comment cannot be empty"
	case errors.Is(err, auctionerrors.ErrUnauthenticated):
		return http.StatusUnauthorized, "You must be logged in to comment"
	case errors.As(err, &fieldErr):
		return http.StatusBadRequest, "Invalid listing: " + fieldErr.Error()
	case errors.Is(err, auctionerrors.ErrInvalidListing):
		return http.StatusBadRequest, "Invalid listing details"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogFailure logs a service error at a level matching its HTTP status
func LogFailure(handlerName, message string, status int, ctx map[string]any) {
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": "+message, ctx)
		return
	}
	utils.Warn(handlerName+": "+message, ctx)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// ListingPath is the URL of a listing's detail page
func ListingPath(listingID string) string {
	return "/listing/" + listingID + "/"
}
