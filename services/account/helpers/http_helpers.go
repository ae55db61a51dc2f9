package helpers

import (
	"errors"
	"net/http"
	"strings"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/utils"
)

// MapErrorToHTTP maps account errors to HTTP status code and user message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrDuplicateUsername):
		return http.StatusConflict, "Username already taken."
	case errors.Is(err, auctionerrors.ErrPasswordMismatch):
		return http.StatusBadRequest, "Passwords must match."
	case errors.Is(err, auctionerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username and/or password."
	case errors.Is(err, auctionerrors.ErrInvalidRegistration):
		return http.StatusBadRequest, "Username and password are required."
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// SafeNext returns next when it is a local path, "/" otherwise
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}

// LogFailure logs an account error at a level matching its HTTP status
func LogFailure(handlerName, message string, status int, ctx map[string]any) {
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": "+message, ctx)
		return
	}
	utils.Warn(handlerName+": "+message, ctx)
}
