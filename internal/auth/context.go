package auth

import (
	"auction-marketplace/internal/models"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// SetIdentity stores the request's authenticated identity in the gin context
func SetIdentity(c *gin.Context, id models.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the request's identity; anonymous when none was set
func IdentityFrom(c *gin.Context) models.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}
	}
	id, _ := v.(models.Identity)
	return id
}
