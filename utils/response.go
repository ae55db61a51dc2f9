package utils

import (
	"net/http"

	"auction-marketplace/internal/auth"

	"github.com/gin-gonic/gin"
)

// HTMLResponse renders a page template, adding the request's identity and path
func HTMLResponse(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Viewer"] = auth.IdentityFrom(c)
	data["Path"] = c.Request.URL.Path
	c.HTML(status, page, data)
}

// HTMLError renders the generic error page
func HTMLError(c *gin.Context, status int, message string) {
	HTMLResponse(c, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}

// Redirect sends the browser to location after a form post
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
