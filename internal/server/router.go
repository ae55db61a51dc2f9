package server

import (
	"net/http"

	accounthandler "auction-marketplace/services/account/handler"
	auctionhandler "auction-marketplace/services/auction/handler"

	"auction-marketplace/internal/web"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// AccountService is what the router needs from the account layer
type AccountService interface {
	accounthandler.AccountServiceInterface
	IdentityResolver
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService auctionhandler.AuctionServiceInterface, accountService AccountService, cookie accounthandler.CookieSettings) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(SessionMiddleware(accountService, cookie.Name, cookie.Secure))

	router.SetHTMLTemplate(web.Templates())

	auctionHandler := auctionhandler.NewAuctionHandler(auctionService)
	accountHandler := accounthandler.NewAccountHandler(accountService, cookie)

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	router.GET("/", auctionHandler.IndexHandler)

	router.GET("/login", accountHandler.LoginFormHandler)
	router.POST("/login", accountHandler.LoginHandler)
	router.GET("/logout", accountHandler.LogoutHandler)
	router.POST("/logout", accountHandler.LogoutHandler)
	router.GET("/register", accountHandler.RegisterFormHandler)
	router.POST("/register", accountHandler.RegisterHandler)

	router.GET("/categories", auctionHandler.CategoriesHandler)
	router.GET("/categories/:category/", auctionHandler.CategoryListingsHandler)

	listings := router.Group("/listing/:listing_id")
	{
		listings.GET("/", auctionHandler.ListingDetailHandler)
		listings.POST("/", auctionHandler.AddCommentHandler)
		listings.POST("/watchlist/", RequireAuth, auctionHandler.ToggleWatchlistHandler)
		listings.POST("/bid/", RequireAuth, auctionHandler.PlaceBidHandler)
		listings.POST("/close/", RequireAuth, auctionHandler.CloseListingHandler)
	}

	members := router.Group("/", RequireAuth)
	{
		members.GET("/create_listing", auctionHandler.CreateListingFormHandler)
		members.POST("/create_listing", auctionHandler.CreateListingHandler)
		members.GET("/watchlist/", auctionHandler.WatchlistHandler)
	}

	router.NoRoute(func(c *gin.Context) {
		utils.HTMLError(c, http.StatusNotFound, "page not found")
	})

	return router
}
