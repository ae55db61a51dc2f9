package perftests

import (
	"context"
	"fmt"
	"io"
	"time"

	auction "auction-marketplace/internal/auctionService"
	"auction-marketplace/internal/events"
	"auction-marketplace/internal/locker"
	model "auction-marketplace/internal/models"
	repository "auction-marketplace/internal/repository"

	log "github.com/sirupsen/logrus"
)

// market is an in-memory marketplace with one seller and a pool of bidders
type market struct {
	repo     *repository.MemoryRepo
	svc      *auction.AuctionService
	seller   model.Identity
	bidders  []model.Identity
	listings []string
}

func quietPublisher() events.Publisher {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return events.NewLogPublisher(logger)
}

// newMarket creates numListings listings starting at startingBid and numBidders bidders
func newMarket(numListings, numBidders int, startingBid int64) *market {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	m := &market{
		repo: repo,
		svc:  auction.NewAuctionService(repo, locker.NewLocalLocker(), quietPublisher()),
	}

	m.seller = m.addUser("seller")
	for i := 0; i < numBidders; i++ {
		m.bidders = append(m.bidders, m.addUser(fmt.Sprintf("bidder_%d", i)))
	}

	for i := 0; i < numListings; i++ {
		listing, err := m.svc.CreateListing(ctx, m.seller, model.NewListing{
			Title:       fmt.Sprintf("title_%d", i),
			Description: "Load test listing",
			Category:    fmt.Sprintf("category_%d", i%5),
			StartingBid: fmt.Sprintf("%d", startingBid),
		})
		if err != nil {
			panic(err)
		}
		m.listings = append(m.listings, listing.ListingID)
	}
	return m
}

func (m *market) addUser(name string) model.Identity {
	user := model.User{UserID: fmt.Sprintf("%s-id", name), Username: name, CreatedAt: time.Now().UTC()}
	if err := m.repo.CreateUser(context.Background(), user); err != nil {
		panic(err)
	}
	return model.IdentityOf(user)
}
