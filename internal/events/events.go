package events

import (
	"auction-marketplace/utils"
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Type names a marketplace event
type Type string

const (
	ListingCreated Type = "listing.created"
	BidPlaced      Type = "bid.placed"
	ListingClosed  Type = "listing.closed"
)

// Event is an audit record of a state change on a listing.
// For ListingClosed, UserID and Amount describe the winning bid, if any.
type Event struct {
	EventID    string    `json:"event_id"`
	Type       Type      `json:"type"`
	ListingID  string    `json:"listing_id"`
	UserID     string    `json:"user_id,omitempty"`
	Amount     string    `json:"amount,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New creates an event stamped with a fresh id and the current time
func New(t Type, listingID, userID, amount string) Event {
	return Event{
		EventID:    utils.GenerateID(),
		Type:       t,
		ListingID:  listingID,
		UserID:     userID,
		Amount:     amount,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events to whoever archives them
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes events to a logrus logger
type LogPublisher struct {
	logger *log.Logger
}

// NewLogPublisher creates a publisher writing to logger, or to the standard logger when nil
func NewLogPublisher(logger *log.Logger) *LogPublisher {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the event at info level
func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.logger.WithFields(log.Fields{
		"event_id":    event.EventID,
		"type":        string(event.Type),
		"listing_id":  event.ListingID,
		"user_id":     event.UserID,
		"amount":      event.Amount,
		"occurred_at": event.OccurredAt.Format(time.RFC3339),
	}).Info("marketplace event")
	return nil
}
