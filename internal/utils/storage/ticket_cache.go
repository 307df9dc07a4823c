package storage

import (
	"Invoice-Capture/domain"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const ticketKeyPrefix = "upload-ticket:"

type (
	// Ticket is the server-side half of a signed upload.
	Ticket struct {
		UploadID  string `json:"upload_id"`
		UserID    string `json:"user_id"`
		ObjectKey string `json:"object_key"`
		URL       string `json:"url"`
	}

	TicketCache interface {
		Put(ctx context.Context, ticket Ticket, ttl time.Duration) error
		// Take returns the ticket and removes it, so a ticket backs at most
		// one invoice.
		Take(ctx context.Context, uploadID string) (Ticket, error)
	}

	redisTicketCache struct {
		client *redis.Client
	}
)

func NewRedisTicketCache(client *redis.Client) TicketCache {
	return &redisTicketCache{client: client}
}

func (c *redisTicketCache) Put(ctx context.Context, ticket Ticket, ttl time.Duration) error {
	data, err := json.Marshal(ticket)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ticketKeyPrefix+ticket.UploadID, data, ttl).Err()
}

func (c *redisTicketCache) Take(ctx context.Context, uploadID string) (Ticket, error) {
	data, err := c.client.GetDel(ctx, ticketKeyPrefix+uploadID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Ticket{}, domain.ErrUnknownUpload
		}
		return Ticket{}, err
	}

	var ticket Ticket
	if err := json.Unmarshal(data, &ticket); err != nil {
		return Ticket{}, err
	}
	return ticket, nil
}
