package client

import "context"

type Repository interface {
	GetByID(ctx context.Context, ownerID, clientID string) (*Client, error)
	GetByEmail(ctx context.Context, ownerID, email string) (*Client, error)
	List(ctx context.Context, ownerID string) ([]Client, error)
	// Create must be a no-op when a row with the same (ownerID, email)
	// already exists; it reports whether a row was inserted.
	Create(ctx context.Context, client *Client) (bool, error)
	UpdateStatus(ctx context.Context, ownerID, clientID, status string) error
	UpdateAggregates(ctx context.Context, clientID string, aggregates Aggregates) error
	// AggregatesFromAppointments recomputes the derived fields from the
	// appointment history for (ownerID, email).
	AggregatesFromAppointments(ctx context.Context, ownerID, email string) (Aggregates, error)
}
