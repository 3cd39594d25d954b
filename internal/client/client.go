package client

import (
	"context"

	"github.com/ghelioth/les-bons-artisants-test/internal/domain/auth"
	"github.com/ghelioth/les-bons-artisants-test/internal/domain/catalog"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/errors"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/logging"
)

// Client bundles the REST surface, the push channel and the local entity
// store into one connected catalog view. Mutations go through REST; the
// store is updated exclusively by push events and snapshot refreshes, so
// every connected client converges on the same view.
type Client struct {
	rest   *RestClient
	store  *Store
	wsURL  string
	logger *logging.Logger

	sub *Subscription
}

// Config holds the two endpoints a client needs.
type Config struct {
	BaseURL string
	PushURL string
}

func New(cfg Config, logger *logging.Logger) *Client {
	return &Client{
		rest:   NewRestClient(cfg.BaseURL),
		store:  NewStore(),
		wsURL:  cfg.PushURL,
		logger: logger,
	}
}

func (c *Client) Store() *Store { return c.store }

func (c *Client) Rest() *RestClient { return c.rest }

// Register creates an account and keeps the issued credential.
func (c *Client) Register(ctx context.Context, name, email, password string) (auth.Identity, error) {
	return c.rest.Register(ctx, name, email, password)
}

// Login authenticates and keeps the issued credential.
func (c *Client) Login(ctx context.Context, email, password string) (auth.Identity, error) {
	return c.rest.Login(ctx, email, password)
}

// Logout revokes the credential and drops the push channel, since the
// server will refuse the next handshake anyway.
func (c *Client) Logout(ctx context.Context) error {
	c.Disconnect()
	return c.rest.Logout(ctx)
}

// Connect opens the push channel and then loads a full snapshot.
// Subscribing first keeps events arriving during the snapshot request
// from being dropped at the transport level. Delivery stays best effort:
// an event applied just before ReplaceAll can be overwritten by a
// slightly older snapshot, and the next event or Refresh reconverges.
// Call Connect again after a disconnect; the snapshot reload reconciles
// whatever was missed.
func (c *Client) Connect(ctx context.Context) error {
	const op = "client.Connect"

	if c.sub != nil {
		c.Disconnect()
	}

	sub, err := Subscribe(ctx, c.wsURL, c.rest.Token(), c.store.Apply)
	if err != nil {
		return err
	}
	c.sub = sub

	if err := c.Refresh(ctx); err != nil {
		c.Disconnect()
		return errors.Wrap(errors.KindTransport, op, "initial snapshot", err)
	}
	return nil
}

// Refresh replaces the local view with a fresh server snapshot.
func (c *Client) Refresh(ctx context.Context) error {
	products, err := c.rest.FetchProducts(ctx)
	if err != nil {
		return err
	}
	c.store.ReplaceAll(products)
	return nil
}

// Disconnect closes the push channel if one is open.
func (c *Client) Disconnect() {
	if c.sub != nil {
		if err := c.sub.Close(); err != nil && c.logger != nil {
			c.logger.Warn("push channel close: %v", err)
		}
		c.sub = nil
	}
}

// Done exposes the push channel lifetime so callers can react to a drop.
// It returns a closed channel when no subscription is active.
func (c *Client) Done() <-chan struct{} {
	if c.sub == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return c.sub.Done()
}

// Create submits a new product. The local store is not touched here; the
// created entity arrives through the push channel like everyone else's.
func (c *Client) Create(ctx context.Context, record catalog.Record) (catalog.Product, error) {
	return c.rest.CreateProduct(ctx, record)
}

// Update applies a partial change to one product.
func (c *Client) Update(ctx context.Context, id int64, patch catalog.Record) (catalog.Product, error) {
	return c.rest.UpdateProduct(ctx, id, patch)
}

// Delete removes one product.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.rest.DeleteProduct(ctx, id)
}
