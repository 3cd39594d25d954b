package catalog

import (
	"context"

	"github.com/ghelioth/les-bons-artisants-test/internal/domain/eventbus"
	platformerrors "github.com/ghelioth/les-bons-artisants-test/internal/platform/errors"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/logging"
)

// Service is the mutation gateway. Every successful create, update and
// delete persists through the repository and then publishes exactly one
// event on the bus for the push channel to fan out.
type Service struct {
	repo   *Repository
	bus    *eventbus.Bus
	logger *logging.Logger
}

func NewService(repo *Repository, bus *eventbus.Bus, logger *logging.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// List returns the full collection in canonical order.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Get returns one product or a not-found error.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, platformerrors.New(platformerrors.KindNotFound, "get", "product not found")
	}
	return product, nil
}

// Create validates and persists a new product. Identifiers are assigned by
// the store; any client-supplied "_id" is ignored.
func (s *Service) Create(ctx context.Context, record Record) (*Product, error) {
	if err := ValidateRecord("create", record); err != nil {
		return nil, err
	}

	product := Normalize(record)
	product.ID = 0
	if err := s.repo.Create(ctx, &product); err != nil {
		return nil, err
	}

	s.logger.InfoTag("Catalog", "created product %d (%s)", product.ID, product.Name)
	s.bus.Publish(Topic, CreatedEvent(product))
	return &product, nil
}

// Update applies a partial record restricted to the mutable field
// allow-list and returns the full post-update product.
func (s *Service) Update(ctx context.Context, id int64, record Record) (*Product, error) {
	updates := make(map[string]any)
	filtered := make(Record)
	for _, field := range MutableFields {
		if v, present := record[field]; present && v != nil {
			filtered[field] = v
		}
	}
	if len(filtered) == 0 {
		return nil, platformerrors.New(platformerrors.KindValidation, "update", "no updatable fields provided")
	}
	if err := ValidateRecord("update", filtered); err != nil {
		return nil, err
	}

	for field, v := range filtered {
		switch field {
		case "name", "category":
			updates[field] = coerceString(v)
		case "price", "rating":
			updates[field] = coerceNumber(v)
		case "warranty_years":
			if years, ok := coerceInt(v); ok {
				updates[field] = years
			}
		case "available":
			updates[field] = coerceBool(v)
		}
	}

	product, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, platformerrors.New(platformerrors.KindNotFound, "update", "product not found")
	}

	s.logger.InfoTag("Catalog", "updated product %d", product.ID)
	s.bus.Publish(Topic, UpdatedEvent(*product))
	return product, nil
}

// Delete removes the product. Deleting an unknown identifier reports
// not-found; callers treating it as success keep the operation idempotent.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return platformerrors.New(platformerrors.KindNotFound, "delete", "product not found")
	}

	s.logger.InfoTag("Catalog", "deleted product %d", id)
	s.bus.Publish(Topic, DeletedEvent(id))
	return nil
}
