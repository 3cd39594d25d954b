package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	platformerrors "github.com/ghelioth/les-bons-artisants-test/internal/platform/errors"
)

// Repository persists products through gorm. It is the single source of
// truth; client-side stores only mirror what it returns.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every product ordered by ascending identifier.
func (r *Repository) List(ctx context.Context) ([]Product, error) {
	var products []Product
	err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "list", "query products", err)
	}
	return products, nil
}

// Get fetches one product, returning nil when the identifier is unknown.
func (r *Repository) Get(ctx context.Context, id int64) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "get", "query product", err)
	}
	return &product, nil
}

// Create inserts the product and fills in its assigned identifier.
func (r *Repository) Create(ctx context.Context, product *Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "create", "insert product", err)
	}
	return nil
}

// Update applies the column updates and returns the resulting row, or nil
// when the identifier is unknown.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) (*Product, error) {
	tx := r.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "update", "update product", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, nil
	}
	return r.Get(ctx, id)
}

// Delete removes the product, reporting whether a row existed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&Product{}, "id = ?", id)
	if tx.Error != nil {
		return false, platformerrors.Wrap(platformerrors.KindStorage, "delete", "delete product", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}
