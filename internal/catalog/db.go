package catalog

import (
	"context"
	"sort"
	"strings"

	product "github.com/angelmondragon/shopcart/internal/products"
	"github.com/angelmondragon/shopcart/pkg/db"
	"github.com/angelmondragon/shopcart/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopcart/pkg/errors"
	"github.com/angelmondragon/shopcart/pkg/logger"
	"github.com/angelmondragon/shopcart/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBCatalog reads active rows from the catalog_products table.
type DBCatalog struct {
	db   *gorm.DB
	logg *logger.Logger
}

func NewDBCatalog(conn *gorm.DB, logg *logger.Logger) (*DBCatalog, error) {
	if conn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidDependency, "db connection required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &DBCatalog{db: conn, logg: logg}, nil
}

func (c *DBCatalog) Lookup(ctx context.Context, name string) (product.Product, bool) {
	if strings.TrimSpace(name) == "" {
		return product.Product{}, false
	}
	p, err := c.Find(ctx, name)
	if err != nil {
		if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			c.logg.Warn(c.logg.WithField(c.logg.WithProduct(ctx, name), "error", err.Error()), "catalog lookup failed")
		}
		return product.Product{}, false
	}
	return p, true
}

// Find loads one active product by name.
func (c *DBCatalog) Find(ctx context.Context, name string) (product.Product, error) {
	var row models.CatalogProduct
	err := c.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		First(&row).Error
	if err != nil {
		if db.IsNotFound(err) {
			return product.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product": name})
		}
		return product.Product{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query catalog product")
	}
	return product.NewProduct(row.Title, row.Price.Get())
}

// Upsert inserts row, or refreshes title and price when name already exists.
// It issues a single statement so it is safe inside a transaction.
func (c *DBCatalog) Upsert(ctx context.Context, row *models.CatalogProduct) error {
	if row == nil || strings.TrimSpace(row.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "catalog row requires a name")
	}
	if _, err := product.NewProduct(row.Title, row.Price.Get()); err != nil {
		return err
	}

	err := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "price", "updated_at"}),
		}).
		Create(row).Error
	if err == nil {
		return nil
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "catalog row conflicts with an existing product").
			WithDetails(map[string]any{"product": row.Name, "id": row.ID.String()})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert catalog product")
}

// Seed upserts products keyed by lookup name in one transaction. Either
// every row is written or none is.
func Seed(ctx context.Context, client *db.Client, products map[string]product.Product, logg *logger.Logger) error {
	if client == nil {
		return pkgerrors.New(pkgerrors.CodeInvalidDependency, "db client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}

	names := make([]string, 0, len(products))
	for name := range products {
		names = append(names, name)
	}
	sort.Strings(names)

	return client.WithTx(ctx, func(tx *gorm.DB) error {
		store := &DBCatalog{db: tx, logg: logg}
		for _, name := range names {
			p := products[name]
			price, err := types.NewMoney(p.UnitPrice())
			if err != nil {
				return err
			}
			if err := store.Upsert(ctx, &models.CatalogProduct{Name: name, Title: p.Title(), Price: price}); err != nil {
				return err
			}
			logg.Debug(logg.WithProduct(ctx, name), "catalog product staged")
		}
		return nil
	})
}
