package repository

import (
	"context"
	"sort"

	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/store"
)

// ProductRepository is the product catalog.
type ProductRepository struct {
	store store.Store
}

// NewProductRepository creates a product repository.
func NewProductRepository(s store.Store) *ProductRepository {
	return &ProductRepository{store: s}
}

// List returns every product, oldest first.
func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	return r.find(ctx, nil, store.DefaultLimit)
}

// ListActive returns up to limit active products, oldest first.
func (r *ProductRepository) ListActive(ctx context.Context, limit int) ([]model.Product, error) {
	return r.find(ctx, store.Filter{"active": true}, limit)
}

// Get returns one product by id.
func (r *ProductRepository) Get(ctx context.Context, id string) (*model.Product, error) {
	rec, err := r.store.FindOne(ctx, store.TableProducts, store.Filter{"product_id": id})
	if err != nil {
		return nil, err
	}
	return productFromRecord(rec)
}

// Create inserts a product.
func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	rec, err := productToRecord(p)
	if err != nil {
		return err
	}
	return r.store.Insert(ctx, store.TableProducts, rec)
}

// Replace overwrites every column of the product with p.ID.
func (r *ProductRepository) Replace(ctx context.Context, p *model.Product) error {
	rec, err := productToRecord(p)
	if err != nil {
		return err
	}
	n, err := r.store.Update(ctx, store.TableProducts, store.Filter{"product_id": p.ID}, rec)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product by id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	n, err := r.store.Delete(ctx, store.TableProducts, store.Filter{"product_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) find(ctx context.Context, filter store.Filter, limit int) ([]model.Product, error) {
	recs, err := r.store.FindMany(ctx, store.TableProducts, filter, limit)
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(recs))
	for _, rec := range recs {
		p, err := productFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func productToRecord(p *model.Product) (store.Record, error) {
	colors, err := encodeJSON(nonNil(p.Colors))
	if err != nil {
		return nil, err
	}
	sizes, err := encodeJSON(nonNil(p.Sizes))
	if err != nil {
		return nil, err
	}
	images, err := encodeJSON(nonNil(p.Images))
	if err != nil {
		return nil, err
	}
	var regular any
	if p.RegularPrice != nil {
		regular = *p.RegularPrice
	}
	return store.Record{
		"product_id":    p.ID,
		"name":          p.Name,
		"price":         p.Price,
		"regular_price": regular,
		"description":   p.Description,
		"colors":        colors,
		"sizes":         sizes,
		"stock":         p.Stock,
		"images":        images,
		"active":        p.Active,
		"created_at":    formatTime(p.CreatedAt),
	}, nil
}

func productFromRecord(rec store.Record) (*model.Product, error) {
	p := &model.Product{
		ID:           asString(rec["product_id"]),
		Name:         asString(rec["name"]),
		Price:        asFloat(rec["price"]),
		RegularPrice: asFloatPtr(rec["regular_price"]),
		Description:  asString(rec["description"]),
		Stock:        asInt(rec["stock"]),
		Active:       asBool(rec["active"]),
		CreatedAt:    asTime(rec["created_at"]),
		Colors:       []string{},
		Sizes:        []string{},
		Images:       []string{},
	}
	for col, dst := range map[string]*[]string{"colors": &p.Colors, "sizes": &p.Sizes, "images": &p.Images} {
		if err := decodeJSON(rec, col, dst); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
