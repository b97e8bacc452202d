package repository

import (
	"context"
	"sort"

	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/store"
)

// OrderRepository stores orders.
type OrderRepository struct {
	store store.Store
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(s store.Store) *OrderRepository {
	return &OrderRepository{store: s}
}

// List returns orders newest first.
func (r *OrderRepository) List(ctx context.Context) ([]model.Order, error) {
	recs, err := r.store.FindMany(ctx, store.TableOrders, nil, store.DefaultLimit)
	if err != nil {
		return nil, err
	}
	out := make([]model.Order, 0, len(recs))
	for _, rec := range recs {
		o, err := orderFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Get returns one order by id.
func (r *OrderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	rec, err := r.store.FindOne(ctx, store.TableOrders, store.Filter{"order_id": id})
	if err != nil {
		return nil, err
	}
	return orderFromRecord(rec)
}

// Create inserts an order.
func (r *OrderRepository) Create(ctx context.Context, o *model.Order) error {
	rec, err := orderToRecord(o)
	if err != nil {
		return err
	}
	return r.store.Insert(ctx, store.TableOrders, rec)
}

// UpdateStatus sets the status of one order. Unknown ids return ErrNotFound.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	n, err := r.store.Update(ctx, store.TableOrders, store.Filter{"order_id": id}, store.Record{"status": string(status)})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func orderToRecord(o *model.Order) (store.Record, error) {
	items := o.Items
	if items == nil {
		items = []model.OrderItem{}
	}
	itemsJSON, err := encodeJSON(items)
	if err != nil {
		return nil, err
	}
	return store.Record{
		"order_id":           o.ID,
		"customer_id":        o.CustomerID,
		"customer_name":      o.CustomerName,
		"phone_primary":      o.PhonePrimary,
		"phone_alternative":  o.PhoneAlternative,
		"district":           o.District,
		"municipality":       o.Municipality,
		"ward_number":        o.WardNumber,
		"tole_area":          o.ToleArea,
		"items":              itemsJSON,
		"subtotal":           o.Subtotal,
		"delivery_charge":    o.DeliveryCharge,
		"total_amount":       o.TotalAmount,
		"payment_method":     o.PaymentMethod,
		"payment_screenshot": o.PaymentScreenshot,
		"status":             string(o.Status),
		"has_media_pending":  o.MediaPending,
		"created_at":         formatTime(o.CreatedAt),
	}, nil
}

func orderFromRecord(rec store.Record) (*model.Order, error) {
	o := &model.Order{
		ID:                asString(rec["order_id"]),
		CustomerID:        asString(rec["customer_id"]),
		CustomerName:      asString(rec["customer_name"]),
		PhonePrimary:      asString(rec["phone_primary"]),
		PhoneAlternative:  asString(rec["phone_alternative"]),
		District:          asString(rec["district"]),
		Municipality:      asString(rec["municipality"]),
		WardNumber:        asString(rec["ward_number"]),
		ToleArea:          asString(rec["tole_area"]),
		Subtotal:          asFloat(rec["subtotal"]),
		DeliveryCharge:    asFloat(rec["delivery_charge"]),
		TotalAmount:       asFloat(rec["total_amount"]),
		PaymentMethod:     asString(rec["payment_method"]),
		PaymentScreenshot: asString(rec["payment_screenshot"]),
		Status:            model.OrderStatus(asString(rec["status"])),
		MediaPending:      asBool(rec["has_media_pending"]),
		CreatedAt:         asTime(rec["created_at"]),
		Items:             []model.OrderItem{},
	}
	if err := decodeJSON(rec, "items", &o.Items); err != nil {
		return nil, err
	}
	return o, nil
}
