package repository

import (
	"context"
	"sort"

	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/store"
)

// MediaRepository stores media notifications.
type MediaRepository struct {
	store store.Store
}

// NewMediaRepository creates a media notification repository.
func NewMediaRepository(s store.Store) *MediaRepository {
	return &MediaRepository{store: s}
}

// Create inserts a notification.
func (r *MediaRepository) Create(ctx context.Context, n *model.MediaNotification) error {
	return r.store.Insert(ctx, store.TableMediaNotifications, store.Record{
		"notification_id": n.ID,
		"customer_id":     n.CustomerID,
		"media_type":      n.MediaType,
		"media_url":       n.MediaURL,
		"status":          string(n.Status),
		"admin_response":  n.AdminResponse,
		"created_at":      formatTime(n.CreatedAt),
	})
}

// Get returns one notification by id.
func (r *MediaRepository) Get(ctx context.Context, id string) (*model.MediaNotification, error) {
	rec, err := r.store.FindOne(ctx, store.TableMediaNotifications, store.Filter{"notification_id": id})
	if err != nil {
		return nil, err
	}
	return mediaFromRecord(rec), nil
}

// List returns notifications newest first, optionally filtered by status.
func (r *MediaRepository) List(ctx context.Context, status model.MediaStatus) ([]model.MediaNotification, error) {
	var filter store.Filter
	if status != "" {
		filter = store.Filter{"status": string(status)}
	}
	recs, err := r.store.FindMany(ctx, store.TableMediaNotifications, filter, store.DefaultLimit)
	if err != nil {
		return nil, err
	}
	out := make([]model.MediaNotification, 0, len(recs))
	for _, rec := range recs {
		out = append(out, *mediaFromRecord(rec))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// CountPending returns the number of unreviewed notifications of a customer.
func (r *MediaRepository) CountPending(ctx context.Context, customerID string) (int64, error) {
	return r.store.Count(ctx, store.TableMediaNotifications, store.Filter{
		"customer_id": customerID,
		"status":      string(model.MediaStatusPending),
	})
}

// MarkReviewed records the admin response and sets status to reviewed.
func (r *MediaRepository) MarkReviewed(ctx context.Context, id, response string) error {
	n, err := r.store.Update(ctx, store.TableMediaNotifications,
		store.Filter{"notification_id": id},
		store.Record{"status": string(model.MediaStatusReviewed), "admin_response": response},
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mediaFromRecord(rec store.Record) *model.MediaNotification {
	return &model.MediaNotification{
		ID:            asString(rec["notification_id"]),
		CustomerID:    asString(rec["customer_id"]),
		MediaType:     asString(rec["media_type"]),
		MediaURL:      asString(rec["media_url"]),
		Status:        model.MediaStatus(asString(rec["status"])),
		AdminResponse: asString(rec["admin_response"]),
		CreatedAt:     asTime(rec["created_at"]),
	}
}
