package store

import (
	"context"
	"fmt"
)

// Table names.
const (
	TableProducts           = "products"
	TableConversations      = "conversations"
	TableOrders             = "orders"
	TablePaymentQR          = "payment_qr"
	TableMediaNotifications = "media_notifications"
)

// Lists and maps are JSON text, booleans are 0/1, timestamps RFC 3339 UTC text.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		product_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		regular_price DOUBLE PRECISION,
		description TEXT,
		colors TEXT,
		sizes TEXT,
		stock INTEGER DEFAULT 0,
		images TEXT,
		active INTEGER DEFAULT 1,
		created_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		conversation_id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL UNIQUE,
		messages TEXT,
		stage TEXT DEFAULT 'greeting',
		context TEXT,
		last_updated TEXT,
		has_media_pending INTEGER DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id TEXT PRIMARY KEY,
		customer_id TEXT,
		customer_name TEXT,
		phone_primary TEXT,
		phone_alternative TEXT,
		district TEXT,
		municipality TEXT,
		ward_number TEXT,
		tole_area TEXT,
		items TEXT,
		subtotal DOUBLE PRECISION,
		delivery_charge DOUBLE PRECISION,
		total_amount DOUBLE PRECISION,
		payment_method TEXT,
		payment_screenshot TEXT,
		status TEXT DEFAULT 'pending',
		has_media_pending INTEGER DEFAULT 0,
		created_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS payment_qr (
		qr_id TEXT PRIMARY KEY,
		payment_method TEXT,
		qr_image_url TEXT,
		account_name TEXT,
		active INTEGER DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS media_notifications (
		notification_id TEXT PRIMARY KEY,
		customer_id TEXT,
		media_type TEXT,
		media_url TEXT,
		status TEXT DEFAULT 'pending',
		admin_response TEXT,
		created_at TEXT
	)`,
	"CREATE INDEX IF NOT EXISTS idx_products_active ON products(active)",
	"CREATE INDEX IF NOT EXISTS idx_media_customer ON media_notifications(customer_id, status)",
}

// Migrate creates all tables and indexes if they do not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
