package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fleetcart/catalog-service/internal/cart"
	"github.com/fleetcart/catalog-service/internal/database"
	"github.com/fleetcart/catalog-service/internal/pkg/cuid2"
)

var (
	// ErrEmptyOrder is returned when submitting an order with no line items
	ErrEmptyOrder = errors.New("order has no line items")
	// ErrInvalidTransition is returned when a status change is not allowed
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrNotFound is returned when the requested order does not exist
	ErrNotFound = errors.New("order not found")
)

// allowedTransitions maps each order status to the statuses it may move to
var allowedTransitions = map[string][]string{
	database.OrderStatusDraft:     {database.OrderStatusSubmitted, database.OrderStatusCancelled},
	database.OrderStatusSubmitted: {database.OrderStatusApproved, database.OrderStatusCancelled},
	database.OrderStatusApproved:  {database.OrderStatusFulfilled, database.OrderStatusCancelled},
	database.OrderStatusFulfilled: {},
	database.OrderStatusCancelled: {},
}

// SubmitRequest carries the buyer details for a new purchase order
type SubmitRequest struct {
	CompanyName           string     `json:"companyName" binding:"required"`
	ContactEmail          string     `json:"contactEmail" binding:"required,email"`
	ContactPhone          *string    `json:"contactPhone,omitempty"`
	RequestedDeliveryDate *time.Time `json:"requestedDeliveryDate,omitempty"`
	SpecialInstructions   *string    `json:"specialInstructions,omitempty"`
	PaymentTerms          *string    `json:"paymentTerms,omitempty"`
}

// Order is a purchase order with its line items
type Order struct {
	database.PurchaseOrder
	Items []database.PurchaseOrderItem `json:"items"`
}

// Orders provides purchase order persistence on top of a pgx pool
type Orders struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// New creates an Orders service backed by the given pool
func New(pool *pgxpool.Pool) *Orders {
	return &Orders{
		pool:   pool,
		logger: log.With().Str("component", "orders").Logger(),
	}
}

// Submit persists the cart contents as a submitted purchase order.
// Each line item carries its pricing snapshot so later incentive
// changes do not affect the order.
func (o *Orders) Submit(ctx context.Context, req SubmitRequest, c cart.Cart) (*Order, error) {
	if c.Len() == 0 {
		return nil, ErrEmptyOrder
	}

	tx, err := o.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	orderID := cuid2.GeneratePrefixedId("po", cuid2.PrefixedIdOptions{TimeSortable: true})

	var order Order
	err = tx.QueryRow(ctx, `
		INSERT INTO purchase_orders (
			id, company_name, contact_email, contact_phone, status,
			total_value, total_savings, total_effective_value,
			requested_delivery_date, special_instructions, payment_terms,
			submitted_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12, $12)
		RETURNING id, company_name, contact_email, contact_phone, status,
			total_value, total_savings, total_effective_value,
			requested_delivery_date, special_instructions, payment_terms,
			submitted_at, created_at, updated_at
	`, orderID, req.CompanyName, req.ContactEmail, req.ContactPhone,
		database.OrderStatusSubmitted,
		c.TotalValue, c.TotalSavings, c.TotalEffectiveValue,
		req.RequestedDeliveryDate, req.SpecialInstructions, req.PaymentTerms,
		now).Scan(
		&order.ID, &order.CompanyName, &order.ContactEmail, &order.ContactPhone,
		&order.Status, &order.TotalValue, &order.TotalSavings,
		&order.TotalEffectiveValue, &order.RequestedDeliveryDate,
		&order.SpecialInstructions, &order.PaymentTerms,
		&order.SubmittedAt, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for _, item := range c.Items {
		batch.Queue(`
			INSERT INTO purchase_order_items (
				order_id, vehicle_id, quantity, price_level,
				unit_price, total_price, savings, msrp, dealer_net
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, order.ID, item.VehicleID, item.Quantity, int(item.PriceLevel),
			item.UnitPrice, item.TotalPrice, item.Savings,
			item.Pricing.MSRP, item.Pricing.DealerNet)
	}

	br := tx.SendBatch(ctx, batch)
	for range c.Items {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, item := range c.Items {
		order.Items = append(order.Items, database.PurchaseOrderItem{
			OrderID:    order.ID,
			VehicleID:  item.VehicleID,
			Quantity:   item.Quantity,
			PriceLevel: int(item.PriceLevel),
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
			Savings:    item.Savings,
			MSRP:       item.Pricing.MSRP,
			DealerNet:  item.Pricing.DealerNet,
		})
	}

	o.logger.Info().
		Str("order_id", order.ID).
		Str("company", req.CompanyName).
		Int("line_items", len(order.Items)).
		Int64("total_effective_value", order.TotalEffectiveValue).
		Msg("Purchase order submitted")

	return &order, nil
}

// Get loads an order with its line items
func (o *Orders) Get(ctx context.Context, id string) (*Order, error) {
	var order Order
	err := o.pool.QueryRow(ctx, `
		SELECT id, company_name, contact_email, contact_phone, status,
			total_value, total_savings, total_effective_value,
			requested_delivery_date, special_instructions, payment_terms,
			submitted_at, created_at, updated_at
		FROM purchase_orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.CompanyName, &order.ContactEmail, &order.ContactPhone,
		&order.Status, &order.TotalValue, &order.TotalSavings,
		&order.TotalEffectiveValue, &order.RequestedDeliveryDate,
		&order.SpecialInstructions, &order.PaymentTerms,
		&order.SubmittedAt, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	rows, err := o.pool.Query(ctx, `
		SELECT id, order_id, vehicle_id, quantity, price_level,
			unit_price, total_price, savings, msrp, dealer_net
		FROM purchase_order_items
		WHERE order_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item database.PurchaseOrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.VehicleID,
			&item.Quantity, &item.PriceLevel,
			&item.UnitPrice, &item.TotalPrice, &item.Savings,
			&item.MSRP, &item.DealerNet); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return &order, nil
}

// List returns recent orders, newest first, without line items
func (o *Orders) List(ctx context.Context, limit int) ([]database.PurchaseOrder, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := o.pool.Query(ctx, `
		SELECT id, company_name, contact_email, contact_phone, status,
			total_value, total_savings, total_effective_value,
			requested_delivery_date, special_instructions, payment_terms,
			submitted_at, created_at, updated_at
		FROM purchase_orders
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	list := make([]database.PurchaseOrder, 0)
	for rows.Next() {
		var po database.PurchaseOrder
		if err := rows.Scan(
			&po.ID, &po.CompanyName, &po.ContactEmail, &po.ContactPhone,
			&po.Status, &po.TotalValue, &po.TotalSavings,
			&po.TotalEffectiveValue, &po.RequestedDeliveryDate,
			&po.SpecialInstructions, &po.PaymentTerms,
			&po.SubmittedAt, &po.CreatedAt, &po.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		list = append(list, po)
	}
	return list, rows.Err()
}

// UpdateStatus moves an order to a new status, enforcing the transition rules
func (o *Orders) UpdateStatus(ctx context.Context, id, status string) (*Order, error) {
	if _, ok := allowedTransitions[status]; !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, status)
	}

	tx, err := o.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx, `
		SELECT status FROM purchase_orders WHERE id = $1 FOR UPDATE
	`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	if !transitionAllowed(current, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, status)
	}

	_, err = tx.Exec(ctx, `
		UPDATE purchase_orders SET status = $1, updated_at = $2 WHERE id = $3
	`, status, time.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	o.logger.Info().
		Str("order_id", id).
		Str("from", current).
		Str("to", status).
		Msg("Order status updated")

	return o.Get(ctx, id)
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
