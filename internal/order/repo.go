package order

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	customErrors "github.com/Rishabh1623/shopmetrics/internal/domain/errors"
)

type Repo interface {
	CreateCart(ctx context.Context, in CreateCartRequest) (string, error)
	GetCart(ctx context.Context, cartID string) (Cart, error)
	// CreateOrder converts a cart into an order in one transaction:
	// read items, insert order and order_items, clear the cart.
	CreateOrder(ctx context.Context, in CreateOrderRequest) (Order, error)
	GetOrder(ctx context.Context, orderID string) (Order, error)
	ListUserOrders(ctx context.Context, userID string, limit, offset int) ([]OrderSummary, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

type PgxRepo struct {
	pool *pgxpool.Pool
}

func NewPgxRepo(pool *pgxpool.Pool) *PgxRepo {
	return &PgxRepo{pool: pool}
}

func (r *PgxRepo) CreateCart(ctx context.Context, in CreateCartRequest) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", customErrors.WrapInternal(err, "CreateCart")
	}
	defer tx.Rollback(ctx)

	var cartID string
	err = tx.QueryRow(ctx,
		`INSERT INTO carts (user_id, expires_at)
		 VALUES ($1, NOW() + INTERVAL '24 hours')
		 RETURNING id`,
		in.UserID,
	).Scan(&cartID)
	if err != nil {
		return "", customErrors.WrapInternal(err, "CreateCart")
	}

	for _, item := range in.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO cart_items (cart_id, product_id, quantity, price)
			 VALUES ($1, $2, $3, $4)`,
			cartID, item.ProductID, item.Quantity, item.Price,
		)
		if err != nil {
			return "", customErrors.WrapInternal(err, "CreateCart")
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return "", customErrors.WrapInternal(err, "CreateCart")
	}
	return cartID, nil
}

func (r *PgxRepo) GetCart(ctx context.Context, cartID string) (Cart, error) {
	var cart Cart
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at, expires_at FROM carts WHERE id = $1`,
		cartID,
	).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Cart{}, customErrors.ErrNotFound
	}
	if err != nil {
		return Cart{}, customErrors.WrapInternal(err, "GetCart")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT product_id, quantity, price FROM cart_items WHERE cart_id = $1`,
		cartID,
	)
	if err != nil {
		return Cart{}, customErrors.WrapInternal(err, "GetCart")
	}
	defer rows.Close()

	for rows.Next() {
		var item CartItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			return Cart{}, customErrors.WrapInternal(err, "GetCart")
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return Cart{}, customErrors.WrapInternal(err, "GetCart")
	}
	return cart, nil
}

func (r *PgxRepo) CreateOrder(ctx context.Context, in CreateOrderRequest) (Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Order{}, customErrors.WrapInternal(err, "CreateOrder")
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT product_id, quantity, price FROM cart_items WHERE cart_id = $1`,
		in.CartID,
	)
	if err != nil {
		return Order{}, customErrors.WrapInternal(err, "CreateOrder")
	}

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			rows.Close()
			return Order{}, customErrors.WrapInternal(err, "CreateOrder")
		}
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Order{}, customErrors.WrapInternal(err, "CreateOrder")
	}

	if len(items) == 0 {
		return Order{}, customErrors.ErrNotFound
	}

	total := Total(items)

	order := Order{
		UserID:   in.UserID,
		Status:   "pending",
		Total:    total,
		Currency: "USD",
		Items:    items,
	}
	// order_number is assigned by a database trigger
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, status, total, currency)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, order_number, created_at, updated_at`,
		order.UserID, order.Status, order.Total, order.Currency,
	).Scan(&order.ID, &order.OrderNumber, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return Order{}, customErrors.WrapInternal(err, "CreateOrder")
	}

	for _, item := range items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price)
			 VALUES ($1, $2, $3, $4)`,
			order.ID, item.ProductID, item.Quantity, item.Price,
		)
		if err != nil {
			return Order{}, customErrors.WrapInternal(err, "CreateOrder")
		}
	}

	if _, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, in.CartID); err != nil {
		return Order{}, customErrors.WrapInternal(err, "CreateOrder")
	}
	if _, err = tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, in.CartID); err != nil {
		return Order{}, customErrors.WrapInternal(err, "CreateOrder")
	}

	if err = tx.Commit(ctx); err != nil {
		return Order{}, customErrors.WrapInternal(err, "CreateOrder")
	}
	return order, nil
}

func (r *PgxRepo) GetOrder(ctx context.Context, orderID string) (Order, error) {
	var order Order
	err := r.pool.QueryRow(ctx,
		`SELECT id, order_number, user_id, status, total, currency, created_at, updated_at
		 FROM orders WHERE id = $1`,
		orderID,
	).Scan(&order.ID, &order.OrderNumber, &order.UserID, &order.Status,
		&order.Total, &order.Currency, &order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, customErrors.ErrNotFound
	}
	if err != nil {
		return Order{}, customErrors.WrapInternal(err, "GetOrder")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT product_id, quantity, price FROM order_items WHERE order_id = $1`,
		orderID,
	)
	if err != nil {
		return Order{}, customErrors.WrapInternal(err, "GetOrder")
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			return Order{}, customErrors.WrapInternal(err, "GetOrder")
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return Order{}, customErrors.WrapInternal(err, "GetOrder")
	}
	return order, nil
}

func (r *PgxRepo) ListUserOrders(ctx context.Context, userID string, limit, offset int) ([]OrderSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_number, status, total, currency, created_at
		 FROM orders
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "ListUserOrders")
	}
	defer rows.Close()

	var out []OrderSummary
	for rows.Next() {
		var s OrderSummary
		if err := rows.Scan(&s.ID, &s.OrderNumber, &s.Status, &s.Total, &s.Currency, &s.CreatedAt); err != nil {
			return nil, customErrors.WrapInternal(err, "ListUserOrders")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, customErrors.WrapInternal(err, "ListUserOrders")
	}
	return out, nil
}

func (r *PgxRepo) UpdateStatus(ctx context.Context, orderID, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, orderID,
	)
	if err != nil {
		return customErrors.WrapInternal(err, "UpdateStatus")
	}
	if tag.RowsAffected() == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

// Total sums quantity times price over the items.
func Total(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.Price
	}
	return total
}
