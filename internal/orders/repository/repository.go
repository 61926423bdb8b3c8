package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

type Order struct {
	ID           uuid.UUID
	LeadID       uuid.UUID
	Name         string
	Amount       decimal.Decimal
	Quantity     int
	Status       string
	DeliveryDate *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateOrderParams struct {
	LeadID       uuid.UUID
	Name         string
	Amount       decimal.Decimal
	Quantity     int
	Status       string
	DeliveryDate *time.Time
	// CreatedAt backdates the order. Zero means now.
	CreatedAt time.Time
}

type UpdateOrderParams struct {
	Name         *string
	Amount       *decimal.Decimal
	Quantity     *int
	Status       *string
	DeliveryDate *time.Time
}

// RangeFilter selects one lead's orders created within [From, To], both ends inclusive.
type RangeFilter struct {
	LeadID uuid.UUID
	From   time.Time
	To     time.Time
}

// Reader provides read-only access to orders.
type Reader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]Order, error)
	// FindInRange returns matching orders sorted by created_at ascending.
	FindInRange(ctx context.Context, filter RangeFilter) ([]Order, error)
}

// Writer provides order mutations.
type Writer interface {
	Create(ctx context.Context, params CreateOrderParams) (Order, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateOrderParams) (Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrdersRepository combines Reader and Writer.
type OrdersRepository interface {
	Reader
	Writer
}

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db DBTX
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// amount is read as text so NUMERIC precision survives the round trip.
const orderColumns = `id, lead_id, name, amount::text, quantity, status, delivery_date, created_at, updated_at`

const getOrderQuery = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

const listOrdersQuery = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

const listOrdersByLeadQuery = `SELECT ` + orderColumns + `
	FROM orders WHERE lead_id = $1 ORDER BY created_at DESC`

const findOrdersInRangeQuery = `SELECT ` + orderColumns + `
	FROM orders
	WHERE lead_id = $1 AND created_at >= $2 AND created_at <= $3
	ORDER BY created_at ASC, id ASC`

const insertOrderQuery = `
	INSERT INTO orders (id, lead_id, name, amount, quantity, status, delivery_date, created_at, updated_at)
	VALUES ($1, $2, $3, CAST($4::text AS NUMERIC), $5, $6, $7, $8, $8)
	RETURNING ` + orderColumns

const deleteOrderQuery = `DELETE FROM orders WHERE id = $1`

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, getOrderQuery, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return order, err
}

func (r *Repository) List(ctx context.Context) ([]Order, error) {
	return r.queryOrders(ctx, listOrdersQuery)
}

func (r *Repository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]Order, error) {
	return r.queryOrders(ctx, listOrdersByLeadQuery, leadID)
}

func (r *Repository) FindInRange(ctx context.Context, filter RangeFilter) ([]Order, error) {
	return r.queryOrders(ctx, findOrdersInRangeQuery, filter.LeadID, filter.From, filter.To)
}

func (r *Repository) Create(ctx context.Context, params CreateOrderParams) (Order, error) {
	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return scanOrder(r.db.QueryRow(ctx, insertOrderQuery,
		uuid.New(), params.LeadID, params.Name, params.Amount.String(), params.Quantity,
		params.Status, params.DeliveryDate, createdAt,
	))
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateOrderParams) (Order, error) {
	setClauses := []string{}
	args := []any{id}
	argIdx := 2

	if params.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *params.Name)
		argIdx++
	}
	if params.Amount != nil {
		setClauses = append(setClauses, fmt.Sprintf("amount = CAST($%d::text AS NUMERIC)", argIdx))
		args = append(args, params.Amount.String())
		argIdx++
	}
	if params.Quantity != nil {
		setClauses = append(setClauses, fmt.Sprintf("quantity = $%d", argIdx))
		args = append(args, *params.Quantity)
		argIdx++
	}
	if params.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.DeliveryDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("delivery_date = $%d", argIdx))
		args = append(args, *params.DeliveryDate)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	query := fmt.Sprintf(`UPDATE orders SET %s WHERE id = $1 RETURNING %s`, strings.Join(setClauses, ", "), orderColumns)

	order, err := scanOrder(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return order, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, deleteOrderQuery, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) queryOrders(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, order)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o      Order
		amount string
	)
	if err := row.Scan(&o.ID, &o.LeadID, &o.Name, &amount, &o.Quantity, &o.Status, &o.DeliveryDate, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return Order{}, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return Order{}, fmt.Errorf("parse order amount %q: %w", amount, err)
	}
	o.Amount = parsed
	return o, nil
}

var _ OrdersRepository = (*Repository)(nil)
