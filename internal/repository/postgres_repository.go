package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
	_ "github.com/lib/pq"

	"github.com/CSCI-GA-2820-FA23-003/shopcarts/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "shopcarts_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

// CreateShopcart inserts the cart and any initial items in one
// transaction. The store assigns the cart id. A second cart for the
// same customer fails with ErrDuplicateCustomer.
func (r *Repository) CreateShopcart(ctx context.Context, cart *domain.Shopcart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create shopcart: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO shopcarts (customer_id) VALUES ($1) RETURNING id`,
		cart.CustomerID,
	).Scan(&cart.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCustomer
		}
		return fmt.Errorf("insert shopcart: %w", err)
	}

	for i := range cart.Items {
		cart.Items[i].ShopcartID = cart.ID
		if err := upsertItem(ctx, tx, &cart.Items[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create shopcart: %w", err)
	}
	return nil
}

func (r *Repository) GetShopcart(ctx context.Context, id int64) (*domain.Shopcart, error) {
	var cart domain.Shopcart
	err := r.db.QueryRowContext(ctx,
		`SELECT id, customer_id FROM shopcarts WHERE id = $1`, id,
	).Scan(&cart.ID, &cart.CustomerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShopcartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query shopcart by id: %w", err)
	}

	items, err := r.loadItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return &cart, nil
}

func (r *Repository) ListShopcarts(ctx context.Context) ([]*domain.Shopcart, error) {
	return r.queryShopcarts(ctx,
		`SELECT id, customer_id FROM shopcarts ORDER BY id`)
}

func (r *Repository) FindByCustomerID(ctx context.Context, customerID int64) (*domain.Shopcart, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM shopcarts WHERE customer_id = $1`, customerID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShopcartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query shopcart by customer id: %w", err)
	}
	return r.GetShopcart(ctx, id)
}

func (r *Repository) FindByProductID(ctx context.Context, productID int64) ([]*domain.Shopcart, error) {
	return r.queryShopcarts(ctx,
		`SELECT DISTINCT s.id, s.customer_id
		 FROM shopcarts s
		 JOIN cart_items i ON i.shopcart_id = s.id
		 WHERE i.product_id = $1
		 ORDER BY s.id`, productID)
}

// ReplaceShopcart is a full replace: the customer id is updated and the
// item list is cleared and re-populated, all in one transaction so a
// failing step never leaves the cart half-emptied.
func (r *Repository) ReplaceShopcart(ctx context.Context, cart *domain.Shopcart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace shopcart: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE shopcarts SET customer_id = $1 WHERE id = $2`,
		cart.CustomerID, cart.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCustomer
		}
		return fmt.Errorf("update shopcart: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace shopcart rows affected: %w", err)
	}
	if affected == 0 {
		return ErrShopcartNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE shopcart_id = $1`, cart.ID); err != nil {
		return fmt.Errorf("clear shopcart items: %w", err)
	}

	for i := range cart.Items {
		cart.Items[i].ShopcartID = cart.ID
		if err := upsertItem(ctx, tx, &cart.Items[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace shopcart: %w", err)
	}
	return nil
}

// DeleteShopcart is idempotent; deleting a cart that is already gone is
// not an error. Items go with the cart via ON DELETE CASCADE.
func (r *Repository) DeleteShopcart(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM shopcarts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete shopcart: %w", err)
	}
	return nil
}

func (r *Repository) GetItem(ctx context.Context, shopcartID, productID int64) (*domain.CartItem, error) {
	var item domain.CartItem
	err := r.db.QueryRowContext(ctx,
		`SELECT shopcart_id, product_id, quantity, price
		 FROM cart_items WHERE shopcart_id = $1 AND product_id = $2`,
		shopcartID, productID,
	).Scan(&item.ShopcartID, &item.ProductID, &item.Quantity, &item.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart item: %w", err)
	}
	return &item, nil
}

// AddItem upserts on the (shopcart_id, product_id) composite key:
// a fresh product inserts a new row, a repeated product increments the
// stored quantity. The returned item reflects the stored row.
func (r *Repository) AddItem(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	stored := *item
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO cart_items (shopcart_id, product_id, quantity, price)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (shopcart_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
		               price = EXCLUDED.price
		 RETURNING quantity, price`,
		item.ShopcartID, item.ProductID, item.Quantity, item.Price,
	).Scan(&stored.Quantity, &stored.Price)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrShopcartNotFound
		}
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}
	return &stored, nil
}

func (r *Repository) UpdateItem(ctx context.Context, item *domain.CartItem) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $1, price = $2
		 WHERE shopcart_id = $3 AND product_id = $4`,
		item.Quantity, item.Price, item.ShopcartID, item.ProductID)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update cart item rows affected: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, shopcartID, productID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE shopcart_id = $1 AND product_id = $2`,
		shopcartID, productID); err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

// DeleteItems removes every listed product from the cart. Product ids
// with no matching row are skipped, not errors.
func (r *Repository) DeleteItems(ctx context.Context, shopcartID int64, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE shopcart_id = $1 AND product_id = ANY($2)`,
		shopcartID, pq.Array(productIDs)); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	return nil
}

func (r *Repository) ClearItems(ctx context.Context, shopcartID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE shopcart_id = $1`, shopcartID); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) queryShopcarts(ctx context.Context, query string, args ...any) ([]*domain.Shopcart, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query shopcarts: %w", err)
	}
	defer rows.Close()

	var carts []*domain.Shopcart
	for rows.Next() {
		var cart domain.Shopcart
		if err := rows.Scan(&cart.ID, &cart.CustomerID); err != nil {
			return nil, fmt.Errorf("scan shopcart row: %w", err)
		}
		carts = append(carts, &cart)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, cart := range carts {
		items, err := r.loadItems(ctx, cart.ID)
		if err != nil {
			return nil, err
		}
		cart.Items = items
	}
	return carts, nil
}

func (r *Repository) loadItems(ctx context.Context, shopcartID int64) ([]domain.CartItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT shopcart_id, product_id, quantity, price
		 FROM cart_items WHERE shopcart_id = $1 ORDER BY product_id`,
		shopcartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ShopcartID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan cart item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

func upsertItem(ctx context.Context, tx *sql.Tx, item *domain.CartItem) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO cart_items (shopcart_id, product_id, quantity, price)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (shopcart_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
		               price = EXCLUDED.price`,
		item.ShopcartID, item.ProductID, item.Quantity, item.Price)
	if err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
