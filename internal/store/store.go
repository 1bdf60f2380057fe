package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// productRow mirrors the products table
type productRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Category    string         `db:"category"`
	Price       int64          `db:"price"`
	Rating      float64        `db:"rating"`
	Badge       sql.NullString `db:"badge"`
	Description string         `db:"description"`
	Features    pq.StringArray `db:"features"`
	Image       string         `db:"image"`
}

func (r productRow) toModel() models.Product {
	return models.Product{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		Price:       r.Price,
		Rating:      r.Rating,
		Badge:       r.Badge.String,
		Description: r.Description,
		Features:    []string(r.Features),
		Image:       r.Image,
	}
}

const productColumns = `id, name, category, price, rating, badge, description, features, image`

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetProducts retrieves all products in display order
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT "+productColumns+" FROM products ORDER BY position, id")
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
	}
	return products, nil
}

// LoadProducts implements catalog.Source
func (s *Store) LoadProducts(ctx context.Context) ([]models.Product, error) {
	return s.GetProducts(ctx)
}
