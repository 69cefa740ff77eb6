package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/recipecart/backend/internal/domain"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// SQLiteStore persists recipe records and cart items in SQLite
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", domain.ErrStorage)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStorage, path, err)
	}
	// SQLite has one writer; a single connection also keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: apply schema: %v", domain.ErrStorage, err)
	}

	log.Printf("[STORAGE] Opened %s", path)
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// StoreRecipes writes every record with its ingredients and reviews under
// queryLabel in one transaction. Either all records are stored or none is.
func (s *SQLiteStore) StoreRecipes(ctx context.Context, queryLabel string, records []*domain.RecipeRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrStorage, err)
	}
	defer tx.Rollback()

	for _, record := range records {
		if err := s.upsertRecipe(ctx, tx, record, queryLabel); err != nil {
			return err
		}
		if err := upsertIngredients(ctx, tx, record); err != nil {
			return err
		}
		if err := upsertReviews(ctx, tx, record); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit %q: %v", domain.ErrStorage, queryLabel, err)
	}
	return nil
}

// Upsert stores the recipe row of record under queryLabel
func (s *SQLiteStore) Upsert(ctx context.Context, record *domain.RecipeRecord, queryLabel string) error {
	return s.upsertRecipe(ctx, s.db, record, queryLabel)
}

func (s *SQLiteStore) upsertRecipe(ctx context.Context, db execer, record *domain.RecipeRecord, queryLabel string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO recipes (query, source_url, recipe_name, rating, total_number_ratings, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (query, source_url) DO UPDATE SET
			recipe_name = excluded.recipe_name,
			rating = excluded.rating,
			total_number_ratings = excluded.total_number_ratings`,
		queryLabel, record.SourceURL, record.Name, record.RatingLabel(), record.RatingCount, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: upsert recipe %s: %v", domain.ErrStorage, record.SourceURL, err)
	}
	return nil
}

// UpsertIngredients stores the ingredients, servings and nutrition of record
func (s *SQLiteStore) UpsertIngredients(ctx context.Context, record *domain.RecipeRecord) error {
	return upsertIngredients(ctx, s.db, record)
}

func upsertIngredients(ctx context.Context, db execer, record *domain.RecipeRecord) error {
	ingredients, err := encodeList(record.Ingredients)
	if err != nil {
		return err
	}
	nutrition, err := encodeList(record.NutritionFacts)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO ingredients (recipe_url, recipe, ingredients, servings, nutrition_per_serving)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (recipe_url) DO UPDATE SET
			recipe = excluded.recipe,
			ingredients = excluded.ingredients,
			servings = excluded.servings,
			nutrition_per_serving = excluded.nutrition_per_serving`,
		record.SourceURL, record.Name, ingredients, record.Servings, nutrition,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert ingredients %s: %v", domain.ErrStorage, record.SourceURL, err)
	}
	return nil
}

// UpsertReviews stores the top reviews and review count of record
func (s *SQLiteStore) UpsertReviews(ctx context.Context, record *domain.RecipeRecord) error {
	return upsertReviews(ctx, s.db, record)
}

func upsertReviews(ctx context.Context, db execer, record *domain.RecipeRecord) error {
	reviews, err := encodeList(record.TopReviews)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO reviews (recipe_url, recipe, top_reviews, total_number_reviews)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (recipe_url) DO UPDATE SET
			recipe = excluded.recipe,
			top_reviews = excluded.top_reviews,
			total_number_reviews = excluded.total_number_reviews`,
		record.SourceURL, record.Name, reviews, record.ReviewCount,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert reviews %s: %v", domain.ErrStorage, record.SourceURL, err)
	}
	return nil
}

// UpsertCartItem records a product added to the cart for termLabel.
// Re-adding the same product for the same term replaces the quantity.
func (s *SQLiteStore) UpsertCartItem(ctx context.Context, item domain.CartItem, termLabel string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_items (product_id, term, quantity, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (product_id, term) DO UPDATE SET
			quantity = excluded.quantity,
			updated_at = excluded.updated_at`,
		item.ProductID, termLabel, item.Quantity, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: upsert cart item %s: %v", domain.ErrStorage, item.ProductID, err)
	}
	return nil
}

// QueryByLabel returns the recipes stored under a query label in insertion order
func (s *SQLiteStore) QueryByLabel(ctx context.Context, label string) ([]domain.StoredRecipe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.query, r.source_url, r.recipe_name, r.rating, r.total_number_ratings,
			COALESCE(i.servings, 0), COALESCE(i.ingredients, '[]'), COALESCE(i.nutrition_per_serving, '[]'),
			COALESCE(v.top_reviews, '[]'), COALESCE(v.total_number_reviews, 0)
		FROM recipes r
		LEFT JOIN ingredients i ON i.recipe_url = r.source_url
		LEFT JOIN reviews v ON v.recipe_url = r.source_url
		WHERE r.query = ?
		ORDER BY r.id`,
		label,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query label %q: %v", domain.ErrStorage, label, err)
	}
	defer rows.Close()

	var out []domain.StoredRecipe
	for rows.Next() {
		var r domain.StoredRecipe
		if err := rows.Scan(
			&r.Query, &r.SourceURL, &r.Name, &r.Rating, &r.RatingCount,
			&r.Servings, &r.Ingredients, &r.Nutrition,
			&r.TopReviews, &r.ReviewCount,
		); err != nil {
			return nil, fmt.Errorf("%w: scan recipe: %v", domain.ErrStorage, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate recipes: %v", domain.ErrStorage, err)
	}
	return out, nil
}

// HasLabel reports whether any recipe was stored under label
func (s *SQLiteStore) HasLabel(ctx context.Context, label string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM recipes WHERE query = ?)`, label).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: check label %q: %v", domain.ErrStorage, label, err)
	}
	return exists, nil
}

// CartItems returns the items recorded for a term, ordered by product
func (s *SQLiteStore) CartItems(ctx context.Context, termLabel string) ([]domain.CartItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, quantity FROM cart_items WHERE term = ? ORDER BY product_id`, termLabel)
	if err != nil {
		return nil, fmt.Errorf("%w: query cart items: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var out []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("%w: scan cart item: %v", domain.ErrStorage, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate cart items: %v", domain.ErrStorage, err)
	}
	return out, nil
}

// encodeList stores a list column as a JSON array; nil becomes []
func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("%w: encode list: %v", domain.ErrStorage, err)
	}
	return string(b), nil
}
