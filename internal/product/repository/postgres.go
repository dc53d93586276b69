package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tiendastreet/catalog-service/internal/model"
	"github.com/tiendastreet/catalog-service/internal/product"
	"github.com/tiendastreet/catalog-service/internal/product/dto"
)

// selectProduct joins the four reference tables so every read carries the
// resolved names the projections need.
const selectProduct = `
    SELECT p.*,
           c.name AS category_name,
           g.name AS gender_name,
           se.name AS season_name,
           b.name AS brand_name
    FROM products p
    LEFT JOIN categories c ON c.id = p.category_id
    LEFT JOIN genders g ON g.id = p.gender_id
    LEFT JOIN seasons se ON se.id = p.season_id
    LEFT JOIN brands b ON b.id = p.brand_id
`

type PGRepository struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{db: db, ext: db}
}

func (r *PGRepository) InTx(ctx context.Context, fn func(product.Repository) error) error {
	if _, ok := r.ext.(*sqlx.Tx); ok {
		// Already inside a transaction; join it.
		return fn(r)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&PGRepository{db: r.db, ext: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, sku, name, description, base_price, on_sale, discount_percent,
            category_id, gender_id, season_id, brand_id, created_at, updated_at
        )
        VALUES (
            :id, :sku, :name, :description, :base_price, :on_sale, :discount_percent,
            :category_id, :gender_id, :season_id, :brand_id, :created_at, :updated_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, r.ext, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := sqlx.GetContext(ctx, r.ext, &p, selectProduct+" WHERE p.id = $1 LIMIT 1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var p model.Product
	err := sqlx.GetContext(ctx, r.ext, &p, selectProduct+" WHERE p.sku = $1 LIMIT 1", sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.SearchQuery != "" {
		conditions = append(conditions,
			"(p.name ILIKE :search OR p.sku ILIKE :search OR p.description ILIKE :search OR b.name ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	fromClause := `
        FROM products p
        LEFT JOIN brands b ON b.id = p.brand_id
    `

	var count int
	countQuery, countArgs, err := sqlx.Named("SELECT count(*) "+fromClause+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	countQuery = r.ext.Rebind(countQuery)
	if err := sqlx.GetContext(ctx, r.ext, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	// Whitelist sortable fields.
	orderBy := "p.created_at DESC"
	if f.SortBy != "" {
		switch f.SortBy {
		case "name":
			orderBy = "p.name"
		case "price":
			orderBy = "p.base_price"
		case "created_at":
			orderBy = "p.created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := selectProduct + whereClause + " ORDER BY " + orderBy
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	query, qargs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}
	query = r.ext.Rebind(query)

	var products []model.Product
	if err := sqlx.SelectContext(ctx, r.ext, &products, query, qargs...); err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET sku = :sku,
            name = :name,
            description = :description,
            base_price = :base_price,
            on_sale = :on_sale,
            discount_percent = :discount_percent,
            category_id = :category_id,
            gender_id = :gender_id,
            season_id = :season_id,
            brand_id = :brand_id,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := sqlx.NamedExecContext(ctx, r.ext, query, p)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.ext.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

func (r *PGRepository) IsSKUUnique(ctx context.Context, sku, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE sku = $1`
	args := []interface{}{sku}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}

	if err := sqlx.GetContext(ctx, r.ext, &count, query, args...); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) ReplaceStockLines(ctx context.Context, productID string, lines []model.StockLine) error {
	do := func(e sqlx.ExtContext) error {
		// Lock the product row so concurrent replacements of the same
		// product's stock serialize instead of interleaving delete/insert.
		if _, err := e.ExecContext(ctx, "SELECT id FROM products WHERE id = $1 FOR UPDATE", productID); err != nil {
			return err
		}
		if _, err := e.ExecContext(ctx, "DELETE FROM stock_lines WHERE product_id = $1", productID); err != nil {
			return err
		}

		query := `
            INSERT INTO stock_lines (id, product_id, size_id, quantity)
            VALUES (:id, :product_id, :size_id, :quantity)
            ON CONFLICT (product_id, size_id) DO UPDATE SET quantity = EXCLUDED.quantity
        `
		for i := range lines {
			lines[i].ProductID = productID
			if lines[i].ID == "" {
				lines[i].ID = uuid.New().String()
			}
			if _, err := sqlx.NamedExecContext(ctx, e, query, lines[i]); err != nil {
				return err
			}
		}
		return nil
	}

	if _, ok := r.ext.(*sqlx.Tx); ok {
		return do(r.ext)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := do(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) ReplaceImages(ctx context.Context, productID string, images []model.ProductImage) error {
	do := func(e sqlx.ExtContext) error {
		if _, err := e.ExecContext(ctx, "DELETE FROM product_images WHERE product_id = $1", productID); err != nil {
			return err
		}

		query := `
            INSERT INTO product_images (id, product_id, url, is_primary)
            VALUES (:id, :product_id, :url, :is_primary)
        `
		for i := range images {
			images[i].ProductID = productID
			if images[i].ID == "" {
				images[i].ID = uuid.New().String()
			}
			if _, err := sqlx.NamedExecContext(ctx, e, query, images[i]); err != nil {
				return err
			}
		}
		return nil
	}

	if _, ok := r.ext.(*sqlx.Tx); ok {
		return do(r.ext)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := do(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) DeductStock(ctx context.Context, productID, sizeID string, quantity int) error {
	query := `
        UPDATE stock_lines
        SET quantity = quantity - $1
        WHERE product_id = $2 AND size_id = $3 AND quantity >= $1
    `
	res, err := r.ext.ExecContext(ctx, query, quantity, productID, sizeID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("insufficient stock for product %s size %s", productID, sizeID)
	}
	return nil
}

func (r *PGRepository) StockLinesByProduct(ctx context.Context, productIDs []string) (map[string][]model.StockLine, error) {
	result := make(map[string][]model.StockLine, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
        SELECT sl.id, sl.product_id, sl.size_id, sl.quantity, s.name AS size_name
        FROM stock_lines sl
        JOIN sizes s ON s.id = sl.size_id
        WHERE sl.product_id IN (?)
        ORDER BY s.name ASC
    `, productIDs)
	if err != nil {
		return nil, err
	}
	query = r.ext.Rebind(query)

	var lines []model.StockLine
	if err := sqlx.SelectContext(ctx, r.ext, &lines, query, args...); err != nil {
		return nil, err
	}

	for _, l := range lines {
		result[l.ProductID] = append(result[l.ProductID], l)
	}
	return result, nil
}

func (r *PGRepository) ImagesByProduct(ctx context.Context, productIDs []string) (map[string][]model.ProductImage, error) {
	result := make(map[string][]model.ProductImage, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
        SELECT * FROM product_images
        WHERE product_id IN (?)
        ORDER BY is_primary DESC, id ASC
    `, productIDs)
	if err != nil {
		return nil, err
	}
	query = r.ext.Rebind(query)

	var images []model.ProductImage
	if err := sqlx.SelectContext(ctx, r.ext, &images, query, args...); err != nil {
		return nil, err
	}

	for _, img := range images {
		result[img.ProductID] = append(result[img.ProductID], img)
	}
	return result, nil
}
