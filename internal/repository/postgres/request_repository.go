package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/hj010/Image-Process/internal/domain"
	"github.com/hj010/Image-Process/internal/helpers"
)

type requestRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewRequestRepository(db *dbpg.DB, strategy retry.Strategy) domain.RequestRepository {
	return &requestRepository{
		db:       db,
		strategy: strategy,
	}
}

// CreateRequestWithProducts inserts the request row and all of its product
// rows in one transaction, so a half-written batch never becomes visible.
func (r *requestRepository) CreateRequestWithProducts(ctx context.Context, request *domain.Request, products []*domain.Product) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("request_id", request.ID).Msg("failed to begin transaction")
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO requests (request_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)`,
		request.ID, request.Status, request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("request_id", request.ID).Msg("failed to insert request")
		return fmt.Errorf("insert request: %w", err)
	}

	for _, p := range products {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO products (request_id, serial_number, product_name, input_image_urls, output_image_urls, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.RequestID,
			p.SerialNumber,
			p.ProductName,
			joinURLs(p.InputImageURLs),
			joinURLs(p.OutputImageURLs),
			p.Status,
			p.CreatedAt,
			p.UpdatedAt,
		)
		if err != nil {
			zlog.Logger.Error().
				Err(err).
				Str("request_id", request.ID).
				Str("serial_number", p.SerialNumber).
				Msg("failed to insert product")
			return fmt.Errorf("insert product: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	zlog.Logger.Info().
		Str("request_id", request.ID).
		Int("products", len(products)).
		Msg("request created with products")
	return nil
}

func (r *requestRepository) GetRequest(ctx context.Context, id string) (*domain.Request, error) {
	query := `
		SELECT request_id, status, created_at, updated_at
		FROM requests
		WHERE request_id = $1
	`

	var req domain.Request
	row := r.db.Master.QueryRowContext(ctx, query, id)
	err := row.Scan(&req.ID, &req.Status, &req.CreatedAt, &req.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		zlog.Logger.Error().Err(err).Str("request_id", id).Msg("failed to find request")
		return nil, fmt.Errorf("find request: %w", err)
	}

	return &req, nil
}

func (r *requestRepository) ListProducts(ctx context.Context, requestID string) ([]*domain.Product, error) {
	query := `
		SELECT id, request_id, serial_number, product_name, input_image_urls, output_image_urls, status, created_at, updated_at
		FROM products
		WHERE request_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, requestID)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("request_id", requestID).Msg("failed to list products")
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	return r.scanProducts(rows)
}

// UpdateProductOutputs persists a product's artifact references and final
// status in a single statement.
func (r *requestRepository) UpdateProductOutputs(ctx context.Context, productID int64, outputs []string, status domain.ProductStatus) error {
	query := `
		UPDATE products
		SET output_image_urls = $2, status = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecWithRetry(ctx, r.strategy, query, productID, joinURLs(outputs), status)
	if err != nil {
		zlog.Logger.Error().Err(err).Int64("product_id", productID).Msg("failed to update product outputs")
		return fmt.Errorf("update product outputs: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRequestNotFound
	}

	zlog.Logger.Info().
		Int64("product_id", productID).
		Int("outputs", len(outputs)).
		Str("status", string(status)).
		Msg("product outputs updated")
	return nil
}

func (r *requestRepository) SetRequestStatus(ctx context.Context, requestID string, status domain.RequestStatus) error {
	query := `
		UPDATE requests
		SET status = $2, updated_at = NOW()
		WHERE request_id = $1
	`

	result, err := r.db.ExecWithRetry(ctx, r.strategy, query, requestID, status)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("request_id", requestID).Msg("failed to update request status")
		return fmt.Errorf("update request status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRequestNotFound
	}

	return nil
}

func (r *requestRepository) ListStatus(ctx context.Context, requestID string) ([]*domain.StatusRow, error) {
	query := `
		SELECT p.serial_number, p.product_name, p.input_image_urls, p.output_image_urls, r.status
		FROM products p
		JOIN requests r ON p.request_id = r.request_id
		WHERE p.request_id = $1
		ORDER BY p.id
	`

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, requestID)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("request_id", requestID).Msg("failed to query status")
		return nil, fmt.Errorf("query status: %w", err)
	}
	defer rows.Close()

	var result []*domain.StatusRow
	for rows.Next() {
		var row domain.StatusRow
		var inputs, outputs sql.NullString

		if err := rows.Scan(&row.SerialNumber, &row.ProductName, &inputs, &outputs, &row.RequestStatus); err != nil {
			return nil, fmt.Errorf("scan status row: %w", err)
		}

		row.InputImageURLs = splitURLs(inputs.String)
		row.OutputImageURLs = splitURLs(outputs.String)
		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

func (r *requestRepository) scanProducts(rows *sql.Rows) ([]*domain.Product, error) {
	var products []*domain.Product

	for rows.Next() {
		var p domain.Product
		var inputs, outputs sql.NullString

		err := rows.Scan(
			&p.ID,
			&p.RequestID,
			&p.SerialNumber,
			&p.ProductName,
			&inputs,
			&outputs,
			&p.Status,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}

		p.InputImageURLs = splitURLs(inputs.String)
		p.OutputImageURLs = splitURLs(outputs.String)
		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return products, nil
}

// URL lists live as comma-joined strings in the store.
func joinURLs(urls []string) string {
	return strings.Join(urls, ",")
}

func splitURLs(s string) []string {
	return helpers.SplitAndTrim(s, ",")
}
