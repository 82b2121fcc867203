package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkaya/certportal/internal/app/models"
	"github.com/mkaya/certportal/internal/pkg/apperrors"
)

// PackageRepository handles the append-only ledger of generation events
type PackageRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPackageRepository creates a new PackageRepository
func NewPackageRepository(db *pgxpool.Pool) *PackageRepository {
	return &PackageRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append records one generation event and returns its identifier. Rows are
// immutable once inserted; the optional document bytes are stored so a
// later download does not need to regenerate the document.
func (r *PackageRepository) Append(ctx context.Context, q Querier, pkg *models.Package, document []byte) (int64, error) {
	query := `
		INSERT INTO packages (student_id, filename, training_path, generated_at, generated_by, document)
		VALUES ($1, $2, $3, now(), $4, $5)
		RETURNING id
	`

	var id int64
	err := q.QueryRow(ctx, query,
		pkg.StudentID, pkg.Filename, pkg.TrainingPath, pkg.GeneratedBy, document,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error appending package: %w", err)
	}

	return id, nil
}

// HistoryByStudent returns a student's generation events, newest first,
// metadata only
func (r *PackageRepository) HistoryByStudent(ctx context.Context, studentID int64) ([]models.Package, error) {
	sql, args, err := r.sb.Select("id", "student_id", "filename", "training_path", "generated_at", "generated_by", "document IS NOT NULL AS has_document").
		From("packages").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("generated_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build package history query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing package history: %w", err)
	}
	defer rows.Close()

	var packages []models.Package
	for rows.Next() {
		var p models.Package
		if err := rows.Scan(&p.ID, &p.StudentID, &p.Filename, &p.TrainingPath, &p.GeneratedAt, &p.GeneratedBy, &p.HasDocument); err != nil {
			return nil, fmt.Errorf("error scanning package row: %w", err)
		}
		packages = append(packages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating package rows: %w", err)
	}
	return packages, nil
}

// FetchPayload returns the stored document bytes and suggested filename for
// a package. Packages without stored bytes report not found, the same as an
// unknown identifier.
func (r *PackageRepository) FetchPayload(ctx context.Context, packageID int64) ([]byte, string, error) {
	var document []byte
	var filename string
	err := r.db.QueryRow(ctx,
		`SELECT document, filename FROM packages WHERE id = $1`,
		packageID,
	).Scan(&document, &filename)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.ErrPackageNotFound
		}
		return nil, "", fmt.Errorf("error fetching package payload: %w", err)
	}
	if len(document) == 0 {
		return nil, "", apperrors.ErrPackageNotFound
	}

	return document, filename, nil
}

// OwnerOf returns the identifier of the student owning a package
func (r *PackageRepository) OwnerOf(ctx context.Context, packageID int64) (int64, error) {
	var studentID int64
	err := r.db.QueryRow(ctx, `SELECT student_id FROM packages WHERE id = $1`, packageID).Scan(&studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrPackageNotFound
		}
		return 0, fmt.Errorf("error resolving package owner: %w", err)
	}
	return studentID, nil
}
