package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkaya/certportal/internal/app/models"
	"github.com/mkaya/certportal/internal/pkg/logger"
)

const certDateFormat = "2006-01-02"

// CertificateRepository handles certificate database operations
type CertificateRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCertificateRepository creates a new CertificateRepository
func NewCertificateRepository(db *pgxpool.Pool) *CertificateRepository {
	return &CertificateRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Reconcile makes the stored certificate set for a student match the
// incoming list. When the order-independent signatures agree, nothing is
// written, so an identical re-submission is a no-op. When they differ, all
// stored rows are deleted and the incoming list is inserted as one batch in
// the caller's transaction, so a concurrent reader never observes a mix of
// old and new rows.
func (r *CertificateRepository) Reconcile(ctx context.Context, q Querier, studentID int64, certs []models.Certificate) error {
	stored, err := r.storedKeys(ctx, q, studentID)
	if err != nil {
		return err
	}

	incoming := make([]CertKey, 0, len(certs))
	for _, c := range certs {
		incoming = append(incoming, CertKey{
			CourseName: c.CourseName,
			CertDate:   c.CertDate.Format(certDateFormat),
			Status:     c.Status,
		})
	}

	if SignatureOf(stored) == SignatureOf(incoming) {
		logger.Debug().Int64("studentID", studentID).Msg("Certificate set unchanged, skipping rewrite")
		return nil
	}

	if _, err := q.Exec(ctx, `DELETE FROM certificates WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("error clearing certificates: %w", err)
	}

	if len(certs) == 0 {
		return nil
	}

	insert := r.sb.Insert("certificates").
		Columns("student_id", "course_name", "subject_area", "cert_date", "status", "area_index")
	for _, c := range certs {
		insert = insert.Values(studentID, c.CourseName, c.SubjectArea, c.CertDate, c.Status, c.AreaIndex)
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build certificate insert query: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error inserting certificates: %w", err)
	}

	logger.Info().Int64("studentID", studentID).Int("count", len(certs)).Msg("Certificate set replaced")
	return nil
}

// ListByStudent returns a student's certificates ordered by certification
// date ascending
func (r *CertificateRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Certificate, error) {
	sql, args, err := r.sb.Select("id", "student_id", "course_name", "subject_area", "cert_date", "status", "area_index").
		From("certificates").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("cert_date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list certificates query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing certificates: %w", err)
	}
	defer rows.Close()

	var certs []models.Certificate
	for rows.Next() {
		var c models.Certificate
		if err := rows.Scan(&c.ID, &c.StudentID, &c.CourseName, &c.SubjectArea, &c.CertDate, &c.Status, &c.AreaIndex); err != nil {
			return nil, fmt.Errorf("error scanning certificate row: %w", err)
		}
		certs = append(certs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating certificate rows: %w", err)
	}
	return certs, nil
}

func (r *CertificateRepository) storedKeys(ctx context.Context, q Querier, studentID int64) ([]CertKey, error) {
	rows, err := q.Query(ctx,
		`SELECT course_name, to_char(cert_date, 'YYYY-MM-DD'), status FROM certificates WHERE student_id = $1`,
		studentID)
	if err != nil {
		return nil, fmt.Errorf("error loading stored certificates: %w", err)
	}
	defer rows.Close()

	var keys []CertKey
	for rows.Next() {
		var k CertKey
		if err := rows.Scan(&k.CourseName, &k.CertDate, &k.Status); err != nil {
			return nil, fmt.Errorf("error scanning stored certificate: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stored certificates: %w", err)
	}
	return keys, nil
}
