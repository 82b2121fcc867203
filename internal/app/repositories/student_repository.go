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
	"github.com/mkaya/certportal/internal/pkg/logger"
)

// StudentIdentityIndex is the unique index enforcing one student row per
// (name, training_path). It is installed by Deduplicate, not by the schema
// migrations, so that pre-existing duplicate rows are collapsed first.
const StudentIdentityIndex = "students_name_training_path_key"

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Resolve maps a submitted (name, training path) pair to its canonical row
// and returns the row's identifier. The insert and the conflict update are
// one atomic statement, so two requests for the same student racing each
// other can never create duplicate rows. Email and center only take the new
// value when it is non-null; course count and path label are overwritten.
func (r *StudentRepository) Resolve(ctx context.Context, q Querier, student *models.Student) (int64, error) {
	query := `
		INSERT INTO students (name, email, center, training_path, path_label, course_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (name, training_path) DO UPDATE SET
			email        = COALESCE(EXCLUDED.email, students.email),
			center       = COALESCE(EXCLUDED.center, students.center),
			path_label   = EXCLUDED.path_label,
			course_count = EXCLUDED.course_count,
			updated_at   = now()
		RETURNING id
	`

	var id int64
	err := q.QueryRow(ctx, query,
		student.Name, student.Email, student.Center,
		student.TrainingPath, student.PathLabel, student.CourseCount,
	).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Str("name", student.Name).Str("trainingPath", string(student.TrainingPath)).Msg("Error resolving student")
		return 0, fmt.Errorf("error resolving student: %w", err)
	}

	return id, nil
}

// FindByEmail returns every student record owned by an email address,
// matched case-insensitively. A person can be enrolled in more than one
// curriculum, so the result is ordered by training path for determinism.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) ([]models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where("lower(email) = lower(?)", email).
		OrderBy("training_path ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find students by email query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error finding students by email: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// List returns a page of student records ordered by name then training path
func (r *StudentRepository) List(ctx context.Context, offset uint64, limit int) ([]models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		OrderBy("name ASC", "training_path ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// CountAll returns the total number of student records
func (r *StudentRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM students`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// GetByID retrieves a student by identifier
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	var student models.Student
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&student.ID, &student.Name, &student.Email, &student.Center,
		&student.TrainingPath, &student.PathLabel, &student.CourseCount,
		&student.CreatedAt, &student.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// Delete removes a student. The student exclusively owns its certificates
// and packages; the schema declares ON DELETE CASCADE for both, so they are
// removed in the same statement.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	logger.Info().Int64("studentID", id).Msg("Student deleted with owned certificates and packages")
	return nil
}

// rankedStudents ranks the rows of each (name, training_path) group by
// recency, ties broken by highest identifier. Row number 1 is the survivor.
const rankedStudents = `
	SELECT id,
	       first_value(id) OVER w AS survivor_id,
	       row_number() OVER w AS rn
	FROM students
	WINDOW w AS (PARTITION BY name, training_path ORDER BY updated_at DESC, id DESC)`

// Deduplicate collapses historical duplicate student rows into one survivor
// per (name, training_path), re-parents their certificates and packages to
// the survivor, deletes the losers and installs the uniqueness index. It is
// invoked on every startup and is a no-op once the index exists.
func (r *StudentRepository) Deduplicate(ctx context.Context) error {
	var installed bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = $1)`,
		StudentIdentityIndex,
	).Scan(&installed)
	if err != nil {
		return fmt.Errorf("error checking student identity index: %w", err)
	}
	if installed {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start deduplication transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	reparented := int64(0)
	for _, table := range []string{"certificates", "packages"} {
		tag, err := tx.Exec(ctx, `
			WITH ranked AS (`+rankedStudents+`)
			UPDATE `+table+` t
			SET student_id = r.survivor_id
			FROM ranked r
			WHERE t.student_id = r.id AND r.rn > 1`)
		if err != nil {
			return fmt.Errorf("error re-parenting %s to surviving students: %w", table, err)
		}
		reparented += tag.RowsAffected()
	}

	tag, err := tx.Exec(ctx, `
		WITH ranked AS (`+rankedStudents+`)
		DELETE FROM students s
		USING ranked r
		WHERE s.id = r.id AND r.rn > 1`)
	if err != nil {
		return fmt.Errorf("error deleting duplicate students: %w", err)
	}
	deleted := tag.RowsAffected()

	_, err = tx.Exec(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS `+StudentIdentityIndex+` ON students (name, training_path)`)
	if err != nil {
		return fmt.Errorf("error creating student identity index: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit deduplication: %w", err)
	}

	if deleted > 0 {
		logger.Info().
			Int64("deletedDuplicates", deleted).
			Int64("reparentedRows", reparented).
			Msg("Collapsed duplicate student rows")
	}
	logger.Info().Str("index", StudentIdentityIndex).Msg("Student identity uniqueness installed")
	return nil
}

var studentColumns = []string{
	"id", "name", "email", "center", "training_path",
	"path_label", "course_count", "created_at", "updated_at",
}

func scanStudents(rows pgx.Rows) ([]models.Student, error) {
	var students []models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Email, &s.Center,
			&s.TrainingPath, &s.PathLabel, &s.CourseCount,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}
