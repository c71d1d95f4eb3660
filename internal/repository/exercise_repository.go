package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gymtracker/backend/internal/domain"
)

// ExerciseFilter narrows exercise listings.
type ExerciseFilter struct {
	MuscleGroup *string
	Search      *string
	Limit       int
	Offset      int
}

// ExerciseRepository encapsulates exercise catalog persistence.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	List(ctx context.Context, filter ExerciseFilter) ([]domain.Exercise, error)
	ListAll(ctx context.Context) ([]domain.Exercise, error)
	ListUpdatedSince(ctx context.Context, since time.Time) ([]domain.Exercise, error)
}

type exerciseRepository struct {
	pool *pgxpool.Pool
}

// NewExerciseRepository instantiates repository.
func NewExerciseRepository(pool *pgxpool.Pool) ExerciseRepository {
	return &exerciseRepository{pool: pool}
}

const exerciseColumns = `id, name, muscle_group, description, media_url, is_custom, created_by_user_id, created_at, updated_at`

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	const query = `
        INSERT INTO exercises (name, muscle_group, description, media_url, is_custom, created_by_user_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		exercise.Name,
		exercise.MuscleGroup,
		exercise.Description,
		exercise.MediaURL,
		exercise.Custom,
		exercise.CreatedByUserID,
	).Scan(&exercise.ID, &exercise.CreatedAt, &exercise.UpdatedAt)
}

func (r *exerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	const query = `
        UPDATE exercises SET name=$1, muscle_group=$2, description=$3, media_url=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		exercise.Name,
		exercise.MuscleGroup,
		exercise.Description,
		exercise.MediaURL,
		exercise.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *exerciseRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM exercises WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *exerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	if err := r.pool.QueryRow(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE id=$1`, id).Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.MuscleGroup,
		&exercise.Description,
		&exercise.MediaURL,
		&exercise.Custom,
		&exercise.CreatedByUserID,
		&exercise.CreatedAt,
		&exercise.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (r *exerciseRepository) List(ctx context.Context, filter ExerciseFilter) ([]domain.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE 1=1`
	args := []any{}

	if filter.MuscleGroup != nil {
		args = append(args, *filter.MuscleGroup)
		query += ` AND muscle_group=$` + strconv.Itoa(len(args))
	}
	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		query += ` AND name ILIKE $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY name`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	return r.queryMany(ctx, query, args...)
}

func (r *exerciseRepository) ListAll(ctx context.Context) ([]domain.Exercise, error) {
	return r.queryMany(ctx, `SELECT `+exerciseColumns+` FROM exercises ORDER BY id`)
}

func (r *exerciseRepository) ListUpdatedSince(ctx context.Context, since time.Time) ([]domain.Exercise, error) {
	return r.queryMany(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE updated_at > $1 ORDER BY updated_at`, since)
}

func (r *exerciseRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.Exercise, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []domain.Exercise
	for rows.Next() {
		var exercise domain.Exercise
		if err := rows.Scan(
			&exercise.ID,
			&exercise.Name,
			&exercise.MuscleGroup,
			&exercise.Description,
			&exercise.MediaURL,
			&exercise.Custom,
			&exercise.CreatedByUserID,
			&exercise.CreatedAt,
			&exercise.UpdatedAt,
		); err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}
	return exercises, rows.Err()
}
