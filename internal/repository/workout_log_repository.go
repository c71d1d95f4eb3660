package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gymtracker/backend/internal/domain"
)

// WorkoutFilter narrows workout log listings.
type WorkoutFilter struct {
	UserID   *string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// WorkoutLogRepository encapsulates workout session persistence,
// including nested exercise sets.
type WorkoutLogRepository interface {
	Create(ctx context.Context, log *domain.WorkoutLog) error
	Update(ctx context.Context, log *domain.WorkoutLog) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.WorkoutLog, error)
	List(ctx context.Context, filter WorkoutFilter) ([]domain.WorkoutLog, error)
	ListUpdatedSince(ctx context.Context, since time.Time, userID *string) ([]domain.WorkoutLog, error)
	ReplaceSets(ctx context.Context, logID string, sets []domain.ExerciseSet) error
}

type workoutLogRepository struct {
	pool *pgxpool.Pool
}

// NewWorkoutLogRepository instantiates repository.
func NewWorkoutLogRepository(pool *pgxpool.Pool) WorkoutLogRepository {
	return &workoutLogRepository{pool: pool}
}

const workoutColumns = `id, user_id, log_date, notes, is_completed, total_duration_minutes, created_at, updated_at`

func (r *workoutLogRepository) Create(ctx context.Context, log *domain.WorkoutLog) error {
	const query = `
        INSERT INTO workout_logs (user_id, log_date, notes, is_completed, total_duration_minutes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`

	if err := r.pool.QueryRow(ctx, query,
		log.UserID,
		log.LogDate,
		log.Notes,
		log.Completed,
		log.DurationMinutes,
	).Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt); err != nil {
		return err
	}
	if len(log.Sets) > 0 {
		return r.ReplaceSets(ctx, log.ID, log.Sets)
	}
	return nil
}

func (r *workoutLogRepository) Update(ctx context.Context, log *domain.WorkoutLog) error {
	const query = `
        UPDATE workout_logs SET log_date=$1, notes=$2, is_completed=$3, total_duration_minutes=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		log.LogDate,
		log.Notes,
		log.Completed,
		log.DurationMinutes,
		log.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workoutLogRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM workout_logs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workoutLogRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutLog, error) {
	var log domain.WorkoutLog
	if err := r.pool.QueryRow(ctx, `SELECT `+workoutColumns+` FROM workout_logs WHERE id=$1`, id).Scan(
		&log.ID,
		&log.UserID,
		&log.LogDate,
		&log.Notes,
		&log.Completed,
		&log.DurationMinutes,
		&log.CreatedAt,
		&log.UpdatedAt,
	); err != nil {
		return nil, err
	}

	sets, err := r.loadSets(ctx, []string{log.ID})
	if err != nil {
		return nil, err
	}
	log.Sets = sets[log.ID]
	return &log, nil
}

func (r *workoutLogRepository) List(ctx context.Context, filter WorkoutFilter) ([]domain.WorkoutLog, error) {
	query := `SELECT ` + workoutColumns + ` FROM workout_logs WHERE 1=1`
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += ` AND user_id=$` + strconv.Itoa(len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += ` AND log_date >= $` + strconv.Itoa(len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += ` AND log_date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY log_date DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	return r.queryWithSets(ctx, query, args...)
}

func (r *workoutLogRepository) ListUpdatedSince(ctx context.Context, since time.Time, userID *string) ([]domain.WorkoutLog, error) {
	query := `SELECT ` + workoutColumns + ` FROM workout_logs WHERE updated_at > $1`
	args := []any{since}
	if userID != nil {
		args = append(args, *userID)
		query += ` AND user_id=$2`
	}
	query += ` ORDER BY updated_at`
	return r.queryWithSets(ctx, query, args...)
}

// ReplaceSets swaps the full set list of a workout inside a transaction.
func (r *workoutLogRepository) ReplaceSets(ctx context.Context, logID string, sets []domain.ExerciseSet) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM exercise_sets WHERE log_id=$1`, logID); err != nil {
		return err
	}

	const insert = `
        INSERT INTO exercise_sets (log_id, exercise_id, set_number, reps, weight, is_completed, notes, rest_time_seconds)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	for i := range sets {
		set := &sets[i]
		set.WorkoutLogID = logID
		if err := tx.QueryRow(ctx, insert,
			logID,
			set.ExerciseID,
			set.SetNumber,
			set.Reps,
			set.Weight,
			set.Completed,
			set.Notes,
			set.RestTimeSeconds,
		).Scan(&set.ID, &set.CreatedAt, &set.UpdatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *workoutLogRepository) queryWithSets(ctx context.Context, query string, args ...any) ([]domain.WorkoutLog, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.WorkoutLog
	var ids []string
	for rows.Next() {
		var log domain.WorkoutLog
		if err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.LogDate,
			&log.Notes,
			&log.Completed,
			&log.DurationMinutes,
			&log.CreatedAt,
			&log.UpdatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, log)
		ids = append(ids, log.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return logs, nil
	}

	setsByLog, err := r.loadSets(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range logs {
		logs[i].Sets = setsByLog[logs[i].ID]
	}
	return logs, nil
}

func (r *workoutLogRepository) loadSets(ctx context.Context, logIDs []string) (map[string][]domain.ExerciseSet, error) {
	const query = `
        SELECT id, log_id, exercise_id, set_number, reps, weight, is_completed, notes, rest_time_seconds, created_at, updated_at
        FROM exercise_sets WHERE log_id = ANY($1) ORDER BY log_id, set_number`

	rows, err := r.pool.Query(ctx, query, logIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.ExerciseSet, len(logIDs))
	for rows.Next() {
		var set domain.ExerciseSet
		if err := rows.Scan(
			&set.ID,
			&set.WorkoutLogID,
			&set.ExerciseID,
			&set.SetNumber,
			&set.Reps,
			&set.Weight,
			&set.Completed,
			&set.Notes,
			&set.RestTimeSeconds,
			&set.CreatedAt,
			&set.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out[set.WorkoutLogID] = append(out[set.WorkoutLogID], set)
	}
	return out, rows.Err()
}
