package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JoaoPedroVicentin/daily-diet-api/internal/domain"
)

// MealRepository define el contrato de persistencia para comidas.
type MealRepository interface {
	Create(ctx context.Context, meal domain.Meal) error
	GetByID(ctx context.Context, id string) (domain.Meal, error)
	ListByUserID(ctx context.Context, userID string) ([]domain.Meal, error)
	Update(ctx context.Context, meal domain.Meal) error
	Delete(ctx context.Context, id string) error
}

// PgMealRepository implementa MealRepository usando pgxpool.
// date_time se guarda como epoch en milisegundos (BIGINT).
type PgMealRepository struct {
	pool *pgxpool.Pool
}

func NewPgMealRepository(pool *pgxpool.Pool) *PgMealRepository {
	return &PgMealRepository{pool: pool}
}

func (r *PgMealRepository) Create(ctx context.Context, meal domain.Meal) error {
	const query = `
		INSERT INTO meals (id, name, description, date_time, on_diet, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		meal.ID,
		meal.Name,
		meal.Description,
		meal.DateTime.UnixMilli(),
		meal.OnDiet,
		meal.UserID,
		meal.CreatedAt,
	)
	return err
}

func (r *PgMealRepository) GetByID(ctx context.Context, id string) (domain.Meal, error) {
	const query = `
		SELECT id, name, description, date_time, on_diet, user_id, created_at, updated_at
		FROM meals
		WHERE id = $1
	`
	var (
		meal      domain.Meal
		millis    int64
		updatedAt *time.Time
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&meal.ID,
		&meal.Name,
		&meal.Description,
		&millis,
		&meal.OnDiet,
		&meal.UserID,
		&meal.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Meal{}, err
	}
	meal.DateTime = time.UnixMilli(millis).UTC()
	meal.UpdatedAt = updatedAt
	return meal, nil
}

func (r *PgMealRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Meal, error) {
	const query = `
		SELECT id, name, description, date_time, on_diet, user_id, created_at, updated_at
		FROM meals
		WHERE user_id = $1
		ORDER BY date_time DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []domain.Meal
	for rows.Next() {
		var (
			meal      domain.Meal
			millis    int64
			updatedAt *time.Time
		)
		err = rows.Scan(
			&meal.ID,
			&meal.Name,
			&meal.Description,
			&millis,
			&meal.OnDiet,
			&meal.UserID,
			&meal.CreatedAt,
			&updatedAt,
		)
		if err != nil {
			return nil, err
		}
		meal.DateTime = time.UnixMilli(millis).UTC()
		meal.UpdatedAt = updatedAt
		meals = append(meals, meal)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return meals, nil
}

func (r *PgMealRepository) Update(ctx context.Context, meal domain.Meal) error {
	const query = `
		UPDATE meals
		SET name = $2, description = $3, date_time = $4, on_diet = $5, updated_at = $6
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		meal.ID,
		meal.Name,
		meal.Description,
		meal.DateTime.UnixMilli(),
		meal.OnDiet,
		meal.UpdatedAt,
	)
	return err
}

func (r *PgMealRepository) Delete(ctx context.Context, id string) error {
	const query = `
		DELETE FROM meals
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
