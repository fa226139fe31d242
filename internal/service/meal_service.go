package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/JoaoPedroVicentin/daily-diet-api/internal/domain"
	"github.com/JoaoPedroVicentin/daily-diet-api/internal/repository"
)

// MealService coordina reglas de negocio para comidas: toda operación recibe
// el id del usuario autenticado y solo opera sobre comidas de ese dueño.
type MealService struct {
	logger *zap.Logger
	meals  repository.MealRepository
}

var (
	ErrMealNotFound = errors.New("meal not found")
	ErrMealNotOwned = errors.New("meal not owned")
	ErrInvalidMeal  = errors.New("meal invalid")
)

func NewMealService(logger *zap.Logger, meals repository.MealRepository) *MealService {
	return &MealService{
		logger: logger,
		meals:  meals,
	}
}

type CreateMealInput struct {
	Name        string
	Description string
	DateTime    time.Time
	OnDiet      bool
}

// UpdateMealInput lleva solo los campos presentes en el request; los campos
// nil conservan su valor anterior.
type UpdateMealInput struct {
	Name        *string
	Description *string
	DateTime    *time.Time
	OnDiet      *bool
}

func (s *MealService) Create(ctx context.Context, userID string, input CreateMealInput) (domain.Meal, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" || description == "" {
		return domain.Meal{}, ErrInvalidMeal
	}

	meal := domain.Meal{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		DateTime:    input.DateTime.UTC(),
		OnDiet:      input.OnDiet,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.meals.Create(ctx, meal); err != nil {
		return domain.Meal{}, err
	}

	return meal, nil
}

func (s *MealService) List(ctx context.Context, userID string) ([]domain.Meal, error) {
	meals, err := s.meals.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if meals == nil {
		meals = []domain.Meal{}
	}
	return meals, nil
}

func (s *MealService) Get(ctx context.Context, userID, mealID string) (domain.Meal, error) {
	return s.ownedMeal(ctx, userID, mealID)
}

func (s *MealService) Update(ctx context.Context, userID, mealID string, input UpdateMealInput) (domain.Meal, error) {
	meal, err := s.ownedMeal(ctx, userID, mealID)
	if err != nil {
		return domain.Meal{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return domain.Meal{}, ErrInvalidMeal
		}
		meal.Name = name
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return domain.Meal{}, ErrInvalidMeal
		}
		meal.Description = description
	}
	if input.DateTime != nil {
		meal.DateTime = input.DateTime.UTC()
	}
	if input.OnDiet != nil {
		meal.OnDiet = *input.OnDiet
	}

	now := time.Now().UTC()
	meal.UpdatedAt = &now

	if err := s.meals.Update(ctx, meal); err != nil {
		return domain.Meal{}, err
	}

	return meal, nil
}

func (s *MealService) Delete(ctx context.Context, userID, mealID string) error {
	if _, err := s.ownedMeal(ctx, userID, mealID); err != nil {
		return err
	}
	return s.meals.Delete(ctx, mealID)
}

// Metrics recorre las comidas del usuario en orden descendente por fecha (el
// mismo orden de List); la mejor racha se calcula sobre ese orden, no sobre el
// orden cronológico.
func (s *MealService) Metrics(ctx context.Context, userID string) (domain.Metrics, error) {
	meals, err := s.meals.ListByUserID(ctx, userID)
	if err != nil {
		return domain.Metrics{}, err
	}

	var metrics domain.Metrics
	metrics.TotalMeals = len(meals)

	streak := 0
	for _, meal := range meals {
		if meal.OnDiet {
			metrics.MealsOnDiet++
			streak++
			if streak > metrics.BestStreak {
				metrics.BestStreak = streak
			}
		} else {
			metrics.MealsOffDiet++
			streak = 0
		}
	}

	return metrics, nil
}

// ownedMeal busca la comida y valida el dueño. La ausencia se reporta antes
// que la falta de permiso: un id inexistente siempre es ErrMealNotFound.
func (s *MealService) ownedMeal(ctx context.Context, userID, mealID string) (domain.Meal, error) {
	meal, err := s.meals.GetByID(ctx, mealID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Meal{}, ErrMealNotFound
		}
		return domain.Meal{}, err
	}
	if meal.UserID != userID {
		return domain.Meal{}, ErrMealNotOwned
	}
	return meal, nil
}
