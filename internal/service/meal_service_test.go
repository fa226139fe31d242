package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/JoaoPedroVicentin/daily-diet-api/internal/domain"
)

type mockMealRepo struct {
	mealsByID map[string]domain.Meal
}

func newMockMealRepo() *mockMealRepo {
	return &mockMealRepo{
		mealsByID: make(map[string]domain.Meal),
	}
}

func (m *mockMealRepo) Create(_ context.Context, meal domain.Meal) error {
	m.mealsByID[meal.ID] = meal
	return nil
}

func (m *mockMealRepo) GetByID(_ context.Context, id string) (domain.Meal, error) {
	meal, ok := m.mealsByID[id]
	if !ok {
		return domain.Meal{}, pgx.ErrNoRows
	}
	return meal, nil
}

func (m *mockMealRepo) ListByUserID(_ context.Context, userID string) ([]domain.Meal, error) {
	var meals []domain.Meal
	for _, meal := range m.mealsByID {
		if meal.UserID == userID {
			meals = append(meals, meal)
		}
	}
	sort.SliceStable(meals, func(i, j int) bool {
		return meals[i].DateTime.After(meals[j].DateTime)
	})
	return meals, nil
}

func (m *mockMealRepo) Update(_ context.Context, meal domain.Meal) error {
	if _, ok := m.mealsByID[meal.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.mealsByID[meal.ID] = meal
	return nil
}

func (m *mockMealRepo) Delete(_ context.Context, id string) error {
	delete(m.mealsByID, id)
	return nil
}

func seedMeal(t *testing.T, svc *MealService, userID, name string, dateTime time.Time, onDiet bool) domain.Meal {
	t.Helper()
	meal, err := svc.Create(context.Background(), userID, CreateMealInput{
		Name:        name,
		Description: name + " description",
		DateTime:    dateTime,
		OnDiet:      onDiet,
	})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
	return meal
}

func TestMealServiceCreateThenList(t *testing.T) {
	repo := newMockMealRepo()
	svc := NewMealService(zap.NewNop(), repo)

	dateTime := time.Date(2024, 12, 20, 18, 45, 0, 0, time.UTC)
	meal := seedMeal(t, svc, "user-a", "Panqueca proteica", dateTime, true)

	if meal.ID == "" {
		t.Fatalf("expected generated id")
	}
	if meal.UserID != "user-a" {
		t.Fatalf("expected owner user-a, got %s", meal.UserID)
	}
	if meal.UpdatedAt != nil {
		t.Fatalf("expected nil updated_at on create, got %v", meal.UpdatedAt)
	}

	meals, err := svc.List(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("list meals: %v", err)
	}
	if len(meals) != 1 {
		t.Fatalf("expected 1 meal right after create, got %d", len(meals))
	}
	if meals[0].ID != meal.ID {
		t.Fatalf("expected listed meal %s, got %s", meal.ID, meals[0].ID)
	}
}

func TestMealServiceCreateRejectsEmptyFields(t *testing.T) {
	repo := newMockMealRepo()
	svc := NewMealService(zap.NewNop(), repo)

	_, err := svc.Create(context.Background(), "user-a", CreateMealInput{
		Name:        "   ",
		Description: "desc",
		DateTime:    time.Now().UTC(),
	})
	if !errors.Is(err, ErrInvalidMeal) {
		t.Fatalf("expected ErrInvalidMeal, got %v", err)
	}
}

func TestMealServiceListIsolatesOwners(t *testing.T) {
	repo := newMockMealRepo()
	svc := NewMealService(zap.NewNop(), repo)

	base := time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC)
	seedMeal(t, svc, "user-a", "Salada", base, true)
	seedMeal(t, svc, "user-a", "Pizza", base.Add(time.Hour), false)
	seedMeal(t, svc, "user-b", "Sopa", base.Add(2*time.Hour), true)

	meals, err := svc.List(context.Background(), "user-b")
	if err != nil {
		t.Fatalf("list meals: %v", err)
	}
	if len(meals) != 1 {
		t.Fatalf("expected 1 meal for user-b, got %d", len(meals))
	}
	for _, meal := range meals {
		if meal.UserID != "user-b" {
			t.Fatalf("list leaked meal of owner %s", meal.UserID)
		}
	}
}

func TestMealServiceListOrdersByDateTimeDesc(t *testing.T) {
	repo := newMockMealRepo()
	svc := NewMealService(zap.NewNop(), repo)

	base := time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC)
	first := seedMeal(t, svc, "user-a", "Cafe", base, true)
	last := seedMeal(t, svc, "user-a", "Jantar", base.Add(2*time.Hour), false)

	meals, err := svc.List(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("list meals: %v", err)
	}
	if len(meals) != 2 {
		t.Fatalf("expected 2 meals, got %d", len(meals))
	}
	if meals[0].ID != last.ID || meals[1].ID != first.ID {
		t.Fatalf("expected most recent meal first, got %s then %s", meals[0].Name, meals[1].Name)
	}
}

func TestMealServiceGetNotFoundBeforeNotOwned(t *testing.T) {
	repo := newMockMealRepo()
	svc := NewMealService(zap.NewNop(), repo)

	meal := seedMeal(t, svc, "user-a", "Salada", time.Now().UTC(), true)

	if _, err := svc.Get(context.Background(), "user-b", "missing-id"); !errors.Is(err, ErrMealNotFound) {
		t.Fatalf("expected ErrMealNotFound for missing id, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "user-b", meal.ID); !errors.Is(err, ErrMealNotOwned) {
		t.Fatalf("expected ErrMealNotOwned for foreign meal, got %v", err)
	}
}

func TestMealServiceGetIsIdempotent(t *testing.T) {
	repo := newMockMealRepo()
	svc := NewMealService(zap.NewNop(), repo)

	meal := seedMeal(t, svc, "user-a", "Salada", time.Now().UTC(), true)

	first, err := svc.Get(context.Background(), "user-a", meal.ID)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	second, err := svc.Get(context.Background(), "user-a", meal.ID)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestMealServiceUpdatePartialKeepsOtherFields(t *testing.T) {
	repo := newMockMealRepo()
	svc := NewMealService(zap.NewNop(), repo)

	dateTime := time.Date(2024, 12, 20, 18, 45, 0, 0, time.UTC)
	meal := seedMeal(t, svc, "user-a", "Panqueca proteica", dateTime, true)

	newName := "Pizza"
	updated, err := svc.Update(context.Background(), "user-a", meal.ID, UpdateMealInput{Name: &newName})
	if err != nil {
		t.Fatalf("update meal: %v", err)
	}

	if updated.Name != "Pizza" {
		t.Fatalf("expected name Pizza, got %s", updated.Name)
	}
	if updated.Description != meal.Description {
		t.Fatalf("expected description unchanged, got %s", updated.Description)
	}
	if !updated.DateTime.Equal(meal.DateTime) {
		t.Fatalf("expected dateTime unchanged, got %v", updated.DateTime)
	}
	if updated.OnDiet != meal.OnDiet {
		t.Fatalf("expected onDiet unchanged, got %v", updated.OnDiet)
	}
	if updated.UserID != meal.UserID {
		t.Fatalf("expected owner unchanged, got %s", updated.UserID)
	}
	if updated.UpdatedAt == nil {
		t.Fatalf("expected updated_at to be set")
	}
}

func TestMealServiceUpdateAlwaysRefreshesUpdatedAt(t *testing.T) {
	repo := newMockMealRepo()
	svc := NewMealService(zap.NewNop(), repo)

	meal := seedMeal(t, svc, "user-a", "Salada", time.Now().UTC(), true)

	start := time.Now().UTC()
	updated, err := svc.Update(context.Background(), "user-a", meal.ID, UpdateMealInput{})
	if err != nil {
		t.Fatalf("update meal: %v", err)
	}
	if updated.UpdatedAt == nil || updated.UpdatedAt.Before(start) {
		t.Fatalf("expected updated_at refreshed at or after %v, got %v", start, updated.UpdatedAt)
	}
}

func TestMealServiceUpdateOwnershipChecks(t *testing.T) {
	repo := newMockMealRepo()
	svc := NewMealService(zap.NewNop(), repo)

	meal := seedMeal(t, svc, "user-a", "Salada", time.Now().UTC(), true)

	newName := "Pizza"
	if _, err := svc.Update(context.Background(), "user-b", "missing-id", UpdateMealInput{Name: &newName}); !errors.Is(err, ErrMealNotFound) {
		t.Fatalf("expected ErrMealNotFound for missing id, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "user-b", meal.ID, UpdateMealInput{Name: &newName}); !errors.Is(err, ErrMealNotOwned) {
		t.Fatalf("expected ErrMealNotOwned for foreign meal, got %v", err)
	}

	stored, err := svc.Get(context.Background(), "user-a", meal.ID)
	if err != nil {
		t.Fatalf("get meal: %v", err)
	}
	if stored.Name != "Salada" {
		t.Fatalf("expected foreign update to leave meal untouched, got name %s", stored.Name)
	}
}

func TestMealServiceDelete(t *testing.T) {
	repo := newMockMealRepo()
	svc := NewMealService(zap.NewNop(), repo)

	meal := seedMeal(t, svc, "user-a", "Salada", time.Now().UTC(), true)

	if err := svc.Delete(context.Background(), "user-b", meal.ID); !errors.Is(err, ErrMealNotOwned) {
		t.Fatalf("expected ErrMealNotOwned for foreign delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), "user-a", meal.ID); err != nil {
		t.Fatalf("delete meal: %v", err)
	}
	if _, err := svc.Get(context.Background(), "user-a", meal.ID); !errors.Is(err, ErrMealNotFound) {
		t.Fatalf("expected ErrMealNotFound after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), "user-a", meal.ID); !errors.Is(err, ErrMealNotFound) {
		t.Fatalf("expected ErrMealNotFound for repeated delete, got %v", err)
	}
}

func TestMealServiceMetricsStreak(t *testing.T) {
	repo := newMockMealRepo()
	svc := NewMealService(zap.NewNop(), repo)

	// Timestamps ascendentes con onDiet [true, true, false]; el scan en orden
	// descendente ve [false, true, true].
	base := time.Date(2024, 12, 20, 18, 45, 0, 0, time.UTC)
	seedMeal(t, svc, "user-a", "Panqueca proteica", base, true)
	seedMeal(t, svc, "user-a", "Salada", base.Add(5*time.Minute), true)
	seedMeal(t, svc, "user-a", "X Burguer", base.Add(10*time.Minute), false)

	metrics, err := svc.Metrics(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if metrics.TotalMeals != 3 {
		t.Fatalf("expected totalMeals 3, got %d", metrics.TotalMeals)
	}
	if metrics.MealsOnDiet != 2 {
		t.Fatalf("expected mealsOnDiet 2, got %d", metrics.MealsOnDiet)
	}
	if metrics.MealsOffDiet != 1 {
		t.Fatalf("expected mealsOffDiet 1, got %d", metrics.MealsOffDiet)
	}
	if metrics.BestStreak != 2 {
		t.Fatalf("expected bestStreak 2, got %d", metrics.BestStreak)
	}
}

func TestMealServiceMetricsStreakResetsOnOffDiet(t *testing.T) {
	repo := newMockMealRepo()
	svc := NewMealService(zap.NewNop(), repo)

	// Scan descendente: [true, false, true, true, true] -> mejor racha 3.
	base := time.Date(2024, 12, 20, 8, 0, 0, 0, time.UTC)
	onDiet := []bool{true, true, true, false, true}
	for i, flag := range onDiet {
		seedMeal(t, svc, "user-a", "Refeicao", base.Add(time.Duration(i)*time.Hour), flag)
	}

	metrics, err := svc.Metrics(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if metrics.BestStreak != 3 {
		t.Fatalf("expected bestStreak 3, got %d", metrics.BestStreak)
	}
	if metrics.MealsOnDiet != 4 || metrics.MealsOffDiet != 1 {
		t.Fatalf("expected 4 on / 1 off, got %d / %d", metrics.MealsOnDiet, metrics.MealsOffDiet)
	}
}

func TestMealServiceMetricsEmpty(t *testing.T) {
	repo := newMockMealRepo()
	svc := NewMealService(zap.NewNop(), repo)

	metrics, err := svc.Metrics(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if metrics.TotalMeals != 0 || metrics.MealsOnDiet != 0 || metrics.MealsOffDiet != 0 || metrics.BestStreak != 0 {
		t.Fatalf("expected zeroed metrics, got %+v", metrics)
	}
}

func TestMealServiceMetricsIgnoresOtherOwners(t *testing.T) {
	repo := newMockMealRepo()
	svc := NewMealService(zap.NewNop(), repo)

	base := time.Date(2024, 12, 20, 8, 0, 0, 0, time.UTC)
	seedMeal(t, svc, "user-a", "Salada", base, true)
	seedMeal(t, svc, "user-b", "Pizza", base.Add(time.Hour), false)

	metrics, err := svc.Metrics(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if metrics.TotalMeals != 1 || metrics.MealsOffDiet != 0 {
		t.Fatalf("expected metrics over user-a meals only, got %+v", metrics)
	}
}
