package domain

// Metrics es un resumen derivado de las comidas de un usuario; nunca se
// persiste.
type Metrics struct {
	TotalMeals   int `json:"totalMeals"`
	MealsOnDiet  int `json:"mealsOnDiet"`
	MealsOffDiet int `json:"mealsOffDiet"`
	BestStreak   int `json:"bestStreak"`
}
