package domain

import "time"

// Meal representa una comida registrada por un usuario. El dueño se fija al
// crear y nunca cambia.
type Meal struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	DateTime    time.Time  `json:"dateTime"`
	OnDiet      bool       `json:"onDiet"`
	UserID      string     `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
