package models

// Level is a derived skill tier used to parametrize workout intensity. It is
// computed from 30-day history, never stored.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// UserProfile carries the goal and body metrics the recommendation engine
// personalizes against.
type UserProfile struct {
	UserID int64   `json:"user_id"`
	Goal   string  `json:"goal"`
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`
	Gender string  `json:"gender"`
	Age    int     `json:"age"`
}

// WorkoutStats summarizes the last 30 days of training.
type WorkoutStats struct {
	SessionCount      int      `json:"session_count"`
	ActiveDays        int      `json:"active_days"`
	FavoriteBodyParts []string `json:"favorite_body_parts"`
	ConsistencyRate   float64  `json:"consistency_rate"`
}

// FoodPreference is one row of the 30-day meal frequency analysis.
type FoodPreference struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Frequency int    `json:"frequency"`
}

// Exercise is a catalog row.
type Exercise struct {
	ID               int64  `json:"exercise_id"`
	Name             string `json:"name"`
	BodyPart         string `json:"body_part"`
	Equipment        string `json:"equipment"`
	Target           string `json:"target"`
	SecondaryMuscles string `json:"secondary_muscles"`
	VideoURL         string `json:"video_url"`
}

// Intensity is the set/rep/duration prescription for a level.
type Intensity struct {
	Sets     int `json:"sets"`
	Reps     int `json:"reps"`
	Duration int `json:"duration"`
}

// RecommendedExercise is an exercise with its transient relevance score and
// the intensity merged on for the user's level. Scores are computed per
// request and never persisted.
type RecommendedExercise struct {
	Exercise
	Intensity
	Score float64 `json:"relevance_score"`
}

// Food is a catalog row with macro values per 100g and a goal tag ("all"
// means universal).
type Food struct {
	ID       int64   `json:"food_id"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Category string  `json:"category"`
	Goal     string  `json:"goal"`
}

// RecommendedFood is a food with its transient preference score.
type RecommendedFood struct {
	Food
	Score float64 `json:"preference_score"`
}

// PlannedMeal assigns a recommended food to a meal slot of a day.
type PlannedMeal struct {
	MealType string          `json:"meal_type"`
	Food     RecommendedFood `json:"food"`
}

// DayPlan is one day of the weekly schedule: a body-part focus (or "rest"),
// at most two workouts and the planned meal slots.
type DayPlan struct {
	Day      string                `json:"day"`
	Focus    string                `json:"focus"`
	Workouts []RecommendedExercise `json:"workouts"`
	Meals    []PlannedMeal         `json:"meals"`
}

// WeeklyPlan is the ordered 7-day schedule, built fresh on every call.
type WeeklyPlan struct {
	Days []DayPlan `json:"days"`
}
