package models

import "time"

// ChatMessage is one turn of a conversation. The log is append-only: the user
// message is persisted before classification starts, the assistant reply after
// the pipeline finishes (or doesn't).
type ChatMessage struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"is_user"`
	CreatedAt time.Time `json:"created_at"`
}

// IntentRecord is one row of the intent registry: an opaque tag, a human
// description and an optional parametrized query template executed for
// database-backed intents.
type IntentRecord struct {
	Tag           string `json:"intent"`
	Description   string `json:"description"`
	QueryTemplate string `json:"query_template"`
}

// ClassificationResult pairs the detected intent with whatever entities the
// per-intent extractors pulled out of the canonical text.
type ClassificationResult struct {
	Intent   Intent            `json:"intent"`
	Entities map[string]string `json:"entities,omitempty"`
}

// MealItem is a single logged food with quantity, as parsed from a message
// like "2 qua trung, 1 bat com".
type MealItem struct {
	Name     string `json:"food_name"`
	Quantity int    `json:"quantity"`
}

// ProgressEntry mirrors one row returned by the progress service.
type ProgressEntry struct {
	Date        string   `json:"date"`
	Weight      float64  `json:"weight"`
	BMI         *float64 `json:"bmi,omitempty"`
	BodyFatPct  *float64 `json:"body_fat_pct,omitempty"`
	CaloriesIn  int      `json:"calories_in"`
	CaloriesOut int      `json:"calories_out"`
}

// MealHistoryEntry mirrors one saved meal returned by the foods service.
type MealHistoryEntry struct {
	Date          string   `json:"date"`
	MealType      string   `json:"meal_type"`
	TotalCalories float64  `json:"total_calories"`
	Foods         []string `json:"foods"`
}
