package models

// Intent is the classified user goal driving which dispatch branch executes.
// The set is closed: the dispatcher switches exhaustively over these values and
// anything the registry or the LLM returns outside of them collapses to
// IntentNone.
type Intent string

const (
	IntentNone              Intent = ""
	IntentProgressCheck     Intent = "progress_check"
	IntentRecommendation    Intent = "recommendation"
	IntentWorkoutSuggestion Intent = "workout_suggestion"
	IntentMealSuggestion    Intent = "meal_suggestion"
	IntentAddMeal           Intent = "add_meal"
	IntentFoodLookup        Intent = "food_lookup"
	IntentMealHistory       Intent = "meal_history"
	IntentPlanOverview      Intent = "plan_overview"
	IntentDailySummary      Intent = "daily_summary"
	IntentGeneralHealth     Intent = "general_health"
)

// String returns the registry tag form of the intent.
func (i Intent) String() string { return string(i) }

// ParseIntent maps a raw tag to an Intent, restricted to the provided valid
// set. Tags are matched case-sensitively; anything unknown yields IntentNone.
func ParseIntent(tag string, valid []string) Intent {
	for _, v := range valid {
		if tag == v {
			return Intent(tag)
		}
	}
	return IntentNone
}
