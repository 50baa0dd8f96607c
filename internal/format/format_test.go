package format

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tranvd/gymlife-assistant/internal/models"
)

func TestProgressEmptyIsSentinel(t *testing.T) {
	text, ok := Progress(nil)
	require.False(t, ok)
	require.Equal(t, MsgNoProgress, text)
}

func TestProgressSortsNewestFirstAndCaps(t *testing.T) {
	bmi := 22.5
	entries := []models.ProgressEntry{
		{Date: "2026-08-01", Weight: 70},
		{Date: "2026-08-20", Weight: 68, BMI: &bmi, CaloriesIn: 1800, CaloriesOut: 2100},
		{Date: "2026-08-10", Weight: 69},
		{Date: "2026-08-05", Weight: 70},
		{Date: "2026-08-15", Weight: 68.5},
		{Date: "2026-08-18", Weight: 68.2},
	}
	text, ok := Progress(entries)
	require.True(t, ok)
	require.Contains(t, text, "TIẾN ĐỘ CỦA BẠN")
	require.Contains(t, text, "Hiển thị 5/6 bản ghi mới nhất")
	require.Contains(t, text, "BMI: 22.5")
	require.NotContains(t, text, "2026-08-01") // oldest entry dropped by the cap
	require.Less(t, strings.Index(text, "2026-08-20"), strings.Index(text, "2026-08-10"))
}

func TestFoodLookupScalesMacros(t *testing.T) {
	food := models.Food{Name: "ga", Calories: 200, Protein: 30, Carbs: 0, Fat: 8}
	text := FoodLookup(food, 150)
	require.Equal(t, "🍚 150g ga: 300.0 kcal | P:45.0g C:0.0g F:12.0g", text)
}

func TestMealHistoryLatest(t *testing.T) {
	text, ok := MealHistory([]models.MealHistoryEntry{
		{Date: "2026-08-29", MealType: "lunch", TotalCalories: 650, Foods: []string{"com", "ga"}},
		{Date: "2026-08-28", MealType: "dinner", TotalCalories: 500},
	})
	require.True(t, ok)
	require.Equal(t, "📅 2026-08-29 (lunch): 650 kcal với 2 món.", text)

	_, ok = MealHistory(nil)
	require.False(t, ok)
}

func TestWorkoutListSentinel(t *testing.T) {
	_, ok := WorkoutList("chest", nil)
	require.False(t, ok)

	text, ok := WorkoutList("chest", []string{"Bench Press", "Chest Fly"})
	require.True(t, ok)
	require.Equal(t, "💪 Gợi ý bài tập cho nhóm cơ chest: Bench Press, Chest Fly", text)
}

func TestTemplateRowsGeneralHealth(t *testing.T) {
	text, ok := TemplateRows(models.IntentGeneralHealth, [][]string{{"22.86", "1648"}})
	require.True(t, ok)
	require.Contains(t, text, "BMI: 22.86")
	require.Contains(t, text, "BMR: 1648 kcal/ngày")
}

func TestTemplateRowsDailySummaryBalance(t *testing.T) {
	text, ok := TemplateRows(models.IntentDailySummary, [][]string{{"2026-08-30", "1800", "2200"}})
	require.True(t, ok)
	require.Contains(t, text, "Nạp 1800 kcal")
	require.Contains(t, text, "Cân bằng: -400 kcal")
}

func TestTemplateRowsEmptyIsSentinel(t *testing.T) {
	for _, intent := range []models.Intent{
		models.IntentGeneralHealth, models.IntentDailySummary, models.IntentPlanOverview,
	} {
		_, ok := TemplateRows(intent, nil)
		require.False(t, ok, "intent %s", intent)
	}
}

func TestWeeklyPlanReply(t *testing.T) {
	plan := models.WeeklyPlan{Days: []models.DayPlan{
		{
			Day: "Thứ 2", Focus: "chest",
			Workouts: []models.RecommendedExercise{{Exercise: models.Exercise{Name: "Bench"}}},
			Meals: []models.PlannedMeal{
				{MealType: "breakfast", Food: models.RecommendedFood{Food: models.Food{Name: "pho"}}},
			},
		},
		{Day: "Chủ nhật", Focus: "rest"},
	}}
	text, ok := WeeklyPlanReply("tăng cơ", "beginner", plan)
	require.True(t, ok)
	require.Contains(t, text, "• Thứ 2 (chest): 🏋️ Bench | 🍽️ breakfast: pho")
	require.Contains(t, text, "• Chủ nhật (rest): 🏋️ Nghỉ | 🍽️ —")
}

func TestRecommendedWorkoutsCapAndIntensity(t *testing.T) {
	var workouts []models.RecommendedExercise
	for i := 0; i < 8; i++ {
		workouts = append(workouts, models.RecommendedExercise{
			Exercise:  models.Exercise{Name: "w", BodyPart: "chest"},
			Intensity: models.Intensity{Sets: 3, Reps: 10, Duration: 25},
		})
	}
	text, ok := RecommendedWorkouts("duy trì", "intermediate", workouts)
	require.True(t, ok)
	require.Equal(t, 6, strings.Count(text, "3x10"))
}

func TestQueryFailedNamesIntent(t *testing.T) {
	text := QueryFailed(models.IntentDailySummary, errors.New("relation missing"))
	require.Equal(t, "⚠️ Query failed (daily_summary): relation missing", text)
}
