package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tranvd/gymlife-assistant/internal/models"
)

func TestMuscleGroupDirectHit(t *testing.T) {
	cases := map[string]string{
		"bai tap cho bung":      "abdominals",
		"tap bap tay the nao":   "arms",
		"bai tap chan":          "legs",
		"dau lung khi tap":      "back",
		"phat trien nguc":       "chest",
		"bai tap vai":           "shoulders",
		"tap mong hieu qua":     "glutes",
	}
	for text, want := range cases {
		got, ok := MuscleGroup(text)
		require.True(t, ok, "text %q", text)
		require.Equal(t, want, got)
	}
}

func TestMuscleGroupPhraseFallback(t *testing.T) {
	got, ok := MuscleGroup("goi y cho nhom co abs")
	require.True(t, ok)
	require.Equal(t, "abdominals", got)
}

func TestMuscleGroupMultipleMentionsIsStable(t *testing.T) {
	// "tay" outranks "chan" in the keyword priority order; a message naming
	// both must extract the same group on every call.
	for i := 0; i < 200; i++ {
		got, ok := MuscleGroup("tap tay va chan hom nay")
		require.True(t, ok)
		require.Equal(t, "arms", got)
	}
}

func TestMuscleGroupNoMatch(t *testing.T) {
	_, ok := MuscleGroup("toi muon khoe hon")
	require.False(t, ok)
}

func TestFoodAndGrams(t *testing.T) {
	name, grams := FoodAndGrams("150g ga")
	require.Equal(t, "ga", name)
	require.Equal(t, 150, grams)
}

func TestFoodAndGramsDefaultsTo100(t *testing.T) {
	name, grams := FoodAndGrams("com trang bao nhieu kcal")
	require.Equal(t, 100, grams)
	require.Equal(t, "com trang bao nhieu", name)
}

func TestFoodAndGramsStripsCalorieFiller(t *testing.T) {
	name, grams := FoodAndGrams("200g uc ga calo")
	require.Equal(t, "uc ga", name)
	require.Equal(t, 200, grams)
}

func TestMealItemsMultiItem(t *testing.T) {
	items := MealItems("2 qua trung, 1 bat com")
	require.Equal(t, []models.MealItem{
		{Name: "qua trung", Quantity: 2},
		{Name: "bat com", Quantity: 1},
	}, items)
}

func TestMealItemsGramUnitDropped(t *testing.T) {
	items := MealItems("100g thit bo va 1 ly sua")
	require.Equal(t, []models.MealItem{
		{Name: "thit bo", Quantity: 100},
		{Name: "ly sua", Quantity: 1},
	}, items)
}

func TestMealItemsDegradesToWholeSegment(t *testing.T) {
	items := MealItems("pho bo tai")
	require.Equal(t, []models.MealItem{{Name: "pho bo tai", Quantity: 1}}, items)
}

func TestMealItemsSkipsEmptySegments(t *testing.T) {
	items := MealItems(" , 2 qua chuoi, ")
	require.Equal(t, []models.MealItem{{Name: "qua chuoi", Quantity: 2}}, items)
}

func TestGoal(t *testing.T) {
	require.Equal(t, "tăng cơ", Goal("toi muon tang co"))
	require.Equal(t, "giảm cân", Goal("an gi de giam can"))
	require.Equal(t, "duy trì", Goal("an gi hom nay"))
}

func TestEntitiesPerIntent(t *testing.T) {
	entities := Entities(models.IntentWorkoutSuggestion, "bai tap cho nhom co nguc")
	require.Equal(t, map[string]string{"muscle_group": "chest"}, entities)

	entities = Entities(models.IntentFoodLookup, "150g ga")
	require.Equal(t, map[string]string{"food_name": "ga", "grams": "150"}, entities)

	entities = Entities(models.IntentAddMeal, "2 qua trung, 1 bat com")
	require.Equal(t, map[string]string{"item_count": "2"}, entities)

	require.Empty(t, Entities(models.IntentProgressCheck, "tien do cua toi"))
}
