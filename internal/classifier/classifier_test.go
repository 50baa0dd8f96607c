package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tranvd/gymlife-assistant/internal/llm"
	"github.com/tranvd/gymlife-assistant/internal/models"
	"go.uber.org/zap"
)

var validIntents = []string{
	"progress_check", "recommendation", "workout_suggestion", "meal_suggestion",
	"add_meal", "food_lookup", "meal_history", "plan_overview", "daily_summary",
	"general_health",
}

func TestCascadeOrder(t *testing.T) {
	want := []models.Intent{
		models.IntentProgressCheck,
		models.IntentRecommendation,
		models.IntentWorkoutSuggestion,
		models.IntentMealSuggestion,
		models.IntentAddMeal,
		models.IntentFoodLookup,
		models.IntentMealHistory,
		models.IntentPlanOverview,
		models.IntentDailySummary,
		models.IntentGeneralHealth,
	}
	got := make([]models.Intent, 0, len(Cascade()))
	for _, rule := range Cascade() {
		got = append(got, rule.Intent)
	}
	require.Equal(t, want, got)
}

func TestProgressKeywordsAlwaysClassifyProgress(t *testing.T) {
	c := NewRuleClassifier()
	for _, text := range []string{
		"tien do cua toi",
		"xem tien do thang nay",
		"can nang cua toi the nao",
		"body fat cua toi",
		"thanh tich gan day",
	} {
		require.Equal(t, models.IntentProgressCheck, c.Classify(context.Background(), text, validIntents), "text %q", text)
	}
}

func TestWorkoutWinsOverFoodLookup(t *testing.T) {
	c := NewRuleClassifier()
	// Contains both a body-part keyword ("nguc") and a generic food keyword
	// ("protein") but no meal/add-meal/progress/recommendation keyword: the
	// negative-containment exception must keep this out of food_lookup.
	got := c.Classify(context.Background(), "nhom co nguc can protein", validIntents)
	require.Equal(t, models.IntentWorkoutSuggestion, got)
}

func TestFoodLookupFiresWhenNoSiblingMatches(t *testing.T) {
	c := NewRuleClassifier()
	got := c.Classify(context.Background(), "100g com bao nhieu calo", validIntents)
	require.Equal(t, models.IntentFoodLookup, got)
}

func TestFoodLookupExcludesAreFirstClass(t *testing.T) {
	var foodRule Rule
	for _, rule := range Cascade() {
		if rule.Intent == models.IntentFoodLookup {
			foodRule = rule
		}
	}
	// The exception list is the narrow one: five sibling sets, nothing more.
	require.Len(t, foodRule.Excludes, 5)
	require.False(t, foodRule.Matches("bua an nay bao nhieu calo"), "meal keyword must veto")
	require.True(t, foodRule.Matches("bao nhieu kcal"))
}

func TestNoRuleMatchYieldsNone(t *testing.T) {
	c := NewRuleClassifier()
	require.Equal(t, models.IntentNone, c.Classify(context.Background(), "xin chao", validIntents))
}

type stubBackend struct {
	reply string
	err   error
}

func (s *stubBackend) Chat(context.Context, []llm.Message, float32, llm.RetryPolicy) (string, error) {
	return s.reply, s.err
}

func TestLLMClassifierValidReply(t *testing.T) {
	c := NewLLMClassifier(&stubBackend{reply: " Daily_Summary \n"}, zap.NewNop())
	got := c.Classify(context.Background(), "xin chao", validIntents)
	require.Contains(t, validIntents, got.String())
	require.Equal(t, models.IntentDailySummary, got)
}

func TestLLMClassifierInvalidReplyIsNone(t *testing.T) {
	c := NewLLMClassifier(&stubBackend{reply: "order_pizza"}, zap.NewNop())
	require.Equal(t, models.IntentNone, c.Classify(context.Background(), "xin chao", validIntents))
}

func TestLLMClassifierErrorIsNone(t *testing.T) {
	c := NewLLMClassifier(&stubBackend{err: errors.New("connection refused")}, zap.NewNop())
	require.Equal(t, models.IntentNone, c.Classify(context.Background(), "xin chao", validIntents))
}

func TestHybridPrefersRules(t *testing.T) {
	hybrid := NewHybridClassifier(
		NewRuleClassifier(),
		NewLLMClassifier(&stubBackend{reply: "daily_summary"}, zap.NewNop()),
	)
	require.Equal(t, models.IntentProgressCheck,
		hybrid.Classify(context.Background(), "tien do cua toi", validIntents))
	require.Equal(t, models.IntentDailySummary,
		hybrid.Classify(context.Background(), "xin chao", validIntents))
}
