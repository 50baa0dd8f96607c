// Package classifier detects what the user wants from the canonical form of
// their message: an ordered, first-match-wins rule cascade over keyword sets,
// with a generative fallback constrained to the intent registry.
package classifier

import (
	"context"
	"strings"

	"github.com/tranvd/gymlife-assistant/internal/models"
)

// Classifier resolves canonical text to an intent. IntentNone is a valid
// terminal result, not an error.
type Classifier interface {
	Classify(ctx context.Context, canonicalText string, validIntents []string) models.Intent
}

// Rule is one entry of the cascade: the intent fires when any keyword is
// contained in the canonical text and none of the exclude sets match. The
// exclude sets express precedence exceptions (food_lookup must not also look
// like a meal/progress/workout/recommendation message) without reordering the
// cascade.
type Rule struct {
	Intent   models.Intent
	Keywords []string
	Excludes [][]string
}

// Matches reports whether the rule fires for the canonical text.
func (r Rule) Matches(text string) bool {
	if !containsAny(text, r.Keywords) {
		return false
	}
	for _, exclude := range r.Excludes {
		if containsAny(text, exclude) {
			return false
		}
	}
	return true
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Keyword sets are ASCII-folded, matching the canonical text produced by
// textnorm. Order within a set does not matter; order of the cascade does.
var (
	progressKeywords = []string{
		"tien do", "progress", "giam can", "tang can", "trong thang", "trong tuan",
		"tap luyen", "ket qua", "theo doi", "can nang", "body fat", "bodyfat",
		"xem tien do", "bao nhieu can", "chi so hien", "so do", "vong bung",
		"mo co the", "phan tram mo", "thanh tich",
	}
	recommendationKeywords = []string{
		"recommend", "recommendation", "de xuat", "ca nhan hoa", "ke hoach tuan",
		"weekly plan", "tip nhanh", "quick tip", "goi y ca nhan", "goi y an",
	}
	workoutKeywords = []string{
		"bai tap", "workout", "tap luyen", "nhom co", "co bung", "co nguc",
		"co tay", "co chan", "tap cho", "exercise", "tap", "bung", "tay",
		"chan", "nguc", "lung", "vai", "mong", "dui", "bap tay", "bap chan",
		"goi y tap", "nen tap gi", "exercise for", "workout cho", "tap co",
		"phat trien co", "tang co", "giam mo",
	}
	mealKeywords = []string{
		"thuc pham", "an gi", "meal", "mon an", "bua an", "thuc an",
		"do an", "bua sang", "bua trua", "bua toi", "suggest",
		"nen an", "thuc don", "menu", "mon healthy",
	}
	addMealKeywords = []string{
		"toi vua an", "ghi lai", "luu bua an", "da an", "vua an", "ate",
		"moi an", "them bua an", "log meal", "log food", "an xong",
		"da dung bua", "vua dung bua", "an sang xong", "an trua xong", "an toi xong",
	}
	foodKeywords = []string{
		"calo", "kcal", "protein", "carb", "fat", "gram", "gam",
		"bao nhieu calo", "bao nhieu protein", "nutrition facts", "gia tri dinh duong",
	}
	historyKeywords = []string{
		"lich su an", "hom qua an", "bua truoc", "meal history", "da an gi",
		"history", "lich su", "hom qua", "hom kia", "tuan truoc",
		"thang truoc", "bua an da qua", "da an nhung gi", "meal log", "nhat ky an uong",
	}
	planKeywords = []string{
		"ke hoach", "plan", "tuan nay", "tuan toi", "lich tap", "lich an",
		"lich trinh", "schedule", "lich", "lich an uong", "plan for week",
	}
	dailyKeywords = []string{
		"hom nay", "tom tat", "summary", "in/out", "nap vao", "tieu hao",
		"today", "calories today", "daily summary",
	}
	healthKeywords = []string{
		"bmi", "bmr", "suc khoe", "tinh trang", "health", "chi so",
		"health status", "kiem tra suc khoe", "danh gia suc khoe",
		"body metrics", "health metrics", "tinh bmi", "tinh bmr",
	}
)

// cascade is evaluated top to bottom: narrow intents first, broad catch-alls
// last, because the keyword sets overlap (a message with both a body part and
// a food word resolves to workout, not food).
var cascade = []Rule{
	{Intent: models.IntentProgressCheck, Keywords: progressKeywords},
	{Intent: models.IntentRecommendation, Keywords: recommendationKeywords},
	{Intent: models.IntentWorkoutSuggestion, Keywords: workoutKeywords},
	{Intent: models.IntentMealSuggestion, Keywords: mealKeywords},
	{Intent: models.IntentAddMeal, Keywords: addMealKeywords},
	{
		Intent:   models.IntentFoodLookup,
		Keywords: foodKeywords,
		// The exception list is deliberately narrower than the full cascade:
		// history/plan/daily/health hits do not veto a food lookup.
		Excludes: [][]string{
			mealKeywords, addMealKeywords, progressKeywords,
			workoutKeywords, recommendationKeywords,
		},
	},
	{Intent: models.IntentMealHistory, Keywords: historyKeywords},
	{Intent: models.IntentPlanOverview, Keywords: planKeywords},
	{Intent: models.IntentDailySummary, Keywords: dailyKeywords},
	{Intent: models.IntentGeneralHealth, Keywords: healthKeywords},
}

// Cascade exposes the rule order so tests can enumerate it directly.
func Cascade() []Rule { return cascade }

// RuleClassifier is the deterministic branch of classification.
type RuleClassifier struct{}

// NewRuleClassifier builds the rule-based classifier.
func NewRuleClassifier() *RuleClassifier { return &RuleClassifier{} }

// Classify walks the cascade and returns the first matching intent, or
// IntentNone when nothing fires.
func (c *RuleClassifier) Classify(_ context.Context, canonicalText string, _ []string) models.Intent {
	text := strings.TrimSpace(canonicalText)
	for _, rule := range cascade {
		if rule.Matches(text) {
			return rule.Intent
		}
	}
	return models.IntentNone
}
