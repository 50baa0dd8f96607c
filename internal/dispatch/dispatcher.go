// Package dispatch turns a classified chat turn into a reply. Each intent gets
// one branch and each branch is an independent failure domain: a collaborator
// being down degrades that one answer, never the turn. Any branch that ends
// with no text hands the raw message to the generative fallback.
package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tranvd/gymlife-assistant/internal/clients"
	"github.com/tranvd/gymlife-assistant/internal/extract"
	"github.com/tranvd/gymlife-assistant/internal/format"
	"github.com/tranvd/gymlife-assistant/internal/llm"
	"github.com/tranvd/gymlife-assistant/internal/models"
	"github.com/tranvd/gymlife-assistant/internal/observability"
	"github.com/tranvd/gymlife-assistant/internal/storage"
)

// ProgressService is the slice of the progress client the dispatcher needs.
type ProgressService interface {
	Progress(ctx context.Context, bearer string) ([]models.ProgressEntry, error)
}

// FoodsService is the slice of the foods client the dispatcher needs.
type FoodsService interface {
	Search(ctx context.Context, bearer, query string, limit int) ([]models.Food, error)
	List(ctx context.Context, bearer string, limit int) ([]models.Food, error)
	AddMeal(ctx context.Context, bearer string, meal clients.MealLog) error
	History(ctx context.Context, bearer string) ([]models.MealHistoryEntry, error)
}

// RecommendService is the slice of the recommendation client the dispatcher
// needs.
type RecommendService interface {
	Workouts(ctx context.Context, bearer string) (*clients.WorkoutsResponse, error)
	Meals(ctx context.Context, bearer string) (*clients.MealsResponse, error)
	WeeklyPlan(ctx context.Context, bearer string) (*clients.WeeklyPlanResponse, error)
	QuickTip(ctx context.Context, bearer string) (*clients.QuickTipResponse, error)
}

// ChatBackend is the generative call used by the fallback branch.
type ChatBackend interface {
	Chat(ctx context.Context, messages []llm.Message, temperature float32, policy llm.RetryPolicy) (string, error)
}

// Turn is one classified inbound message.
type Turn struct {
	UserID    int64
	Bearer    string
	Raw       string
	Canonical string
	Intent    models.Intent
}

const coachPersona = "Bạn là huấn luyện viên GymLife thân thiện. " +
	"Trả lời ngắn gọn bằng tiếng Việt về tập luyện, dinh dưỡng và sức khỏe."

// Dispatcher routes a turn to its intent branch.
type Dispatcher struct {
	store     storage.Storage
	progress  ProgressService
	foods     FoodsService
	recommend RecommendService
	backend   ChatBackend
	logger    *zap.Logger

	fallbackTemperature float32
	fallbackPolicy      llm.RetryPolicy
}

// New builds a dispatcher with the default fallback policy: temperature 0.4,
// two attempts three seconds apart.
func New(store storage.Storage, progress ProgressService, foods FoodsService, recommend RecommendService, backend ChatBackend, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:               store,
		progress:            progress,
		foods:               foods,
		recommend:           recommend,
		backend:             backend,
		logger:              logger,
		fallbackTemperature: 0.4,
		fallbackPolicy:      llm.RetryPolicy{MaxAttempts: 2, Delay: 3 * time.Second},
	}
}

// SetFallback overrides the generative fallback temperature and retry policy.
func (d *Dispatcher) SetFallback(temperature float32, policy llm.RetryPolicy) {
	d.fallbackTemperature = temperature
	if policy.MaxAttempts > 0 {
		d.fallbackPolicy = policy
	}
}

// Respond produces the reply text for a turn. It always returns something: an
// intent branch answer, a canned degradation line, or the fallback output.
func (d *Dispatcher) Respond(ctx context.Context, turn Turn) string {
	if text := d.dispatch(ctx, turn); text != "" {
		return text
	}
	return d.fallback(ctx, turn.Raw)
}

func (d *Dispatcher) dispatch(ctx context.Context, turn Turn) string {
	switch turn.Intent {
	case models.IntentProgressCheck:
		return d.progressCheck(ctx, turn)
	case models.IntentFoodLookup:
		return d.foodLookup(ctx, turn)
	case models.IntentMealSuggestion:
		return d.mealSuggestion(ctx, turn)
	case models.IntentMealHistory:
		return d.mealHistory(ctx, turn)
	case models.IntentAddMeal:
		return d.addMeal(ctx, turn)
	case models.IntentRecommendation:
		return d.recommendation(ctx, turn)
	case models.IntentWorkoutSuggestion:
		return d.workoutSuggestion(ctx, turn)
	case models.IntentPlanOverview, models.IntentDailySummary, models.IntentGeneralHealth:
		return d.templateIntent(ctx, turn.Intent, turn.UserID)
	default:
		return ""
	}
}

func (d *Dispatcher) progressCheck(ctx context.Context, turn Turn) string {
	entries, err := d.progress.Progress(ctx, turn.Bearer)
	if err != nil {
		d.logger.Error("Progress service call failed", zap.Error(err))
		return format.MsgProgressDown
	}
	text, _ := format.Progress(entries)
	return text
}

func (d *Dispatcher) foodLookup(ctx context.Context, turn Turn) string {
	name, grams := extract.FoodAndGrams(turn.Canonical)
	if name == "" {
		return ""
	}

	foods, err := d.foods.Search(ctx, turn.Bearer, name, 5)
	if err != nil {
		d.logger.Error("Foods search failed", zap.Error(err))
		return format.MsgFoodsDown
	}
	if len(foods) == 0 {
		return format.MsgFoodNotFound
	}

	// Best name-containment match wins; the first row is the tie-breaker.
	best := foods[0]
	for _, f := range foods {
		candidate := strings.ToLower(f.Name)
		if strings.Contains(candidate, name) || strings.Contains(name, candidate) {
			best = f
			break
		}
	}
	return format.FoodLookup(best, grams)
}

func (d *Dispatcher) mealSuggestion(ctx context.Context, turn Turn) string {
	goal := extract.Goal(turn.Canonical)

	catalog, err := d.foods.List(ctx, turn.Bearer, 20)
	if err != nil {
		d.logger.Error("Foods list failed", zap.Error(err))
		return format.MsgFoodsDown
	}

	var picked []models.Food
	for _, f := range catalog {
		if f.Goal == "all" || strings.Contains(f.Goal, goal) {
			picked = append(picked, f)
		}
		if len(picked) == 3 {
			break
		}
	}
	text, _ := format.MealSuggestion(goal, picked)
	return text
}

func (d *Dispatcher) mealHistory(ctx context.Context, turn Turn) string {
	entries, err := d.foods.History(ctx, turn.Bearer)
	if err != nil {
		d.logger.Error("Meal history call failed", zap.Error(err))
		return format.MsgMealHistoryDown
	}
	text, _ := format.MealHistory(entries)
	return text
}

func (d *Dispatcher) addMeal(ctx context.Context, turn Turn) string {
	items := extract.MealItems(turn.Canonical)
	if len(items) == 0 {
		return format.MsgMealNotRecognized
	}

	meal := clients.MealLog{
		Date:     time.Now().Format("2006-01-02"),
		MealType: "other",
		Items:    items,
	}
	if err := d.foods.AddMeal(ctx, turn.Bearer, meal); err != nil {
		d.logger.Error("Saving meal failed", zap.Error(err))
		return format.MsgMealSaveFailed
	}
	return format.MsgMealSaved
}

func (d *Dispatcher) recommendation(ctx context.Context, turn Turn) string {
	switch recommendationHint(turn.Canonical) {
	case "weekly-plan":
		resp, err := d.recommend.WeeklyPlan(ctx, turn.Bearer)
		if err != nil {
			return d.recommendFailure(err)
		}
		text, _ := format.WeeklyPlanReply(resp.Goal, resp.UserLevel, resp.WeeklyPlan)
		return text
	case "quick-tip":
		resp, err := d.recommend.QuickTip(ctx, turn.Bearer)
		if err != nil {
			return d.recommendFailure(err)
		}
		text, _ := format.QuickTipsReply(resp.Tips)
		return text
	case "meals":
		resp, err := d.recommend.Meals(ctx, turn.Bearer)
		if err != nil {
			return d.recommendFailure(err)
		}
		text, _ := format.RecommendedMeals(resp.Goal, resp.Meals)
		return text
	default:
		resp, err := d.recommend.Workouts(ctx, turn.Bearer)
		if err != nil {
			return d.recommendFailure(err)
		}
		text, _ := format.RecommendedWorkouts(resp.Goal, resp.UserLevel, resp.Workouts)
		return text
	}
}

func (d *Dispatcher) recommendFailure(err error) string {
	if errors.Is(err, clients.ErrNotFound) {
		return format.MsgRecommendNoData
	}
	d.logger.Error("Recommendation service call failed", zap.Error(err))
	return format.MsgRecommendDown
}

// workoutSuggestion is two-tier: an extracted muscle group runs the registry
// template for that group, otherwise the popular-exercises query answers. An
// extracted group whose query yields nothing falls through to the generative
// fallback rather than the popular list.
func (d *Dispatcher) workoutSuggestion(ctx context.Context, turn Turn) string {
	if group, ok := extract.MuscleGroup(turn.Canonical); ok {
		template := d.intentTemplate(ctx, models.IntentWorkoutSuggestion)
		if template == "" {
			return ""
		}
		rows, err := d.store.RunIntentTemplate(ctx, template, group)
		if err != nil {
			d.logger.Error("Workout template query failed", zap.Error(err))
			return format.QueryFailed(models.IntentWorkoutSuggestion, err)
		}
		text, _ := format.WorkoutList(group, firstColumn(rows))
		return text
	}

	names, err := d.store.PopularExercises(ctx, 5)
	if err != nil {
		d.logger.Error("Popular exercises query failed", zap.Error(err))
		return format.QueryFailed(models.IntentWorkoutSuggestion, err)
	}
	text, _ := format.PopularWorkouts(names)
	return text
}

func (d *Dispatcher) templateIntent(ctx context.Context, intent models.Intent, userID int64) string {
	template := d.intentTemplate(ctx, intent)
	if template == "" {
		return ""
	}

	rows, err := d.store.RunIntentTemplate(ctx, template, userID)
	if err != nil {
		d.logger.Error("Intent template query failed",
			zap.String("intent", intent.String()), zap.Error(err))
		return format.QueryFailed(intent, err)
	}
	text, _ := format.TemplateRows(intent, rows)
	return text
}

func (d *Dispatcher) intentTemplate(ctx context.Context, intent models.Intent) string {
	records, err := d.store.ListIntents(ctx)
	if err != nil {
		d.logger.Error("Reading intent registry failed", zap.Error(err))
		return ""
	}
	for _, rec := range records {
		if rec.Tag == intent.String() {
			return rec.QueryTemplate
		}
	}
	return ""
}

func (d *Dispatcher) fallback(ctx context.Context, raw string) string {
	observability.RecordFallbackAttempt()

	reply, err := d.backend.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: coachPersona},
		{Role: llm.RoleUser, Content: raw},
	}, d.fallbackTemperature, d.fallbackPolicy)
	if err != nil || strings.TrimSpace(reply) == "" {
		observability.RecordFallbackFailure()
		d.logger.Error("Generative fallback exhausted", zap.Error(err))
		return format.MsgAIUnavailable
	}
	return strings.TrimSpace(reply)
}

// recommendationHint picks the recommendation sub-endpoint from canonical
// text. "an" is matched as a whole word so it doesn't fire inside other words.
func recommendationHint(canonical string) string {
	switch {
	case strings.Contains(canonical, "tuan"):
		return "weekly-plan"
	case strings.Contains(canonical, "tip"), strings.Contains(canonical, "meo"):
		return "quick-tip"
	case containsWord(canonical, "an"), strings.Contains(canonical, "meal"):
		return "meals"
	default:
		return "workouts"
	}
}

func containsWord(text, word string) bool {
	for _, w := range strings.Fields(text) {
		if w == word {
			return true
		}
	}
	return false
}

func firstColumn(rows [][]string) []string {
	var out []string
	for _, row := range rows {
		if len(row) > 0 {
			out = append(out, row[0])
		}
	}
	return out
}
