package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/tranvd/gymlife-assistant/internal/auth"
	"github.com/tranvd/gymlife-assistant/internal/models"
	"github.com/tranvd/gymlife-assistant/internal/recommend"
)

const (
	workoutListLimit    = 5
	mealListLimit       = 5
	planWorkoutCapacity = 10
	planMealCapacity    = 15
)

// recommendationBase is the personalization context every recommendation
// endpoint starts from.
type recommendationBase struct {
	userID int64
	goal   string
	level  models.Level
	stats  models.WorkoutStats
}

// loadBase fetches profile and 30-day stats. A false return means the
// response has already been written.
func (h *Handler) loadBase(w http.ResponseWriter, r *http.Request) (recommendationBase, bool) {
	var base recommendationBase

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return base, false
	}
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return base, false
	}

	profile, err := h.store.UserProfile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return base, false
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "not_found", "no profile for user")
		return base, false
	}

	stats, err := h.store.WorkoutStats(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return base, false
	}

	base.userID = claims.UserID
	base.goal = recommend.NormalizeGoal(profile.Goal)
	base.level = recommend.DeriveLevel(stats.SessionCount, stats.ConsistencyRate)
	base.stats = stats
	return base, true
}

// WorkoutsResponse is the GET /api/recommendations/workouts reply.
type WorkoutsResponse struct {
	UserLevel string                       `json:"user_level"`
	Goal      string                       `json:"goal"`
	Workouts  []models.RecommendedExercise `json:"recommended_workouts"`
	Stats     models.WorkoutStats          `json:"stats"`
}

func (h *Handler) recommendWorkouts(w http.ResponseWriter, r *http.Request) {
	base, ok := h.loadBase(w, r)
	if !ok {
		return
	}

	workouts, err := h.scoreWorkouts(r, base, workoutListLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, WorkoutsResponse{
		UserLevel: string(base.level),
		Goal:      base.goal,
		Workouts:  workouts,
		Stats:     base.stats,
	})
}

// MealsResponse is the GET /api/recommendations/meals reply.
type MealsResponse struct {
	Goal                string                   `json:"goal"`
	Meals               []models.RecommendedFood `json:"recommended_meals"`
	PreferencesAnalyzed bool                     `json:"preferences_analyzed"`
}

func (h *Handler) recommendMeals(w http.ResponseWriter, r *http.Request) {
	base, ok := h.loadBase(w, r)
	if !ok {
		return
	}

	meals, analyzed, err := h.scoreMeals(r, base, mealListLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, MealsResponse{
		Goal:                base.goal,
		Meals:               meals,
		PreferencesAnalyzed: analyzed,
	})
}

// WeeklyPlanResponse is the GET /api/recommendations/weekly-plan reply.
type WeeklyPlanResponse struct {
	UserLevel  string            `json:"user_level"`
	Goal       string            `json:"goal"`
	WeeklyPlan models.WeeklyPlan `json:"weekly_plan"`
}

func (h *Handler) recommendWeeklyPlan(w http.ResponseWriter, r *http.Request) {
	base, ok := h.loadBase(w, r)
	if !ok {
		return
	}

	workouts, err := h.scoreWorkouts(r, base, planWorkoutCapacity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	meals, _, err := h.scoreMeals(r, base, planMealCapacity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, WeeklyPlanResponse{
		UserLevel:  string(base.level),
		Goal:       base.goal,
		WeeklyPlan: recommend.BuildWeeklyPlan(workouts, meals),
	})
}

// QuickTipResponse is the GET /api/recommendations/quick-tip reply.
type QuickTipResponse struct {
	Tips            []string `json:"tips"`
	ConsistencyRate float64  `json:"consistency_rate"`
	ActiveDays      int      `json:"active_days"`
}

func (h *Handler) recommendQuickTip(w http.ResponseWriter, r *http.Request) {
	base, ok := h.loadBase(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, QuickTipResponse{
		Tips:            recommend.QuickTips(base.goal, base.stats),
		ConsistencyRate: base.stats.ConsistencyRate,
		ActiveDays:      base.stats.ActiveDays,
	})
}

func (h *Handler) scoreWorkouts(r *http.Request, base recommendationBase, limit int) ([]models.RecommendedExercise, error) {
	favorites := recommend.FavoriteOrDefault(base.stats.FavoriteBodyParts)
	candidates, err := h.store.ListExercises(r.Context(), favorites, favorites[0])
	if err != nil {
		h.logger.Error("Listing exercises failed", zap.Error(err))
		return nil, err
	}
	return recommend.ScoreWorkouts(candidates, base.stats.FavoriteBodyParts, base.level, limit), nil
}

func (h *Handler) scoreMeals(r *http.Request, base recommendationBase, limit int) ([]models.RecommendedFood, bool, error) {
	preferences, err := h.store.MealPreferences(r.Context(), base.userID)
	if err != nil {
		h.logger.Error("Reading meal preferences failed", zap.Error(err))
		return nil, false, err
	}
	candidates, err := h.store.FoodsForGoal(r.Context(), base.goal)
	if err != nil {
		h.logger.Error("Listing foods failed", zap.Error(err))
		return nil, false, err
	}
	return recommend.ScoreMeals(candidates, preferences, limit), len(preferences) > 0, nil
}
