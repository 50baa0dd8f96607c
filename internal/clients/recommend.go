package clients

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tranvd/gymlife-assistant/internal/models"
)

// RecommendClient fetches personalized recommendations. The endpoints are
// hosted by this repo as well, but the dispatcher still goes through HTTP so
// the recommendation engine stays an independent failure domain.
type RecommendClient struct {
	baseURL string
	client  *http.Client
}

// NewRecommendClient builds a client for the service at baseURL.
func NewRecommendClient(baseURL string) *RecommendClient {
	return &RecommendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// WorkoutsResponse mirrors GET /recommendations/workouts.
type WorkoutsResponse struct {
	UserLevel string                       `json:"user_level"`
	Goal      string                       `json:"goal"`
	Workouts  []models.RecommendedExercise `json:"recommended_workouts"`
	Stats     models.WorkoutStats          `json:"stats"`
}

// MealsResponse mirrors GET /recommendations/meals.
type MealsResponse struct {
	Goal                string                   `json:"goal"`
	Meals               []models.RecommendedFood `json:"recommended_meals"`
	PreferencesAnalyzed bool                     `json:"preferences_analyzed"`
}

// WeeklyPlanResponse mirrors GET /recommendations/weekly-plan.
type WeeklyPlanResponse struct {
	UserLevel  string            `json:"user_level"`
	Goal       string            `json:"goal"`
	WeeklyPlan models.WeeklyPlan `json:"weekly_plan"`
}

// QuickTipResponse mirrors GET /recommendations/quick-tip.
type QuickTipResponse struct {
	Tips            []string `json:"tips"`
	ConsistencyRate float64  `json:"consistency_rate"`
	ActiveDays      int      `json:"active_days"`
}

// Workouts returns the personalized workout list. ErrNotFound surfaces when
// the user has no profile or history to personalize against.
func (c *RecommendClient) Workouts(ctx context.Context, bearer string) (*WorkoutsResponse, error) {
	var out WorkoutsResponse
	if err := get(ctx, c.client, c.baseURL+"/recommendations/workouts", bearer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Meals returns the personalized meal list.
func (c *RecommendClient) Meals(ctx context.Context, bearer string) (*MealsResponse, error) {
	var out MealsResponse
	if err := get(ctx, c.client, c.baseURL+"/recommendations/meals", bearer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WeeklyPlan returns the assembled 7-day schedule.
func (c *RecommendClient) WeeklyPlan(ctx context.Context, bearer string) (*WeeklyPlanResponse, error) {
	var out WeeklyPlanResponse
	if err := get(ctx, c.client, c.baseURL+"/recommendations/weekly-plan", bearer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QuickTip returns short coaching tips from recent activity.
func (c *RecommendClient) QuickTip(ctx context.Context, bearer string) (*QuickTipResponse, error) {
	var out QuickTipResponse
	if err := get(ctx, c.client, c.baseURL+"/recommendations/quick-tip", bearer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
