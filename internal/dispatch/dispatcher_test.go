package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tranvd/gymlife-assistant/internal/clients"
	"github.com/tranvd/gymlife-assistant/internal/format"
	"github.com/tranvd/gymlife-assistant/internal/llm"
	"github.com/tranvd/gymlife-assistant/internal/models"
	"github.com/tranvd/gymlife-assistant/internal/storage"
)

type stubProgress struct {
	entries []models.ProgressEntry
	err     error
}

func (s *stubProgress) Progress(context.Context, string) ([]models.ProgressEntry, error) {
	return s.entries, s.err
}

type stubFoods struct {
	searchFoods []models.Food
	listFoods   []models.Food
	history     []models.MealHistoryEntry
	err         error

	savedMeal *clients.MealLog
	saveErr   error
}

func (s *stubFoods) Search(_ context.Context, _, _ string, _ int) ([]models.Food, error) {
	return s.searchFoods, s.err
}

func (s *stubFoods) List(context.Context, string, int) ([]models.Food, error) {
	return s.listFoods, s.err
}

func (s *stubFoods) AddMeal(_ context.Context, _ string, meal clients.MealLog) error {
	s.savedMeal = &meal
	return s.saveErr
}

func (s *stubFoods) History(context.Context, string) ([]models.MealHistoryEntry, error) {
	return s.history, s.err
}

type stubRecommend struct {
	called string
	err    error
}

func (s *stubRecommend) Workouts(context.Context, string) (*clients.WorkoutsResponse, error) {
	s.called = "workouts"
	if s.err != nil {
		return nil, s.err
	}
	return &clients.WorkoutsResponse{
		UserLevel: "beginner",
		Goal:      "duy trì",
		Workouts: []models.RecommendedExercise{
			{Exercise: models.Exercise{Name: "Bench Press", BodyPart: "chest"}},
		},
	}, nil
}

func (s *stubRecommend) Meals(context.Context, string) (*clients.MealsResponse, error) {
	s.called = "meals"
	if s.err != nil {
		return nil, s.err
	}
	return &clients.MealsResponse{
		Goal:  "tăng cơ",
		Meals: []models.RecommendedFood{{Food: models.Food{Name: "uc ga"}}},
	}, nil
}

func (s *stubRecommend) WeeklyPlan(context.Context, string) (*clients.WeeklyPlanResponse, error) {
	s.called = "weekly-plan"
	if s.err != nil {
		return nil, s.err
	}
	return &clients.WeeklyPlanResponse{
		UserLevel:  "beginner",
		Goal:       "duy trì",
		WeeklyPlan: models.WeeklyPlan{Days: []models.DayPlan{{Day: "Thứ 2", Focus: "chest"}}},
	}, nil
}

func (s *stubRecommend) QuickTip(context.Context, string) (*clients.QuickTipResponse, error) {
	s.called = "quick-tip"
	if s.err != nil {
		return nil, s.err
	}
	return &clients.QuickTipResponse{Tips: []string{"Uống đủ nước"}}, nil
}

type stubBackend struct {
	reply string
	err   error

	calls    int
	messages []llm.Message
	temp     float32
	policy   llm.RetryPolicy
}

func (s *stubBackend) Chat(_ context.Context, messages []llm.Message, temperature float32, policy llm.RetryPolicy) (string, error) {
	s.calls++
	s.messages = messages
	s.temp = temperature
	s.policy = policy
	return s.reply, s.err
}

// stubStore layers configurable registry templates and template rows over the
// in-memory storage.
type stubStore struct {
	*storage.MemoryStorage
	templates map[string]string
	rows      [][]string
	runErr    error
	gotArg    any
}

func (s *stubStore) ListIntents(context.Context) ([]models.IntentRecord, error) {
	records := storage.DefaultIntents()
	for i := range records {
		records[i].QueryTemplate = s.templates[records[i].Tag]
	}
	return records, nil
}

func (s *stubStore) RunIntentTemplate(_ context.Context, _ string, arg any) ([][]string, error) {
	s.gotArg = arg
	return s.rows, s.runErr
}

type deps struct {
	store     *stubStore
	progress  *stubProgress
	foods     *stubFoods
	recommend *stubRecommend
	backend   *stubBackend
}

func newDispatcher(d deps) *Dispatcher {
	if d.store == nil {
		d.store = &stubStore{MemoryStorage: storage.NewMemoryStorage()}
	}
	if d.progress == nil {
		d.progress = &stubProgress{}
	}
	if d.foods == nil {
		d.foods = &stubFoods{}
	}
	if d.recommend == nil {
		d.recommend = &stubRecommend{}
	}
	if d.backend == nil {
		d.backend = &stubBackend{reply: "câu trả lời"}
	}
	return New(d.store, d.progress, d.foods, d.recommend, d.backend, zap.NewNop())
}

func TestProgressBranch(t *testing.T) {
	progress := &stubProgress{entries: []models.ProgressEntry{{Date: "2026-08-29", Weight: 70}}}
	d := newDispatcher(deps{progress: progress})

	reply := d.Respond(context.Background(), Turn{Intent: models.IntentProgressCheck})
	require.Contains(t, reply, "TIẾN ĐỘ CỦA BẠN")
	require.Contains(t, reply, "2026-08-29")
}

func TestProgressBranchEmptyUsesCannedLine(t *testing.T) {
	backend := &stubBackend{reply: "không nên chạy"}
	d := newDispatcher(deps{backend: backend})

	reply := d.Respond(context.Background(), Turn{Intent: models.IntentProgressCheck})
	require.Equal(t, format.MsgNoProgress, reply)
	require.Zero(t, backend.calls, "no-data reply must not trigger the fallback")
}

func TestProgressBranchServiceDown(t *testing.T) {
	d := newDispatcher(deps{progress: &stubProgress{err: errors.New("connection refused")}})

	reply := d.Respond(context.Background(), Turn{Intent: models.IntentProgressCheck})
	require.Equal(t, format.MsgProgressDown, reply)
}

func TestFoodLookupPrefersContainmentMatch(t *testing.T) {
	foods := &stubFoods{searchFoods: []models.Food{
		{Name: "ga ran", Calories: 290},
		{Name: "ga", Calories: 200, Protein: 30},
	}}
	d := newDispatcher(deps{foods: foods})

	reply := d.Respond(context.Background(), Turn{
		Intent:    models.IntentFoodLookup,
		Canonical: "150g ga bao nhieu calo",
	})
	require.Equal(t, "🍚 150g ga: 300.0 kcal | P:45.0g C:0.0g F:0.0g", reply)
}

func TestFoodLookupNotFound(t *testing.T) {
	d := newDispatcher(deps{foods: &stubFoods{}})

	reply := d.Respond(context.Background(), Turn{
		Intent:    models.IntentFoodLookup,
		Canonical: "100g sau rieng bao nhieu calo",
	})
	require.Equal(t, format.MsgFoodNotFound, reply)
}

func TestMealSuggestionSniffsGoal(t *testing.T) {
	foods := &stubFoods{listFoods: []models.Food{
		{Name: "uc ga", Goal: "tăng cơ"},
		{Name: "salad", Goal: "giảm cân"},
		{Name: "com", Goal: "all"},
	}}
	d := newDispatcher(deps{foods: foods})

	reply := d.Respond(context.Background(), Turn{
		Intent:    models.IntentMealSuggestion,
		Canonical: "toi muon tang co thi nen an gi",
	})
	require.Contains(t, reply, "mục tiêu tăng cơ")
	require.Contains(t, reply, "uc ga")
	require.Contains(t, reply, "com")
	require.NotContains(t, reply, "salad")
}

func TestAddMealSavesParsedItems(t *testing.T) {
	foods := &stubFoods{}
	d := newDispatcher(deps{foods: foods})

	reply := d.Respond(context.Background(), Turn{
		Intent:    models.IntentAddMeal,
		Canonical: "2 qua trung va 1 bat com",
	})
	require.Equal(t, format.MsgMealSaved, reply)
	require.NotNil(t, foods.savedMeal)
	require.Equal(t, "other", foods.savedMeal.MealType)
	require.Contains(t, foods.savedMeal.Items, models.MealItem{Name: "qua trung", Quantity: 2})
	require.Contains(t, foods.savedMeal.Items, models.MealItem{Name: "bat com", Quantity: 1})
}

func TestAddMealUnrecognized(t *testing.T) {
	foods := &stubFoods{}
	d := newDispatcher(deps{foods: foods})

	reply := d.Respond(context.Background(), Turn{Intent: models.IntentAddMeal, Canonical: ""})
	require.Equal(t, format.MsgMealNotRecognized, reply)
	require.Nil(t, foods.savedMeal)
}

func TestRecommendationSubEndpointSelection(t *testing.T) {
	cases := []struct {
		canonical string
		endpoint  string
	}{
		{"goi y ke hoach tuan cho toi", "weekly-plan"},
		{"cho toi vai meo nhanh", "quick-tip"},
		{"goi y cho toi an gi hom nay", "meals"},
		{"goi y cho toi", "workouts"},
	}
	for _, tc := range cases {
		rec := &stubRecommend{}
		d := newDispatcher(deps{recommend: rec})

		reply := d.Respond(context.Background(), Turn{
			Intent:    models.IntentRecommendation,
			Canonical: tc.canonical,
		})
		require.Equal(t, tc.endpoint, rec.called, "canonical %q", tc.canonical)
		require.NotEmpty(t, reply)
	}
}

func TestRecommendationNoDataCoachingLine(t *testing.T) {
	d := newDispatcher(deps{recommend: &stubRecommend{err: clients.ErrNotFound}})

	reply := d.Respond(context.Background(), Turn{
		Intent:    models.IntentRecommendation,
		Canonical: "goi y cho toi",
	})
	require.Equal(t, format.MsgRecommendNoData, reply)
}

func TestWorkoutSuggestionUsesTemplateForMuscleGroup(t *testing.T) {
	store := &stubStore{
		MemoryStorage: storage.NewMemoryStorage(),
		templates: map[string]string{
			"workout_suggestion": "SELECT name FROM exercises WHERE body_part = $1 LIMIT 5",
		},
		rows: [][]string{{"Bench Press"}, {"Chest Fly"}},
	}
	d := newDispatcher(deps{store: store})

	reply := d.Respond(context.Background(), Turn{
		Intent:    models.IntentWorkoutSuggestion,
		Canonical: "bai tap cho nhom co nguc",
	})
	require.Equal(t, "chest", store.gotArg)
	require.Equal(t, "💪 Gợi ý bài tập cho nhóm cơ chest: Bench Press, Chest Fly", reply)
}

func TestWorkoutSuggestionFallsBackToPopular(t *testing.T) {
	store := &stubStore{MemoryStorage: storage.NewMemoryStorage()}
	store.SeedExercises([]models.Exercise{
		{Name: "Squat", BodyPart: "legs"},
		{Name: "Deadlift", BodyPart: "back"},
	})
	d := newDispatcher(deps{store: store})

	reply := d.Respond(context.Background(), Turn{
		Intent:    models.IntentWorkoutSuggestion,
		Canonical: "goi y bai tap cho toi",
	})
	require.Equal(t, "💪 Gợi ý bài tập phổ biến: Squat, Deadlift", reply)
}

func TestWorkoutSuggestionEmptyGroupQueryFallsThroughToLLM(t *testing.T) {
	store := &stubStore{
		MemoryStorage: storage.NewMemoryStorage(),
		templates: map[string]string{
			"workout_suggestion": "SELECT name FROM exercises WHERE body_part = $1 LIMIT 5",
		},
	}
	store.SeedExercises([]models.Exercise{{Name: "Squat", BodyPart: "legs"}})
	backend := &stubBackend{reply: "Thử bench press và chest fly nhé!"}
	d := newDispatcher(deps{store: store, backend: backend})

	reply := d.Respond(context.Background(), Turn{
		Intent:    models.IntentWorkoutSuggestion,
		Canonical: "bai tap cho nhom co nguc",
		Raw:       "bài tập cho nhóm cơ ngực",
	})
	require.Equal(t, "Thử bench press và chest fly nhé!", reply)
	require.Equal(t, 1, backend.calls, "an extracted group with no rows must not reach the popular list")
	require.NotContains(t, reply, "Squat")
}

type failingPopularStore struct{ *stubStore }

func (failingPopularStore) PopularExercises(context.Context, int) ([]string, error) {
	return nil, errors.New("relation missing")
}

func TestWorkoutSuggestionPopularQueryFailureIsSurfaced(t *testing.T) {
	store := failingPopularStore{&stubStore{MemoryStorage: storage.NewMemoryStorage()}}
	d := New(store, &stubProgress{}, &stubFoods{}, &stubRecommend{}, &stubBackend{}, zap.NewNop())

	reply := d.Respond(context.Background(), Turn{
		Intent:    models.IntentWorkoutSuggestion,
		Canonical: "goi y bai tap cho toi",
	})
	require.Equal(t, "⚠️ Query failed (workout_suggestion): relation missing", reply)
}

func TestWorkoutSuggestionAsksForMuscleGroup(t *testing.T) {
	d := newDispatcher(deps{})

	reply := d.Respond(context.Background(), Turn{
		Intent:    models.IntentWorkoutSuggestion,
		Canonical: "goi y bai tap cho toi",
	})
	require.Equal(t, format.MsgAskMuscleGroup, reply)
}

func TestTemplateIntentRendersRows(t *testing.T) {
	store := &stubStore{
		MemoryStorage: storage.NewMemoryStorage(),
		templates: map[string]string{
			"general_health": "SELECT bmi, bmr FROM profiles WHERE user_id = $1",
		},
		rows: [][]string{{"22.86", "1648"}},
	}
	d := newDispatcher(deps{store: store})

	reply := d.Respond(context.Background(), Turn{
		Intent: models.IntentGeneralHealth,
		UserID: 7,
	})
	require.Equal(t, int64(7), store.gotArg)
	require.Contains(t, reply, "BMI: 22.86")
}

func TestTemplateIntentQueryFailureIsSurfaced(t *testing.T) {
	store := &stubStore{
		MemoryStorage: storage.NewMemoryStorage(),
		templates:     map[string]string{"daily_summary": "SELECT broken"},
		runErr:        errors.New("relation missing"),
	}
	d := newDispatcher(deps{store: store})

	reply := d.Respond(context.Background(), Turn{Intent: models.IntentDailySummary})
	require.Equal(t, "⚠️ Query failed (daily_summary): relation missing", reply)
}

func TestEmptyTemplateBranchFallsThroughToLLM(t *testing.T) {
	backend := &stubBackend{reply: "Hôm nay bạn tập tốt lắm!"}
	d := newDispatcher(deps{backend: backend})

	reply := d.Respond(context.Background(), Turn{
		Intent: models.IntentPlanOverview,
		Raw:    "kế hoạch của tôi thế nào",
	})
	require.Equal(t, "Hôm nay bạn tập tốt lắm!", reply)
	require.Equal(t, 1, backend.calls)
}

func TestFallbackSendsRawMessageWithPersona(t *testing.T) {
	backend := &stubBackend{reply: "Chào bạn!"}
	d := newDispatcher(deps{backend: backend})

	reply := d.Respond(context.Background(), Turn{
		Intent:    models.IntentNone,
		Raw:       "Xin chào nhé",
		Canonical: "xin chao nhe",
	})
	require.Equal(t, "Chào bạn!", reply)
	require.Len(t, backend.messages, 2)
	require.Equal(t, llm.RoleSystem, backend.messages[0].Role)
	require.Equal(t, "Xin chào nhé", backend.messages[1].Content)
	require.Equal(t, float32(0.4), backend.temp)
	require.Equal(t, 2, backend.policy.MaxAttempts)
}

func TestFallbackExhaustedYieldsCannedLine(t *testing.T) {
	backend := &stubBackend{err: llm.ErrUnavailable}
	d := newDispatcher(deps{backend: backend})

	reply := d.Respond(context.Background(), Turn{Intent: models.IntentNone, Raw: "hello"})
	require.Equal(t, format.MsgAIUnavailable, reply)
}
