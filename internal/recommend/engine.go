// Package recommend scores workouts and meals against a user's goal and
// 30-day history and assembles the weekly schedule. Everything here is pure
// computation over already-fetched rows: no I/O, deterministic given its
// inputs except for the explicit randomized tie-breaks.
package recommend

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/tranvd/gymlife-assistant/internal/models"
)

// Relevance tiers for workout scoring and the preference boost for meals.
const (
	scoreFavoriteBodyPart = 2.0
	scoreTargetMatch      = 1.5
	scoreBase             = 1.0
)

// Level thresholds over (30-day session count, active days / 30).
const (
	beginnerSessions    = 10
	beginnerConsistency = 0.3
	intermedSessions    = 30
	intermedConsistency = 0.6
	maxWorkoutsPerDay   = 2
	preferredFoodsTopN  = 3
)

// intensityByLevel is the fixed set/rep/duration prescription merged onto
// every recommended exercise.
var intensityByLevel = map[models.Level]models.Intensity{
	models.LevelBeginner:     {Sets: 2, Reps: 8, Duration: 15},
	models.LevelIntermediate: {Sets: 3, Reps: 10, Duration: 25},
	models.LevelAdvanced:     {Sets: 4, Reps: 12, Duration: 35},
}

// defaultBodyParts is used when the user has no favorite body parts on record.
var defaultBodyParts = []string{"chest", "legs", "back"}

var validGoals = map[string]struct{}{
	"giảm cân":     {},
	"tăng cơ":      {},
	"duy trì":      {},
	"tăng sức bền": {},
}

// goalTips keys must stay aligned with validGoals.
var goalTips = map[string]string{
	"giảm cân":     "🔥 Kết hợp cardio và strength training để đốt calo hiệu quả",
	"tăng cơ":      "💪 Tập trung vào compound exercises và đảm bảo đủ protein",
	"duy trì":      "⚖️ Duy trì cân bằng giữa các nhóm cơ và chế độ ăn",
	"tăng sức bền": "🏃 Tăng dần cường độ và thời gian tập luyện",
}

// NormalizeGoal maps unrecognized goal values to the maintenance default.
func NormalizeGoal(goal string) string {
	if _, ok := validGoals[goal]; ok {
		return goal
	}
	return "duy trì"
}

// DeriveLevel thresholds 30-day history into a skill tier. Monotonic: more
// sessions or higher consistency never lowers the level.
func DeriveLevel(sessionCount int, consistencyRate float64) models.Level {
	switch {
	case sessionCount < beginnerSessions || consistencyRate < beginnerConsistency:
		return models.LevelBeginner
	case sessionCount < intermedSessions || consistencyRate < intermedConsistency:
		return models.LevelIntermediate
	default:
		return models.LevelAdvanced
	}
}

// IntensityFor returns the prescription for a level.
func IntensityFor(level models.Level) models.Intensity {
	return intensityByLevel[level]
}

// FavoriteOrDefault substitutes the fixed default body parts when the user
// has no favorites on record, so fetching and scoring agree on the set.
func FavoriteOrDefault(favorites []string) []string {
	if len(favorites) == 0 {
		return defaultBodyParts
	}
	return favorites
}

// ScoreWorkouts ranks candidate exercises: top tier when the body part is a
// favorite, middle tier when the target muscle textually matches the first
// favorite, base tier otherwise. Ties are shuffled, the result is capped at
// limit, and the level's intensity is merged onto every row.
func ScoreWorkouts(candidates []models.Exercise, favorites []string, level models.Level, limit int) []models.RecommendedExercise {
	favorites = FavoriteOrDefault(favorites)
	favoriteSet := make(map[string]struct{}, len(favorites))
	for _, f := range favorites {
		favoriteSet[f] = struct{}{}
	}

	intensity := IntensityFor(level)
	scored := make([]models.RecommendedExercise, 0, len(candidates))
	for _, e := range candidates {
		score := scoreBase
		if _, ok := favoriteSet[e.BodyPart]; ok {
			score = scoreFavoriteBodyPart
		} else if strings.Contains(e.Target, favorites[0]) {
			score = scoreTargetMatch
		}
		scored = append(scored, models.RecommendedExercise{
			Exercise:  e,
			Intensity: intensity,
			Score:     score,
		})
	}

	rand.Shuffle(len(scored), func(i, j int) { scored[i], scored[j] = scored[j], scored[i] })
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// ScoreMeals ranks goal-filtered foods with a binary preference boost for the
// user's top-3 most frequent foods. Absent preference history the boost never
// fires and the plain goal filter result comes back in randomized order.
func ScoreMeals(candidates []models.Food, preferences []models.FoodPreference, limit int) []models.RecommendedFood {
	preferred := make(map[string]struct{}, preferredFoodsTopN)
	for i, p := range preferences {
		if i == preferredFoodsTopN {
			break
		}
		preferred[p.Name] = struct{}{}
	}

	scored := make([]models.RecommendedFood, 0, len(candidates))
	for _, f := range candidates {
		score := scoreBase
		if _, ok := preferred[f.Name]; ok {
			score = scoreFavoriteBodyPart
		}
		scored = append(scored, models.RecommendedFood{Food: f, Score: score})
	}

	rand.Shuffle(len(scored), func(i, j int) { scored[i], scored[j] = scored[j], scored[i] })
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// weekTemplate is the fixed 7-day schedule with one rest day.
var weekTemplate = []struct {
	day   string
	focus string
}{
	{"Thứ 2", "chest"},
	{"Thứ 3", "back"},
	{"Thứ 4", "legs"},
	{"Thứ 5", "shoulders"},
	{"Thứ 6", "arms"},
	{"Thứ 7", "cardio"},
	{"Chủ nhật", "rest"},
}

var mealSlots = []string{"breakfast", "lunch", "dinner"}

// BuildWeeklyPlan distributes recommended workouts into the first
// matching-focus day that still has capacity and samples meals without
// replacement into the daily slots, skipping the rest day entirely. This is
// best-effort bin-packing: items with no matching focus day go unplaced.
func BuildWeeklyPlan(workouts []models.RecommendedExercise, meals []models.RecommendedFood) models.WeeklyPlan {
	days := make([]models.DayPlan, len(weekTemplate))
	for i, t := range weekTemplate {
		days[i] = models.DayPlan{Day: t.day, Focus: t.focus}
	}

	for _, w := range workouts {
		bodyPart := strings.ToLower(w.BodyPart)
		for i := range days {
			if days[i].Focus == "rest" || !strings.Contains(bodyPart, days[i].Focus) {
				continue
			}
			if len(days[i].Workouts) < maxWorkoutsPerDay {
				days[i].Workouts = append(days[i].Workouts, w)
				break
			}
		}
	}

	for i := range days {
		if days[i].Focus == "rest" {
			continue
		}
		for slot, f := range sampleFoods(meals, len(mealSlots)) {
			days[i].Meals = append(days[i].Meals, models.PlannedMeal{
				MealType: mealSlots[slot],
				Food:     f,
			})
		}
	}

	return models.WeeklyPlan{Days: days}
}

// sampleFoods picks up to n meals without replacement.
func sampleFoods(meals []models.RecommendedFood, n int) []models.RecommendedFood {
	if len(meals) == 0 {
		return nil
	}
	indexes := rand.Perm(len(meals))
	if n > len(indexes) {
		n = len(indexes)
	}
	out := make([]models.RecommendedFood, 0, n)
	for _, idx := range indexes[:n] {
		out = append(out, meals[idx])
	}
	return out
}

// QuickTips derives short coaching lines from recent activity plus a
// per-goal tip.
func QuickTips(goal string, stats models.WorkoutStats) []string {
	var tips []string

	if stats.ConsistencyRate < 0.5 {
		tips = append(tips, "💡 Bạn nên tập luyện đều đặn hơn để đạt mục tiêu "+goal)
	}

	if stats.SessionCount == 0 {
		tips = append(tips, "🎯 Hãy bắt đầu với các bài tập cơ bản phù hợp với người mới!")
	} else if len(stats.FavoriteBodyParts) > 0 {
		tips = append(tips, "🌟 Bạn tập "+stats.FavoriteBodyParts[0]+" nhiều nhất. Hãy thử thêm bài tập cho nhóm cơ đối kháng!")
	}

	if tip, ok := goalTips[goal]; ok {
		tips = append(tips, tip)
	} else {
		tips = append(tips, "🎉 Bạn đang trên đà tiến bộ!")
	}

	return tips
}
