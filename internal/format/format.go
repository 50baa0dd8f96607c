// Package format renders structured results into the user-facing Vietnamese
// reply for each intent. Every formatter returns (text, ok): ok=false is the
// explicit no-data sentinel, so the dispatcher can tell "answered with
// nothing to say" apart from "not yet answered".
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tranvd/gymlife-assistant/internal/models"
)

// Canned replies shared with the dispatcher's error branches.
const (
	MsgNoProgress        = "📊 Hiện chưa có dữ liệu tiến độ nào được ghi lại."
	MsgProgressDown      = "❌ Lỗi kết nối dịch vụ tiến độ."
	MsgFoodNotFound      = "Không tìm thấy món ăn trong cơ sở dữ liệu."
	MsgFoodsDown         = "❌ Lỗi kết nối dịch vụ thực phẩm."
	MsgMealHistoryEmpty  = "Bạn chưa lưu bữa ăn nào."
	MsgMealHistoryDown   = "❌ Không thể kết nối đến lịch sử bữa ăn."
	MsgMealSaved         = "🍽️ Đã lưu bữa ăn thành công!"
	MsgMealSaveFailed    = "⚠️ Không thể lưu bữa ăn. Vui lòng thử lại sau."
	MsgMealNotRecognized = "⚠️ Không thể nhận diện món ăn từ tin nhắn của bạn."
	MsgRecommendNoData   = "Chưa đủ dữ liệu profile/lịch sử để gợi ý. Hãy cập nhật hồ sơ và ghi lại vài buổi tập/bữa ăn nhé!"
	MsgRecommendDown     = "❌ Không thể kết nối đến Recommendation Service."
	MsgAskMuscleGroup    = "🤔 Bạn muốn tập cho nhóm cơ nào?"
	MsgAIUnavailable     = "⚠️ Hiện không thể kết nối đến AI. Vui lòng thử lại sau."
)

const maxProgressEntries = 5

// Progress renders the newest entries of the progress log, capped at five
// with a shown/total footer.
func Progress(entries []models.ProgressEntry) (string, bool) {
	if len(entries) == 0 {
		return MsgNoProgress, false
	}

	sorted := append([]models.ProgressEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })

	lines := []string{"📈 TIẾN ĐỘ CỦA BẠN:"}
	for i, p := range sorted {
		if i == maxProgressEntries {
			break
		}
		line := fmt.Sprintf("\n📅 %s:", orUnknown(p.Date))
		line += fmt.Sprintf("\n   • ⚖️ Cân nặng: %gkg", p.Weight)
		if p.BMI != nil {
			line += fmt.Sprintf("\n   • 📊 BMI: %.1f", *p.BMI)
		} else {
			line += "\n   • 📊 BMI: N/A"
		}
		if p.BodyFatPct != nil {
			line += fmt.Sprintf("\n   • 💪 Mỡ cơ thể: %g%%", *p.BodyFatPct)
		} else {
			line += "\n   • 💪 Mỡ cơ thể: N/A"
		}
		line += fmt.Sprintf("\n   • 🔥 Calo nạp/tiêu: %d/%d kcal", p.CaloriesIn, p.CaloriesOut)
		lines = append(lines, line)
	}
	if len(sorted) > maxProgressEntries {
		lines = append(lines, fmt.Sprintf("\nℹ️ Hiển thị %d/%d bản ghi mới nhất.", maxProgressEntries, len(sorted)))
	}
	return strings.Join(lines, "\n"), true
}

func orUnknown(date string) string {
	if date == "" {
		return "Unknown date"
	}
	return date
}

// FoodLookup renders a single scaled nutrition line for grams of a food.
func FoodLookup(food models.Food, grams int) string {
	scale := float64(grams) / 100
	return fmt.Sprintf("🍚 %dg %s: %.1f kcal | P:%.1fg C:%.1fg F:%.1fg",
		grams, food.Name,
		food.Calories*scale, food.Protein*scale, food.Carbs*scale, food.Fat*scale)
}

// MealSuggestion lists suggested foods for a goal.
func MealSuggestion(goal string, foods []models.Food) (string, bool) {
	if len(foods) == 0 {
		return fmt.Sprintf("Chưa có gợi ý thực phẩm cho mục tiêu %s.", goal), false
	}
	lines := []string{fmt.Sprintf("🥗 Gợi ý thực phẩm cho mục tiêu %s:", goal)}
	for _, f := range foods {
		lines = append(lines, fmt.Sprintf("- %s (%g kcal, P:%gg C:%gg F:%gg)",
			f.Name, f.Calories, f.Protein, f.Carbs, f.Fat))
	}
	return strings.Join(lines, "\n"), true
}

// MealHistory renders the most recent saved meal.
func MealHistory(entries []models.MealHistoryEntry) (string, bool) {
	if len(entries) == 0 {
		return MsgMealHistoryEmpty, false
	}
	latest := entries[0]
	return fmt.Sprintf("📅 %s (%s): %g kcal với %d món.",
		latest.Date, latest.MealType, latest.TotalCalories, len(latest.Foods)), true
}

// WorkoutList renders the exercise names suggested for a muscle group.
func WorkoutList(muscleGroup string, names []string) (string, bool) {
	if len(names) == 0 {
		return "", false
	}
	return fmt.Sprintf("💪 Gợi ý bài tập cho nhóm cơ %s: %s", muscleGroup, strings.Join(names, ", ")), true
}

// PopularWorkouts renders the unfiltered fallback list.
func PopularWorkouts(names []string) (string, bool) {
	if len(names) == 0 {
		return MsgAskMuscleGroup, false
	}
	return "💪 Gợi ý bài tập phổ biến: " + strings.Join(names, ", "), true
}

// TemplateRows renders the rows of a registry-template intent. Layouts are
// keyed by intent; unknown intents and empty row sets yield the sentinel.
func TemplateRows(intent models.Intent, rows [][]string) (string, bool) {
	if len(rows) == 0 {
		return "", false
	}

	switch intent {
	case models.IntentGeneralHealth:
		row := rows[0]
		if len(row) < 2 {
			return "", false
		}
		return fmt.Sprintf("📊 Chỉ số sức khỏe:\n- BMI: %.2f\n- BMR: %.0f kcal/ngày",
			parseFloat(row[0]), parseFloat(row[1])), true
	case models.IntentDailySummary:
		var lines []string
		for _, row := range rows {
			if len(row) < 3 {
				continue
			}
			in := parseFloat(row[1])
			out := parseFloat(row[2])
			lines = append(lines, fmt.Sprintf("📅 %s: Nạp %.0f kcal | Tiêu hao %.0f kcal | Cân bằng: %.0f kcal",
				row[0], in, out, in-out))
		}
		if len(lines) == 0 {
			return "", false
		}
		return strings.Join(lines, "\n"), true
	case models.IntentPlanOverview:
		lines := []string{"🗓️ Kế hoạch tuần của bạn:"}
		for _, row := range rows {
			if len(row) < 3 {
				continue
			}
			lines = append(lines, fmt.Sprintf("- %s: %s", row[1], row[2]))
		}
		if len(lines) == 1 {
			return "", false
		}
		return strings.Join(lines, "\n"), true
	default:
		return "", false
	}
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// WeeklyPlanReply condenses a recommendation-service weekly plan.
func WeeklyPlanReply(goal string, level string, plan models.WeeklyPlan) (string, bool) {
	if len(plan.Days) == 0 {
		return "Không tạo được kế hoạch tuần.", false
	}
	lines := []string{fmt.Sprintf("🗓️ Kế hoạch tuần (mục tiêu: %s, level: %s):", goal, level)}
	for _, day := range plan.Days {
		workouts := make([]string, 0, len(day.Workouts))
		for _, w := range day.Workouts {
			workouts = append(workouts, w.Name)
		}
		workoutPart := strings.Join(workouts, ", ")
		if workoutPart == "" {
			workoutPart = "Nghỉ"
		}

		meals := make([]string, 0, len(day.Meals))
		for _, m := range day.Meals {
			meals = append(meals, fmt.Sprintf("%s: %s", m.MealType, m.Food.Name))
		}
		mealPart := strings.Join(meals, ", ")
		if mealPart == "" {
			mealPart = "—"
		}

		lines = append(lines, fmt.Sprintf("• %s (%s): 🏋️ %s | 🍽️ %s", day.Day, day.Focus, workoutPart, mealPart))
	}
	return strings.Join(lines, "\n"), true
}

// QuickTipsReply renders the quick-tip list.
func QuickTipsReply(tips []string) (string, bool) {
	if len(tips) == 0 {
		return "Hôm nay chưa có mẹo nào.", false
	}
	return "⚡ Mẹo nhanh hôm nay:\n- " + strings.Join(tips, "\n- "), true
}

// RecommendedMeals renders the personalized meal list, capped at five.
func RecommendedMeals(goal string, meals []models.RecommendedFood) (string, bool) {
	if len(meals) == 0 {
		return "Chưa có gợi ý bữa ăn phù hợp.", false
	}
	if len(meals) > 5 {
		meals = meals[:5]
	}
	lines := []string{fmt.Sprintf("🥗 Gợi ý bữa ăn (goal: %s):", goal)}
	for _, f := range meals {
		lines = append(lines, fmt.Sprintf("- %s (%g kcal, P:%gg C:%gg F:%gg)",
			f.Name, f.Calories, f.Protein, f.Carbs, f.Fat))
	}
	return strings.Join(lines, "\n"), true
}

// RecommendedWorkouts renders the personalized workout list, capped at six.
func RecommendedWorkouts(goal string, level string, workouts []models.RecommendedExercise) (string, bool) {
	if len(workouts) == 0 {
		return "Chưa có gợi ý bài tập phù hợp.", false
	}
	if len(workouts) > 6 {
		workouts = workouts[:6]
	}
	lines := []string{fmt.Sprintf("💪 Gợi ý bài tập (goal: %s, level: %s):", goal, level)}
	for _, w := range workouts {
		lines = append(lines, fmt.Sprintf("- %s (%s) • %dx%d hoặc %d′",
			w.Name, w.BodyPart, w.Sets, w.Reps, w.Duration))
	}
	return strings.Join(lines, "\n"), true
}

// QueryFailed surfaces a template failure with the intent name, favoring
// diagnostic visibility over silence for this error class.
func QueryFailed(intent models.Intent, err error) string {
	return fmt.Sprintf("⚠️ Query failed (%s): %v", intent, err)
}
