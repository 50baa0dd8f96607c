// Package extract pulls structured facts out of canonical text for a
// detected intent. These are heuristic lexical parsers, not grammars: absence
// of a match yields defaults, never an error, and the dispatcher decides what
// to do with an empty result.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tranvd/gymlife-assistant/internal/models"
)

// muscleKeywords maps ASCII-folded body-part keywords to canonical groups.
// The slice is scanned in priority order so a message naming several body
// parts always extracts the same group.
var muscleKeywords = []struct {
	keyword string
	group   string
}{
	{"bung", "abdominals"}, {"eo", "abdominals"}, {"abs", "abdominals"},
	{"tay", "arms"}, {"arm", "arms"}, {"canh tay", "arms"}, {"bap tay", "arms"},
	{"chan", "legs"}, {"leg", "legs"}, {"dui", "legs"}, {"bap chan", "legs"},
	{"lung", "back"}, {"back", "back"},
	{"nguc", "chest"}, {"chest", "chest"},
	{"vai", "shoulders"}, {"shoulder", "shoulders"},
	{"mong", "glutes"}, {"glute", "glutes"},
}

// muscleGroups resolves the single word captured by the "nhom co <word>"
// phrase; lookup by exact key, so order does not matter here.
var muscleGroups = map[string]string{
	"bung": "abdominals", "eo": "abdominals", "abs": "abdominals",
	"tay": "arms", "arm": "arms",
	"chan": "legs", "leg": "legs", "dui": "legs",
	"lung": "back", "back": "back",
	"nguc": "chest", "chest": "chest",
	"vai": "shoulders", "shoulder": "shoulders",
	"mong": "glutes", "glute": "glutes",
}

var musclePhrase = regexp.MustCompile(`nhom co\s+([a-z]+)`)

// MuscleGroup finds the canonical muscle group mentioned in the text: a
// direct keyword hit in priority order first, then the "nhom co <word>"
// phrase. ok is false when neither matches.
func MuscleGroup(text string) (group string, ok bool) {
	for _, entry := range muscleKeywords {
		if strings.Contains(text, entry.keyword) {
			return entry.group, true
		}
	}
	if m := musclePhrase.FindStringSubmatch(text); m != nil {
		if g, found := muscleGroups[m[1]]; found {
			return g, true
		}
	}
	return "", false
}

var gramsToken = regexp.MustCompile(`(\d+)\s*g`)

// FoodAndGrams splits a lookup message into a food name and a gram weight.
// The weight defaults to 100 when no <digits>g token is present; the token
// and calorie filler words are stripped from the name.
func FoodAndGrams(text string) (name string, grams int) {
	grams = 100
	if m := gramsToken.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			grams = n
		}
	}
	name = gramsToken.ReplaceAllString(text, "")
	name = strings.ReplaceAll(name, "calo", "")
	name = strings.ReplaceAll(name, "kcal", "")
	return strings.TrimSpace(name), grams
}

// Goal reads the nutrition goal out of canonical text, defaulting to
// maintenance.
func Goal(text string) string {
	switch {
	case strings.Contains(text, "tang"):
		return "tăng cơ"
	case strings.Contains(text, "giam"):
		return "giảm cân"
	default:
		return "duy trì"
	}
}

var (
	itemSeparator = regexp.MustCompile(`,|\s+va\s+`)
	itemPattern   = regexp.MustCompile(`^(\d+)\s*(g|bat|qua|ly)?\s+(.+)$`)
)

// MealItems parses a logged meal into items. Segments are split on commas and
// the "va" connective; each segment matches <qty> <optional unit> <name> with
// quantity defaulting to 1. A gram unit is dropped, other units stay folded
// into the name; segments that don't match the pattern degrade to the whole
// segment with quantity 1.
func MealItems(text string) []models.MealItem {
	var items []models.MealItem
	for _, part := range itemSeparator.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		m := itemPattern.FindStringSubmatch(part)
		if m == nil {
			items = append(items, models.MealItem{Name: part, Quantity: 1})
			continue
		}

		qty, err := strconv.Atoi(m[1])
		if err != nil {
			qty = 1
		}
		name := strings.TrimSpace(m[3])
		if unit := m[2]; unit != "" && unit != "g" {
			name = unit + " " + name
		}
		items = append(items, models.MealItem{Name: name, Quantity: qty})
	}
	return items
}

// Entities runs the extractor relevant to the intent and returns the named
// values as strings. Intents without extractors yield an empty map.
func Entities(intent models.Intent, text string) map[string]string {
	entities := make(map[string]string)
	switch intent {
	case models.IntentWorkoutSuggestion:
		if group, ok := MuscleGroup(text); ok {
			entities["muscle_group"] = group
		}
	case models.IntentFoodLookup:
		name, grams := FoodAndGrams(text)
		if name != "" {
			entities["food_name"] = name
		}
		entities["grams"] = strconv.Itoa(grams)
	case models.IntentMealSuggestion:
		entities["goal"] = Goal(text)
	case models.IntentAddMeal:
		entities["item_count"] = strconv.Itoa(len(MealItems(text)))
	}
	return entities
}
