package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tranvd/gymlife-assistant/internal/models"
)

// MemoryStorage is an in-memory Storage used for local development and tests.
// Registry query templates cannot run without a SQL engine, so
// RunIntentTemplate returns no rows and the dispatcher's empty-branch
// fallback takes over.
type MemoryStorage struct {
	mu          sync.RWMutex
	nextID      int64
	chats       map[int64][]models.ChatMessage
	intents     []models.IntentRecord
	profiles    map[int64]models.UserProfile
	stats       map[int64]models.WorkoutStats
	preferences map[int64][]models.FoodPreference
	exercises   []models.Exercise
	foods       []models.Food
}

// NewMemoryStorage seeds the registry with the default intent order so
// classification works without a database.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		nextID:      1,
		chats:       make(map[int64][]models.ChatMessage),
		intents:     DefaultIntents(),
		profiles:    make(map[int64]models.UserProfile),
		stats:       make(map[int64]models.WorkoutStats),
		preferences: make(map[int64][]models.FoodPreference),
	}
}

// DefaultIntents mirrors the seed rows of the intent registry migration.
func DefaultIntents() []models.IntentRecord {
	tags := []string{
		"progress_check", "recommendation", "workout_suggestion",
		"meal_suggestion", "add_meal", "food_lookup", "meal_history",
		"plan_overview", "daily_summary", "general_health",
	}
	records := make([]models.IntentRecord, len(tags))
	for i, tag := range tags {
		records[i] = models.IntentRecord{Tag: tag}
	}
	return records
}

func (s *MemoryStorage) SaveChatMessage(_ context.Context, userID int64, text string, isUser bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chats[userID] = append(s.chats[userID], models.ChatMessage{
		ID:        s.nextID,
		UserID:    userID,
		Text:      text,
		IsUser:    isUser,
		CreatedAt: time.Now(),
	})
	s.nextID++
	return nil
}

func (s *MemoryStorage) ChatHistory(_ context.Context, userID int64, limit int) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.chats[userID]
	var out []models.ChatMessage
	for i := len(history) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, history[i])
	}
	return out, nil
}

func (s *MemoryStorage) ListIntents(_ context.Context) ([]models.IntentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.IntentRecord(nil), s.intents...), nil
}

func (s *MemoryStorage) RunIntentTemplate(context.Context, string, any) ([][]string, error) {
	return nil, nil
}

func (s *MemoryStorage) PopularExercises(_ context.Context, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for _, e := range s.exercises {
		if len(names) == limit {
			break
		}
		names = append(names, e.Name)
	}
	return names, nil
}

func (s *MemoryStorage) UserProfile(_ context.Context, userID int64) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.profiles[userID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *MemoryStorage) WorkoutStats(_ context.Context, userID int64) (models.WorkoutStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats[userID], nil
}

func (s *MemoryStorage) MealPreferences(_ context.Context, userID int64) ([]models.FoodPreference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.FoodPreference(nil), s.preferences[userID]...), nil
}

func (s *MemoryStorage) ListExercises(_ context.Context, bodyParts []string, targetLike string) ([]models.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parts := make(map[string]struct{}, len(bodyParts))
	for _, p := range bodyParts {
		parts[p] = struct{}{}
	}

	var out []models.Exercise
	for _, e := range s.exercises {
		if _, ok := parts[e.BodyPart]; ok {
			out = append(out, e)
			continue
		}
		if targetLike != "" && strings.Contains(e.Target, targetLike) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStorage) FoodsForGoal(_ context.Context, goal string) ([]models.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Food
	for _, f := range s.foods {
		if f.Goal == "all" || strings.Contains(f.Goal, goal) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *MemoryStorage) Close() error {
	return nil
}

// Seed helpers for tests and local development.

func (s *MemoryStorage) SeedProfile(p models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
}

func (s *MemoryStorage) SeedWorkoutStats(userID int64, stats models.WorkoutStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[userID] = stats
}

func (s *MemoryStorage) SeedPreferences(userID int64, prefs []models.FoodPreference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences[userID] = prefs
}

func (s *MemoryStorage) SeedExercises(exercises []models.Exercise) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exercises = exercises
}

func (s *MemoryStorage) SeedFoods(foods []models.Food) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.foods = foods
}
