package storage

import (
	"context"

	"github.com/tranvd/gymlife-assistant/internal/models"
)

// Storage is the persistence boundary of the assistant. The conversation log
// is the durable source of truth; everything the AI pipeline does on top of
// it is best-effort.
type Storage interface {
	// SaveChatMessage appends one turn to the conversation log.
	SaveChatMessage(ctx context.Context, userID int64, text string, isUser bool) error
	// ChatHistory returns the most recent turns, newest first.
	ChatHistory(ctx context.Context, userID int64, limit int) ([]models.ChatMessage, error)

	// ListIntents reads the intent registry in its declared order.
	ListIntents(ctx context.Context) ([]models.IntentRecord, error)
	// RunIntentTemplate executes a registry query template; arg (a user id
	// for most intents, a muscle group for workout suggestions) is supplied
	// iff the template expects a parameter. Rows come back as strings and the
	// formatter owns any numeric interpretation.
	RunIntentTemplate(ctx context.Context, template string, arg any) ([][]string, error)

	// PopularExercises is the unfiltered fallback for workout suggestions.
	PopularExercises(ctx context.Context, limit int) ([]string, error)

	// UserProfile returns nil without error when the user has no profile row.
	UserProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	// WorkoutStats summarizes the last 30 days of sessions.
	WorkoutStats(ctx context.Context, userID int64) (models.WorkoutStats, error)
	// MealPreferences returns the 30-day top foods by frequency, most
	// frequent first.
	MealPreferences(ctx context.Context, userID int64) ([]models.FoodPreference, error)
	// ListExercises returns candidates whose body part is in bodyParts or
	// whose target muscle contains targetLike. Scoring happens in the engine.
	ListExercises(ctx context.Context, bodyParts []string, targetLike string) ([]models.Exercise, error)
	// FoodsForGoal returns foods tagged for the goal or tagged universal.
	FoodsForGoal(ctx context.Context, goal string) ([]models.Food, error)

	Close() error
}
