package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/tranvd/gymlife-assistant/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

// DatabaseConfig carries postgres connection settings.
type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

// PostgresStorage implements Storage on top of postgres.
type PostgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage opens the connection, verifies it and applies the
// embedded schema.
func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &PostgresStorage{db: db}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

func (s *PostgresStorage) SaveChatMessage(ctx context.Context, userID int64, text string, isUser bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chats (user_id, message, is_user, timestamp) VALUES ($1, $2, $3, NOW())`,
		userID, text, isUser)
	if err != nil {
		return fmt.Errorf("error saving chat message: %v", err)
	}
	return nil
}

func (s *PostgresStorage) ChatHistory(ctx context.Context, userID int64, limit int) ([]models.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, message, is_user, timestamp
		FROM chats
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying chat history: %v", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Text, &m.IsUser, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning chat message: %v", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *PostgresStorage) ListIntents(ctx context.Context) ([]models.IntentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT intent, description, sql_template FROM intent_mapping ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("error querying intent registry: %v", err)
	}
	defer rows.Close()

	var intents []models.IntentRecord
	for rows.Next() {
		var rec models.IntentRecord
		if err := rows.Scan(&rec.Tag, &rec.Description, &rec.QueryTemplate); err != nil {
			return nil, fmt.Errorf("error scanning intent record: %v", err)
		}
		intents = append(intents, rec)
	}
	return intents, rows.Err()
}

func (s *PostgresStorage) RunIntentTemplate(ctx context.Context, template string, arg any) ([][]string, error) {
	var rows *sql.Rows
	var err error
	if strings.Contains(template, "$1") {
		rows, err = s.db.QueryContext(ctx, template, arg)
	} else {
		rows, err = s.db.QueryContext(ctx, template)
	}
	if err != nil {
		return nil, fmt.Errorf("error executing intent template: %v", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("error reading template columns: %v", err)
	}

	var result [][]string
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		targets := make([]any, len(cols))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("error scanning template row: %v", err)
		}
		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = v.String
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (s *PostgresStorage) PopularExercises(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM exercises LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying popular exercises: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error scanning exercise name: %v", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *PostgresStorage) UserProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, goal, COALESCE(weight, 0), COALESCE(height, 0),
		       COALESCE(gender, ''), COALESCE(EXTRACT(YEAR FROM AGE(dob))::int, 0)
		FROM profiles
		WHERE user_id = $1`, userID)

	var p models.UserProfile
	err := row.Scan(&p.UserID, &p.Goal, &p.Weight, &p.Height, &p.Gender, &p.Age)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying profile: %v", err)
	}
	return &p, nil
}

func (s *PostgresStorage) WorkoutStats(ctx context.Context, userID int64) (models.WorkoutStats, error) {
	var stats models.WorkoutStats

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT date::date)
		FROM sessions
		WHERE user_id = $1 AND date >= NOW() - INTERVAL '30 days'`, userID).
		Scan(&stats.SessionCount, &stats.ActiveDays)
	if err != nil {
		return stats, fmt.Errorf("error querying session stats: %v", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.body_part
		FROM session_details sd
		JOIN exercises e ON sd.exercise_id = e.exercise_id
		JOIN sessions s ON sd.session_id = s.session_id
		WHERE s.user_id = $1 AND s.date >= NOW() - INTERVAL '30 days'
		GROUP BY e.body_part
		ORDER BY COUNT(*) DESC
		LIMIT 3`, userID)
	if err != nil {
		return stats, fmt.Errorf("error querying favorite body parts: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var part string
		if err := rows.Scan(&part); err != nil {
			return stats, fmt.Errorf("error scanning body part: %v", err)
		}
		stats.FavoriteBodyParts = append(stats.FavoriteBodyParts, part)
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	stats.ConsistencyRate = float64(stats.ActiveDays) / 30
	return stats, nil
}

func (s *PostgresStorage) MealPreferences(ctx context.Context, userID int64) ([]models.FoodPreference, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.name, f.category, COUNT(*) AS frequency
		FROM meal_details md
		JOIN meals m ON md.meal_id = m.meal_id
		JOIN foods f ON md.food_id = f.food_id
		WHERE m.user_id = $1 AND m.date >= CURRENT_DATE - INTERVAL '30 days'
		GROUP BY f.food_id, f.name, f.category
		ORDER BY frequency DESC
		LIMIT 10`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying meal preferences: %v", err)
	}
	defer rows.Close()

	var prefs []models.FoodPreference
	for rows.Next() {
		var p models.FoodPreference
		if err := rows.Scan(&p.Name, &p.Category, &p.Frequency); err != nil {
			return nil, fmt.Errorf("error scanning meal preference: %v", err)
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}

func (s *PostgresStorage) ListExercises(ctx context.Context, bodyParts []string, targetLike string) ([]models.Exercise, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT exercise_id, name, body_part, equipment, target, secondary_muscles, video_url
		FROM exercises
		WHERE body_part = ANY($1) OR target LIKE $2`,
		pq.Array(bodyParts), "%"+targetLike+"%")
	if err != nil {
		return nil, fmt.Errorf("error querying exercises: %v", err)
	}
	defer rows.Close()

	var exercises []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.BodyPart, &e.Equipment, &e.Target, &e.SecondaryMuscles, &e.VideoURL); err != nil {
			return nil, fmt.Errorf("error scanning exercise: %v", err)
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

func (s *PostgresStorage) FoodsForGoal(ctx context.Context, goal string) ([]models.Food, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT food_id, name, calories, protein, carbs, fat, category, goal
		FROM foods
		WHERE goal LIKE $1 OR goal = 'all'`, "%"+goal+"%")
	if err != nil {
		return nil, fmt.Errorf("error querying foods: %v", err)
	}
	defer rows.Close()

	var foods []models.Food
	for rows.Next() {
		var f models.Food
		if err := rows.Scan(&f.ID, &f.Name, &f.Calories, &f.Protein, &f.Carbs, &f.Fat, &f.Category, &f.Goal); err != nil {
			return nil, fmt.Errorf("error scanning food: %v", err)
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
