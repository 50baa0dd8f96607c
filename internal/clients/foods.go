package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tranvd/gymlife-assistant/internal/models"
)

// FoodsClient talks to the foods service: catalog search, meal logging and
// meal history.
type FoodsClient struct {
	baseURL string
	client  *http.Client
}

// NewFoodsClient builds a client for the service at baseURL.
func NewFoodsClient(baseURL string) *FoodsClient {
	return &FoodsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Search looks up foods by name fragment.
func (c *FoodsClient) Search(ctx context.Context, bearer, query string, limit int) ([]models.Food, error) {
	var payload struct {
		Foods []models.Food `json:"foods"`
	}
	u := fmt.Sprintf("%s/foods?q=%s&limit=%d", c.baseURL, url.QueryEscape(query), limit)
	err := get(ctx, c.client, u, bearer, &payload)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload.Foods, nil
}

// List fetches catalog rows without a query filter.
func (c *FoodsClient) List(ctx context.Context, bearer string, limit int) ([]models.Food, error) {
	var payload struct {
		Foods []models.Food `json:"foods"`
	}
	err := get(ctx, c.client, fmt.Sprintf("%s/foods?limit=%d", c.baseURL, limit), bearer, &payload)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload.Foods, nil
}

// MealLog is the payload of a logged meal.
type MealLog struct {
	Date     string            `json:"date"`
	MealType string            `json:"meal_type"`
	Items    []models.MealItem `json:"items"`
}

// AddMeal records a meal for the authenticated user.
func (c *FoodsClient) AddMeal(ctx context.Context, bearer string, meal MealLog) error {
	return post(ctx, c.client, c.baseURL+"/meals", bearer, meal)
}

// History returns saved meals, newest first. A 404 means no meals yet.
func (c *FoodsClient) History(ctx context.Context, bearer string) ([]models.MealHistoryEntry, error) {
	var entries []models.MealHistoryEntry
	err := get(ctx, c.client, c.baseURL+"/meals/history", bearer, &entries)
	if errors.Is(err, ErrNotFound) {
		return []models.MealHistoryEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}
