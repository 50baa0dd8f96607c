package clients

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tranvd/gymlife-assistant/internal/models"
)

// ProgressClient reads the user's progress log from the progress service.
type ProgressClient struct {
	baseURL string
	client  *http.Client
}

// NewProgressClient builds a client for the service at baseURL.
func NewProgressClient(baseURL string) *ProgressClient {
	return &ProgressClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Progress returns all progress entries for the authenticated user. A 404
// means the user has no entries yet and comes back as an empty slice.
func (c *ProgressClient) Progress(ctx context.Context, bearer string) ([]models.ProgressEntry, error) {
	var payload struct {
		Progress []models.ProgressEntry `json:"progress"`
	}
	err := get(ctx, c.client, c.baseURL+"/progress", bearer, &payload)
	if errors.Is(err, ErrNotFound) {
		return []models.ProgressEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return payload.Progress, nil
}
