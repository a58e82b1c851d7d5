package activities

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mouradhm/migrations-dashboard/pkg/models"
)

// ErrUnexpectedStatus is returned when the activity API answers with a non-2xx status
var ErrUnexpectedStatus = errors.New("unexpected status code")

const defaultRequestTimeout = 30 * time.Second

// Fetcher retrieves the current list of activity records
type Fetcher interface {
	FetchActivities(ctx context.Context) ([]models.ActivityRecord, error)
}

// Client fetches activities from the activity API over HTTP
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Client for endpoint, e.g. http://localhost:8080/api/activities
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchActivities issues GET on the endpoint and decodes the activities list.
// A null body or a missing activities field yields an empty list.
func (c *Client) FetchActivities(ctx context.Context) ([]models.ActivityRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return decodeActivities(body)
}

func decodeActivities(body []byte) ([]models.ActivityRecord, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []models.ActivityRecord{}, nil
	}

	var response *models.ActivitiesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}

	if response == nil || response.Activities == nil {
		return []models.ActivityRecord{}, nil
	}

	return response.Activities, nil
}
