// Package integrations relays requests to third-party HTTP services.
package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNotConfigured means the service has no endpoint or credentials.
var ErrNotConfigured = errors.New("integrations: service not configured")

const defaultTimeout = 10 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

// Message is a contact form submission.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactRelay forwards contact form submissions to a webhook.
type ContactRelay struct {
	webhookURL string
	http       *http.Client
}

func NewContactRelay(webhookURL string) *ContactRelay {
	return &ContactRelay{webhookURL: webhookURL, http: newHTTPClient()}
}

func (r *ContactRelay) Send(ctx context.Context, m Message) error {
	if r.webhookURL == "" {
		return ErrNotConfigured
	}
	body, err := json.Marshal(m)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("integrations: webhook: %w", err)
	}
	defer drain(resp)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("integrations: webhook returned %d", resp.StatusCode)
	}
	return nil
}

// Review is one Google review as the Places details API returns it.
type Review struct {
	AuthorName              string `json:"author_name"`
	AuthorURL               string `json:"author_url,omitempty"`
	ProfilePhotoURL         string `json:"profile_photo_url,omitempty"`
	Rating                  int    `json:"rating"`
	RelativeTimeDescription string `json:"relative_time_description,omitempty"`
	Text                    string `json:"text"`
	Time                    int64  `json:"time"`
}

// ReviewSource fetches reviews for one place.
type ReviewSource struct {
	baseURL string
	apiKey  string
	placeID string
	http    *http.Client
}

func NewReviewSource(baseURL, apiKey, placeID string) *ReviewSource {
	return &ReviewSource{baseURL: baseURL, apiKey: apiKey, placeID: placeID, http: newHTTPClient()}
}

// FiveStar returns only the reviews rated 5.
func (s *ReviewSource) FiveStar(ctx context.Context) ([]Review, error) {
	if s.apiKey == "" || s.placeID == "" || s.baseURL == "" {
		return nil, ErrNotConfigured
	}

	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("place_id", s.placeID)
	q.Set("fields", "name,rating,reviews")
	q.Set("key", s.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("integrations: places: %w", err)
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("integrations: places returned %d", resp.StatusCode)
	}

	var payload struct {
		Result *struct {
			Reviews []Review `json:"reviews"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("integrations: places: decode: %w", err)
	}

	out := []Review{}
	if payload.Result == nil {
		return out, nil
	}
	for _, r := range payload.Result.Reviews {
		if r.Rating == 5 {
			out = append(out, r)
		}
	}
	return out, nil
}
