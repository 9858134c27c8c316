// Package service contains outbound side effects the scheduler fires
// after persisting events: the internal attendance-mark calls and the
// best-effort broker publish.  Both are fire-and-forget relative to
// persistence; their failures are logged, never retried, and never
// affect the scheduler's own response.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/iliyamo/attendance-scheduler/internal/model"
)

// Marker posts attendance marks to the internal API for events the
// upsert newly created.
type Marker struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func NewMarker(baseURL, apiKey string) *Marker {
	return &Marker{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// markRequest is the body of the internal mark endpoint.
type markRequest struct {
	EventType string `json:"eventType"`
	UserID    string `json:"userId"`
}

// MarkAll fans out one mark call per inserted event and joins the
// whole set before returning.  The calls run concurrently with no
// ordering guarantee; each failure is logged independently and does
// not cancel its siblings.
func (m *Marker) MarkAll(ctx context.Context, events []model.ScheduleEvent) {
	var wg sync.WaitGroup
	for _, ev := range events {
		wg.Add(1)
		go func(ev model.ScheduleEvent) {
			defer wg.Done()
			if err := m.mark(ctx, ev.EventType, ev.UserID); err != nil {
				log.Printf("attendance-mark: user=%s type=%s: %v", ev.UserID, ev.EventType, err)
			}
		}(ev)
	}
	wg.Wait()
}

// mark performs one POST to the internal mark endpoint.  The response
// body is only read to enrich the error on non-2xx statuses.
func (m *Marker) mark(ctx context.Context, eventType, userID string) error {
	body, err := json.Marshal(markRequest{EventType: eventType, UserID: userID})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.baseURL+"/api/v1/attendance/mark/internal", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Key", m.apiKey)

	resp, err := m.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
