package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cane-field-api/internal/metrics"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTaskAssigned         NotificationType = "TASK_ASSIGNED"
	NotificationTaskCompleted        NotificationType = "TASK_COMPLETED"
	NotificationFertilizationDelayed NotificationType = "FERTILIZATION_DELAYED"
	NotificationHarvestOverdue       NotificationType = "HARVEST_OVERDUE"
	NotificationCycleStarted         NotificationType = "CYCLE_STARTED"
	NotificationHarvestRecorded      NotificationType = "HARVEST_RECORDED"
)

// NotificationEvent represents a notification to be sent
type NotificationEvent struct {
	Type         NotificationType       `json:"type"`
	TargetUserID uuid.UUID              `json:"targetUserId"`
	Message      string                 `json:"message"`
	RelatedID    uuid.UUID              `json:"relatedId"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt   string                 `json:"occurredAt,omitempty"`
}

// NotificationClient defines the interface for notification dispatch.
// Dispatch is fire-and-forget: failures are logged and contained, never
// propagated to the triggering operation.
type NotificationClient interface {
	Notify(ctx context.Context, event NotificationEvent) error
	NotifyBulk(ctx context.Context, events []NotificationEvent) error
}

// notificationClient implements NotificationClient over the notification
// service's internal HTTP API
type notificationClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewNotificationClient creates a new notification API client
func NewNotificationClient(baseURL string, apiKey string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) NotificationClient {
	return &notificationClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// Notify sends a single notification to the notification service
func (c *notificationClient) Notify(ctx context.Context, event NotificationEvent) error {
	url := fmt.Sprintf("%s/api/internal/notifications", c.baseURL)

	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	jsonBody, err := json.Marshal(event)
	if err != nil {
		c.logger.Error("Failed to marshal notification event",
			zap.Error(err),
			zap.String("type", string(event.Type)),
		)
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	return c.post(ctx, url, jsonBody, string(event.Type), 1)
}

// NotifyBulk sends multiple notifications at once
func (c *notificationClient) NotifyBulk(ctx context.Context, events []NotificationEvent) error {
	if len(events) == 0 {
		return nil
	}

	url := fmt.Sprintf("%s/api/internal/notifications/bulk", c.baseURL)

	now := time.Now().UTC().Format(time.RFC3339)
	for i := range events {
		if events[i].OccurredAt == "" {
			events[i].OccurredAt = now
		}
	}

	jsonBody, err := json.Marshal(struct {
		Notifications []NotificationEvent `json:"notifications"`
	}{Notifications: events})
	if err != nil {
		c.logger.Error("Failed to marshal bulk notification request",
			zap.Error(err),
			zap.Int("count", len(events)),
		)
		return fmt.Errorf("failed to marshal notifications: %w", err)
	}

	return c.post(ctx, url, jsonBody, "bulk", len(events))
}

func (c *notificationClient) post(ctx context.Context, url string, body []byte, kind string, count int) error {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("Failed to create notification request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(url, "POST", statusCode, duration, err)
	}

	if err != nil {
		c.logger.Error("Failed to send notification",
			zap.Error(err),
			zap.String("kind", kind),
			zap.Int("count", count),
			zap.Duration("duration", duration),
		)
		// Graceful degradation: log error but don't fail the main operation
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug("Notification sent",
			zap.String("kind", kind),
			zap.Int("count", count),
			zap.Duration("duration", duration),
		)
		return nil
	}

	c.logger.Warn("Notification service returned non-success status",
		zap.Int("status_code", resp.StatusCode),
		zap.String("kind", kind),
		zap.Duration("duration", duration),
	)

	// Graceful degradation
	return nil
}

// NoOpNotificationClient is a no-op implementation for when notifications are disabled
type NoOpNotificationClient struct{}

func NewNoOpNotificationClient() NotificationClient {
	return &NoOpNotificationClient{}
}

func (c *NoOpNotificationClient) Notify(ctx context.Context, event NotificationEvent) error {
	return nil
}

func (c *NoOpNotificationClient) NotifyBulk(ctx context.Context, events []NotificationEvent) error {
	return nil
}
