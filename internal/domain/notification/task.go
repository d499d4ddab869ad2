package notification

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TaskTypeDispatch is the asynq task type for deferred notification dispatch.
const TaskTypeDispatch = "notification:dispatch"

// DispatchPayload is the serialized payload for a deferred dispatch task.
type DispatchPayload struct {
	NotificationID string `json:"notification_id"`
}

// NewDispatchTask creates an asynq task that dispatches a stored notification.
func NewDispatchTask(notificationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(DispatchPayload{NotificationID: notificationID})
	if err != nil {
		return nil, fmt.Errorf("marshaling task payload: %w", err)
	}
	return asynq.NewTask(TaskTypeDispatch, payload), nil
}

// ParseDispatchPayload deserializes the task payload.
func ParseDispatchPayload(data []byte) (*DispatchPayload, error) {
	var p DispatchPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling task payload: %w", err)
	}
	return &p, nil
}
