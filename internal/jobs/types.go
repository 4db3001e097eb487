package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/briangreenhill/cityexplorer/internal/models"
)

const TaskWarmLocation = "warm:location"

const QueueWarm = "warm"

type WarmLocationPayload struct {
	Location models.Location `json:"location"`
}

func NewWarmLocationTask(loc models.Location) (*asynq.Task, error) {
	payload, err := json.Marshal(WarmLocationPayload{Location: loc})
	if err != nil {
		return nil, fmt.Errorf("marshal warm payload: %w", err)
	}
	return asynq.NewTask(TaskWarmLocation, payload), nil
}

// warmTaskID dedupes warm jobs per location while one is pending.
func warmTaskID(locationID int64) string {
	return fmt.Sprintf("warm:%d", locationID)
}
