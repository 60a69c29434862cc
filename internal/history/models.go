package history

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run records one browse of a project: what was selected and how far the
// workflow got.
type Run struct {
	ID             string    `json:"id"`
	Project        string    `json:"project"`
	GroupName      string    `json:"group_name,omitempty"`
	Construct      string    `json:"construct,omitempty"`
	ShotCount      int       `json:"shot_count"`
	ThumbnailCount int       `json:"thumbnail_count"`
	Status         string    `json:"status"`
	Error          string    `json:"error,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

// Thumbnail records a still image written to disk during a run.
type Thumbnail struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	ShotUUID  string    `json:"shot_uuid"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

func NewID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}
