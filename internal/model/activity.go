package model

import "time"

const (
	ActivityRegister = "register"
	ActivityUpdate   = "update"
	ActivityFollow   = "follow"
	ActivityUnfollow = "unfollow"
)

// Activity is an audit record of a user-triggered state change. It is
// delivered through the activity queue and persisted by a worker.
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"size:32;not null;index" json:"kind"`
	ActorID   uint      `gorm:"not null;index" json:"actor_id"`
	SubjectID uint      `gorm:"index" json:"subject_id"`
	CreatedAt time.Time `json:"created_at"`
}
