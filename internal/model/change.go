package model

import (
	"time"

	"github.com/google/uuid"
)

// 變更通知涵蓋的資料表
const (
	TableEvents        = "events"
	TableRegistrations = "event_registrations"
	TableLikes         = "event_likes"
	TableComments      = "event_comments"
	TableProfiles      = "profiles"
)

type ChangeAction string

const (
	ChangeInsert ChangeAction = "insert"
	ChangeUpdate ChangeAction = "update"
	ChangeDelete ChangeAction = "delete"
)

func (a ChangeAction) IsValid() bool {
	switch a {
	case ChangeInsert, ChangeUpdate, ChangeDelete:
		return true
	}
	return false
}

// ChangeEvent 一筆資料變更通知。EventID 為受影響的活動 (profiles 變更時為 uuid.Nil)。
type ChangeEvent struct {
	Table      string       `json:"table"`
	Action     ChangeAction `json:"action"`
	RecordID   uuid.UUID    `json:"record_id"`
	EventID    uuid.UUID    `json:"event_id"`
	OccurredAt time.Time    `json:"occurred_at"`
}

func NewChangeEvent(table string, action ChangeAction, recordID, eventID uuid.UUID) ChangeEvent {
	return ChangeEvent{
		Table:      table,
		Action:     action,
		RecordID:   recordID,
		EventID:    eventID,
		OccurredAt: time.Now().UTC(),
	}
}
