package audit

import "encoding/json"

type ListFilter struct {
	TargetUserID string
	Action       string
	Limit        int
}

type AuditResponse struct {
	ID           string          `json:"id"`
	ActorID      *string         `json:"actor_id,omitempty"`
	TargetUserID string          `json:"target_user_id"`
	Action       string          `json:"action"`
	Changes      json.RawMessage `json:"changes,omitempty"`
	CreatedAt    string          `json:"created_at"`
}
