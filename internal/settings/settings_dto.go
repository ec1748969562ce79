package settings

import "encoding/json"

type UpsertSettingRequest struct {
	Value       json.RawMessage `json:"value" binding:"required"`
	Description *string         `json:"description"`
}

type SettingResponse struct {
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	Description *string         `json:"description,omitempty"`
	UpdatedBy   *string         `json:"updated_by,omitempty"`
	UpdatedAt   *string         `json:"updated_at,omitempty"`
	IsDefault   bool            `json:"is_default"`
}
