package dto

import "time"

type LogListRequest struct {
	Level string `query:"level"`
	Page  int    `query:"page"`
	Limit int    `query:"limit"`
}

// LogListResponse.Id is an MD5 of the raw line, not a UUID.
type LogListResponse struct {
	Id        string    `json:"id"`
	Level     string    `json:"level"`
	Module    string    `json:"module"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type LogDetailResponse struct {
	LogListResponse
	Caller  string                 `json:"caller,omitempty"`
	Details map[string]interface{} `json:"details"`
}
