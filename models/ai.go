package models

import "time"

// ChatRequest is the payload posted to /api/chat.
type ChatRequest struct {
	Message string `json:"message"` // typed text or a speech-to-text transcript
}

// ChatResponse is the conversational reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// TranscriptionResponse is returned by /api/chat/transcribe.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// PendingContext is the single partially resolved booking intent kept per user.
type PendingContext struct {
	FacilityID string    `json:"facilityId"`
	Date       string    `json:"date,omitempty"` // empty when the date is still missing
	UpdatedAt  time.Time `json:"updatedAt"`
}
