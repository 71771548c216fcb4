package ai

import "errors"

var (
	ErrEmptyMessage    = errors.New("message is required")
	ErrBlockedMessage  = errors.New("message touches a banned topic")
	ErrChatUnavailable = errors.New("chat service unavailable")
)
