package utils

import (
	"github.com/google/uuid"

	"github.com/turtacn/xpx/pkg/constants"
)

// NewRequestID generates a REQ-<uuid> request identifier.
func NewRequestID() string {
	return constants.RequestIDPrefix + uuid.NewString()
}
