package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/surveyhq/survey-management-api/internal/constants"
)

// GenerateTempPassword generates a random temporary password handed to
// an employee account created through the admin console.
func GenerateTempPassword() (string, error) {
	bytes := make([]byte, constants.TempPasswordLength/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}
