package util

import (
	"regexp"

	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func IsValidUUID(s string) bool {
	if s == "" {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

func IsValidEnum(value string, validValues []string) bool {
	if value == "" {
		return true
	}
	for _, v := range validValues {
		if value == v {
			return true
		}
	}
	return false
}
