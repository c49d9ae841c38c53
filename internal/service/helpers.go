package service

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var slugPattern = regexp.MustCompile(`^[a-z0-9-]{3,200}$`)

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

func validSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

func validURL(value string) bool {
	return validate.Var(value, "required,url") == nil
}

func validEmail(value string) bool {
	return validate.Var(value, "required,email") == nil
}

// clampLimit applies the listing bounds: default 20, never above 100.
func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
