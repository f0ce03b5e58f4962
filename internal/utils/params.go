package utils

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
)

func getUintParam(ctx *gin.Context, name, label string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New(label + " not found")
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, errors.New("Invalid " + label)
	}

	return uint(id), nil
}

func GetEventID(ctx *gin.Context) (uint, error) {
	return getUintParam(ctx, "event_id", "Event ID")
}

func GetUserID(ctx *gin.Context) (uint, error) {
	return getUintParam(ctx, "user_id", "User ID")
}

func GetCommentID(ctx *gin.Context) (uint, error) {
	return getUintParam(ctx, "comment_id", "Comment ID")
}

func GetEventCommentID(ctx *gin.Context) (uint, uint, error) {
	eventID, err := GetEventID(ctx)

	if err != nil {
		return 0, 0, err
	}

	commentID, err := GetCommentID(ctx)

	if err != nil {
		return 0, 0, err
	}

	return eventID, commentID, nil
}

const MaxTagLength = 32

// NormalizeTag lowercases a tag and turns spaces and underscores into dashes:
// "Board Games" becomes "board-games".
func NormalizeTag(input string) string {
	tag := strings.ToLower(strings.TrimSpace(input))
	tag = strings.Join(strings.FieldsFunc(tag, func(r rune) bool {
		return unicode.IsSpace(r) || r == '_'
	}), "-")
	tag = strings.Trim(tag, "-")

	return tag
}

// IsValidTag reports whether tag is a normalized slug of letters, digits and dashes.
func IsValidTag(tag string) bool {
	if tag == "" || len(tag) > MaxTagLength {
		return false
	}

	for _, r := range tag {
		if !(unicode.IsLetter(r) && unicode.IsLower(r)) && !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}

	return true
}

// NormalizeTags normalizes, validates and de-duplicates tags, preserving order.
func NormalizeTags(input []string) ([]string, error) {
	seen := make(map[string]bool, len(input))
	tags := make([]string, 0, len(input))

	for _, raw := range input {
		tag := NormalizeTag(raw)

		if tag == "" {
			continue
		}

		if !IsValidTag(tag) {
			return nil, errors.New("invalid tag: " + raw)
		}

		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	return tags, nil
}
