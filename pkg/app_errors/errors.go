package apperrors

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrAlreadyRegistered   = errors.New("already registered")
	ErrNotRegistered       = errors.New("not registered")
	ErrAlreadyLiked        = errors.New("already liked")
	ErrNotLiked            = errors.New("not liked")
	ErrCannotFollowSelf    = errors.New("cannot follow yourself")
	ErrAlreadyFollowing    = errors.New("already following")
	ErrNotFollowing        = errors.New("not following")
	ErrLikeStateNotWarm    = errors.New("like state not warmed up")
	ErrAddressNotFound     = errors.New("address not found")
	ErrUpstream            = errors.New("upstream service error")
	ErrUploadFailed        = errors.New("upload failed")
	ErrInternalServerError = errors.New("internal server error")
)

// ValidationError 表單驗證失敗，Fields 為欄位名稱 -> 錯誤訊息
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is 讓 errors.Is(err, ErrInvalidInput) 對驗證錯誤成立
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
