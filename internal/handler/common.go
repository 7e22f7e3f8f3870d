package handler

import (
	"context"
	"errors"
	"net/http"

	"eventease/internal/auth"
	apperrors "eventease/pkg/app_errors"
	"eventease/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// maxUploadSize 活動圖片與頭像上限
	maxUploadSize = 10 << 20
	// statusClientClosedRequest nginx 慣用的 499
	statusClientClosedRequest = 499
)

// RouteAuth 需要登入與可選登入的 middleware
type RouteAuth struct {
	Required gin.HandlerFunc
	Optional gin.HandlerFunc
}

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// BindForm multipart 表單
func BindForm(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBind(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// ParseUUIDParam 解析路徑上的 uuid，失敗時回 400
func ParseUUIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label + " id"})
		return uuid.Nil, false
	}
	return id, true
}

// RequireUserID 取得登入者 id；沒有身分時回 401
func RequireUserID(c *gin.Context) (uuid.UUID, bool) {
	identity, ok := auth.CurrentUser(c)
	if !ok || identity.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return uuid.Nil, false
	}
	return identity.UserID, true
}

// OptionalUserID 訪客回傳 nil
func OptionalUserID(c *gin.Context) *uuid.UUID {
	identity, ok := auth.CurrentUser(c)
	if !ok || identity.UserID == uuid.Nil {
		return nil
	}
	id := identity.UserID
	return &id
}

func isMultipart(c *gin.Context) bool {
	return c.ContentType() == "multipart/form-data"
}

func handleError(c *gin.Context, err error, operation string) {
	status, body := errorResponse(err, operation)
	if body == nil {
		c.Status(status)
		return
	}
	c.JSON(status, body)
}

// errorResponse 將錯誤轉成 HTTP 狀態碼與回應內容
func errorResponse(err error, operation string) (int, gin.H) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	var validationErr *apperrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		log.Info("Validation failed")
		return http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": validationErr.Fields}
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		return http.StatusBadRequest, gin.H{"error": "Invalid input"}
	case errors.Is(err, apperrors.ErrCannotFollowSelf):
		return http.StatusBadRequest, gin.H{"error": "You cannot follow yourself"}
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, gin.H{"error": "Authentication required"}
	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn("Forbidden")
		return http.StatusForbidden, gin.H{"error": "You are not allowed to modify this resource"}
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		return http.StatusNotFound, gin.H{"error": "Event not found"}
	case errors.Is(err, apperrors.ErrCommentNotFound):
		return http.StatusNotFound, gin.H{"error": "Comment not found"}
	case errors.Is(err, apperrors.ErrProfileNotFound):
		return http.StatusNotFound, gin.H{"error": "Profile not found"}
	case errors.Is(err, apperrors.ErrAddressNotFound):
		return http.StatusNotFound, gin.H{"error": "Address not found"}
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		return http.StatusConflict, gin.H{"error": "Already registered for this event"}
	case errors.Is(err, apperrors.ErrNotRegistered):
		return http.StatusConflict, gin.H{"error": "Not registered for this event"}
	case errors.Is(err, apperrors.ErrAlreadyLiked), errors.Is(err, apperrors.ErrNotLiked):
		return http.StatusConflict, gin.H{"error": "Like state changed, please retry"}
	case errors.Is(err, apperrors.ErrAlreadyFollowing):
		return http.StatusConflict, gin.H{"error": "Already following"}
	case errors.Is(err, apperrors.ErrNotFollowing):
		return http.StatusConflict, gin.H{"error": "Not following"}
	case errors.Is(err, apperrors.ErrUpstream),
		errors.Is(err, apperrors.ErrUploadFailed),
		errors.Is(err, context.DeadlineExceeded):
		log.Error("Upstream unavailable")
		return http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable, please try again"}
	case errors.Is(err, context.Canceled):
		// 用戶端已離開，不寫回應內容
		log.Info("Request canceled")
		return statusClientClosedRequest, nil
	default:
		log.Error("Unexpected error")
		return http.StatusInternalServerError, gin.H{"error": "Internal server error"}
	}
}
