package handler

import (
	"net/http"

	"eventease/internal/model"
	"eventease/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.Engine, authn RouteAuth) {
	me := r.Group("/api/v1/me", authn.Required)
	{
		me.GET("profile", h.GetMe)
		me.PUT("profile", h.UpdateMe)
		me.POST("avatar", h.UploadAvatar)
		me.GET("notifications", h.GetNotifications)
		me.PUT("notifications", h.UpdateNotifications)
	}

	profiles := r.Group("/api/v1/profiles/:id")
	{
		profiles.GET("", authn.Optional, h.Get)
		profiles.POST("follow", authn.Required, h.Follow)
		profiles.DELETE("follow", authn.Required, h.Unfollow)
	}
}

// ProfileResponse 他人的公開資料，登入時附帶是否已追蹤
type ProfileResponse struct {
	*model.Profile
	IsFollowing *bool `json:"is_following,omitempty"`
}

// NotificationPreferencesRequest 全部欄位必填
type NotificationPreferencesRequest struct {
	EmailNotifications *bool `json:"email_notifications" binding:"required"`
	InAppNotifications *bool `json:"in_app_notifications" binding:"required"`
	MarketingEmails    *bool `json:"marketing_emails" binding:"required"`
	EventReminders     *bool `json:"event_reminders" binding:"required"`
}

func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	profile, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err, "GetMe")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	var req model.UpdateProfileRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	profile, err := h.service.Update(c.Request.Context(), userID, req)
	if err != nil {
		handleError(c, err, "UpdateProfile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is required"})
		return
	}
	if header.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Avatar must be 10MB or smaller"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid avatar upload"})
		return
	}
	defer file.Close()

	profile, err := h.service.UploadAvatar(c.Request.Context(), userID, file)
	if err != nil {
		handleError(c, err, "UploadAvatar")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetNotifications(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	prefs, err := h.service.GetNotificationPreferences(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err, "GetNotificationPreferences")
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *ProfileHandler) UpdateNotifications(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	var req NotificationPreferencesRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	prefs, err := h.service.UpdateNotificationPreferences(c.Request.Context(), model.NotificationPreferences{
		UserID:             userID,
		EmailNotifications: *req.EmailNotifications,
		InAppNotifications: *req.InAppNotifications,
		MarketingEmails:    *req.MarketingEmails,
		EventReminders:     *req.EventReminders,
	})
	if err != nil {
		handleError(c, err, "UpdateNotificationPreferences")
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *ProfileHandler) Get(c *gin.Context) {
	profileID, ok := ParseUUIDParam(c, "id", "profile")
	if !ok {
		return
	}
	profile, err := h.service.Get(c.Request.Context(), profileID)
	if err != nil {
		handleError(c, err, "GetProfile")
		return
	}

	resp := ProfileResponse{Profile: profile}
	if viewer := OptionalUserID(c); viewer != nil && *viewer != profileID {
		following, err := h.service.IsFollowing(c.Request.Context(), *viewer, profileID)
		if err != nil {
			handleError(c, err, "IsFollowing")
			return
		}
		resp.IsFollowing = &following
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) Follow(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	profileID, ok := ParseUUIDParam(c, "id", "profile")
	if !ok {
		return
	}
	follow, err := h.service.Follow(c.Request.Context(), userID, profileID)
	if err != nil {
		handleError(c, err, "Follow")
		return
	}
	c.JSON(http.StatusCreated, follow)
}

func (h *ProfileHandler) Unfollow(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	profileID, ok := ParseUUIDParam(c, "id", "profile")
	if !ok {
		return
	}
	if err := h.service.Unfollow(c.Request.Context(), userID, profileID); err != nil {
		handleError(c, err, "Unfollow")
		return
	}
	c.Status(http.StatusNoContent)
}
