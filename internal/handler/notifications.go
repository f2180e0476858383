package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"edgebook/internal/repository"
)

type NotificationHandler struct {
	Repo repository.Repository
}

func (h *NotificationHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/notifications")
	group.GET("", h.list)
	group.POST("/:id/read", h.markRead)
}

// @Summary List notifications
// @Tags notifications
// @Produce json
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) list(c *gin.Context) {
	params := repository.ListNotificationsParams{
		UserID:     strQueryPtr(c, "user_id"),
		UnreadOnly: c.Query("unread") == "true",
		Limit:      intQuery(c, "limit", 50),
		Offset:     intQuery(c, "offset", 0),
	}
	items, err := h.Repo.ListNotifications(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) markRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid notification id", nil)
		return
	}
	if err := h.Repo.MarkNotificationRead(c.Request.Context(), id); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"id": id, "read": true}, nil)
}
