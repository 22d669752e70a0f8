package controllers

import (
	"net/http"

	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/pkg/middleware"
	"github.com/workhive/workhive/pkg/response"
)

type NotificationController struct {
	service *services.NotificationService
}

func NewNotificationController(service *services.NotificationService) *NotificationController {
	return &NotificationController{service: service}
}

// List returns the caller's notifications, newest first. ?unread=1
// filters to unread.
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r.Context())
	unreadOnly := r.URL.Query().Get("unread") == "1"

	list, err := c.service.ListForUser(userID, unreadOnly)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, list)
}

// MarkRead flips one of the caller's notifications to read.
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	userID, _ := middleware.UserIDFromCtx(r.Context())
	if err := c.service.MarkRead(id, userID); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]uint{"read": id})
}
