package controllers

import (
	"fmt"
	"net/http"

	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/pkg/bind"
	"github.com/workhive/workhive/pkg/middleware"
	"github.com/workhive/workhive/pkg/response"
	"github.com/workhive/workhive/pkg/ws"
)

type ChatController struct {
	service *services.ChatService
	hub     *ws.Hub
}

func NewChatController(service *services.ChatService, hub *ws.Hub) *ChatController {
	return &ChatController{service: service, hub: hub}
}

type openConversationInput struct {
	PeerID uint `json:"peer_id" validate:"required,integer,gte=1"`
}

func (c *ChatController) Open(w http.ResponseWriter, r *http.Request) {
	var in openConversationInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	userID, _ := middleware.UserIDFromCtx(r.Context())
	conv, err := c.service.OpenConversation(userID, in.PeerID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, conv)
}

func (c *ChatController) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r.Context())
	list, err := c.service.Conversations(userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, list)
}

func (c *ChatController) Messages(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	userID, _ := middleware.UserIDFromCtx(r.Context())
	msgs, err := c.service.Messages(id, userID, 50)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, msgs)
}

type sendMessageInput struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

// Send posts a message; one coin is debited atomically with the write.
func (c *ChatController) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	var in sendMessageInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	userID, _ := middleware.UserIDFromCtx(r.Context())
	msg, err := c.service.Send(id, userID, in.Body)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, msg)
}

// Balance returns the caller's coin balance.
func (c *ChatController) Balance(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r.Context())
	balance, err := c.service.Balance(userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]int64{"balance": balance})
}

// Socket upgrades to a websocket scoped to one conversation. Live
// messages for the room are pushed down this connection.
func (c *ChatController) Socket(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	userID, _ := middleware.UserIDFromCtx(r.Context())
	if _, err := c.service.Messages(id, userID, 1); err != nil {
		fail(w, r, err)
		return
	}

	ws.Upgrade(w, r, c.hub, fmt.Sprintf("conversation:%d", id), userID)
}
