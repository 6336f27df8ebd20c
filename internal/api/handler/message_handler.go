package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linguachat/chat-api/internal/core/ports"
)

type MessageHandler struct {
	messageService ports.MessageService
}

func NewMessageHandler(messageService ports.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SidebarUsers lists every user except the caller.
//
// @Summary      List chat partners
// @Tags         messages
// @Produce      json
// @Success      200  {array}   userResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/messages/users [get]
func (h *MessageHandler) SidebarUsers(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	users, err := h.messageService.SidebarUsers(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, resp)
}

// History returns the conversation between the caller and :userId, oldest
// first. An unknown or message-less conversation yields an empty list.
//
// @Summary      Fetch conversation history
// @Tags         messages
// @Produce      json
// @Param        userId  path      string  true  "Other user's id"
// @Success      200     {array}   domain.Message
// @Failure      401     {object}  map[string]string
// @Router       /api/messages/{userId} [get]
func (h *MessageHandler) History(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	msgs, err := h.messageService.History(c.Request().Context(), userID, c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

// Send persists a new message to :userId and triggers the realtime push.
//
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        userId  path      string              true  "Recipient's id"
// @Param        body    body      sendMessageRequest  true  "Message content"
// @Success      201     {object}  domain.Message
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Router       /api/messages/send/{userId} [post]
func (h *MessageHandler) Send(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	msg, err := h.messageService.Send(c.Request().Context(), ports.SendMessageInput{
		SenderID:   userID,
		ReceiverID: c.Param("userId"),
		Text:       req.Text,
		Image:      req.Image,
		TargetLang: req.TargetLang,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, msg)
}
