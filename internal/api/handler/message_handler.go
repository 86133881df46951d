package handler

import (
	"Cipherchat/internal/api/dto"
	"Cipherchat/internal/pkg/response"
	"Cipherchat/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageSvc service.MessageService
}

func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

func (s *MessageHandler) GetUsersForSidebar(c *gin.Context) {
	contacts, err := s.messageSvc.GetSidebarContacts(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, contacts)
}

func (s *MessageHandler) GetMessages(c *gin.Context) {
	peerID, ok := paramUint64(c, "id")
	if !ok {
		return
	}
	messages, err := s.messageSvc.GetMessages(c.Request.Context(), currentUserID(c), peerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, messages)
}

func (s *MessageHandler) SendMessage(c *gin.Context) {
	receiverID, ok := paramUint64(c, "id")
	if !ok {
		return
	}
	var sendDTO dto.SendMessageDTO
	if !bindAndValidate(c, &sendDTO) {
		return
	}
	msg, err := s.messageSvc.SendMessage(c.Request.Context(), currentUserID(c), receiverID, &sendDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, msg)
}

func (s *MessageHandler) DeleteMessage(c *gin.Context) {
	messageID := c.Param("messageId")
	if err := s.messageSvc.DeleteMessage(c.Request.Context(), currentUserID(c), messageID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"messageId": messageID})
}
