package handler

import (
	"Cipherchat/internal/api/dto"
	"Cipherchat/internal/pkg/response"
	"Cipherchat/internal/service"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactSvc service.ContactService
}

func NewContactHandler(contactSvc service.ContactService) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc}
}

func (s *ContactHandler) AddContact(c *gin.Context) {
	var addDTO dto.AddContactDTO
	if !bindAndValidate(c, &addDTO) {
		return
	}
	contact, err := s.contactSvc.AddContact(c.Request.Context(), currentUserID(c), &addDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"contact": contact})
}

func (s *ContactHandler) RemoveContact(c *gin.Context) {
	contactID, ok := paramUint64(c, "id")
	if !ok {
		return
	}
	if err := s.contactSvc.RemoveContact(c.Request.Context(), currentUserID(c), contactID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
