package handler

import (
	"Shutter/internal/api/dto"
	"Shutter/internal/pkg/response"
	"Shutter/internal/service"

	"github.com/gin-gonic/gin"
)

type EventBoxHandler struct {
	eventBoxSvc service.EventBoxService
}

func NewEventBoxHandler(eventBoxSvc service.EventBoxService) *EventBoxHandler {
	return &EventBoxHandler{eventBoxSvc: eventBoxSvc}
}

func (s *EventBoxHandler) GetEventList(c *gin.Context) {
	var req dto.PageDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}
	req.Normalize()

	list, err := s.eventBoxSvc.GetEventList(c.Request.Context(), c.Param("draft_id"), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *EventBoxHandler) GetUnreadCount(c *gin.Context) {
	out, err := s.eventBoxSvc.GetUnreadCount(c.Request.Context(), c.Param("draft_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *EventBoxHandler) MarkAllRead(c *gin.Context) {
	if err := s.eventBoxSvc.MarkAllRead(c.Request.Context(), c.Param("draft_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
