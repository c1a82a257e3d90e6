package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/macrolog/macrolog/backend/internal/service"
	"github.com/macrolog/macrolog/backend/internal/types"
)

type GoalHandler struct {
	goalService service.IGoalService
}

func NewGoalHandler(goalService service.IGoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

func (h *GoalHandler) RegisterRoutes(router *gin.RouterGroup) {
	goals := router.Group("/goals")
	{
		goals.GET("", h.GetGoal)
		goals.PUT("", h.UpdateGoal)
		goals.GET("/history", h.GetHistory)
		goals.GET("/for-date", h.GetGoalForDate)
	}
}

func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	summary, err := h.goalService.GetCurrentGoal(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req types.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	summary, err := h.goalService.UpdateGoal(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *GoalHandler) GetHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	history, err := h.goalService.GetHistory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *GoalHandler) GetGoalForDate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	date := c.Query("date")
	goal, err := h.goalService.GetGoalForDate(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "goal": goal})
}
