package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/macrolog/macrolog/backend/internal/service"
	"github.com/macrolog/macrolog/backend/internal/types"
)

type MealHandler struct {
	mealService service.IMealService
}

func NewMealHandler(mealService service.IMealService) *MealHandler {
	return &MealHandler{mealService: mealService}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.GET("", h.ListMeals)
		meals.GET("/today", h.GetDailyLog)
		meals.POST("", h.CreateMeal)
		meals.DELETE("/:id", h.DeleteMeal)
		meals.POST("/:id/items", h.AddItem)
		meals.DELETE("/items/:itemId", h.RemoveItem)
	}
}

func (h *MealHandler) GetDailyLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	meal, err := h.mealService.GetOrCreateDailyLog(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) ListMeals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	date := c.Query("date")
	meals, err := h.mealService.ListMeals(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "meals": meals})
}

func (h *MealHandler) CreateMeal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req types.CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name and date are required")
		return
	}
	meal, err := h.mealService.CreateMeal(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (h *MealHandler) DeleteMeal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mealID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.mealService.DeleteMeal(c.Request.Context(), userID, mealID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MealHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mealID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req types.AddMealItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "product_id and grams or units are required")
		return
	}
	item, err := h.mealService.AddItem(c.Request.Context(), userID, mealID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *MealHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := idParam(c, "itemId")
	if !ok {
		return
	}
	if err := h.mealService.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
