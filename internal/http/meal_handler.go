package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JoaoPedroVicentin/daily-diet-api/internal/service"
)

// MealHandler mantiene dependencias para los endpoints de comidas.
type MealHandler struct {
	logger   *zap.Logger
	mealServ *service.MealService
}

// NewMealHandler crea una instancia de MealHandler con dependencias necesarias.
func NewMealHandler(logger *zap.Logger, mealServ *service.MealService) *MealHandler {
	return &MealHandler{
		logger:   logger,
		mealServ: mealServ,
	}
}

// CreateMeal maneja POST /meals.
func (h *MealHandler) CreateMeal(c *gin.Context) {
	callerID, ok := GetCallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description" binding:"required"`
		DateTime    string `json:"dateTime" binding:"required"`
		OnDiet      *bool  `json:"onDiet" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create meal request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	dateTime, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		h.logger.Warn("invalid meal dateTime", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dateTime"})
		return
	}

	meal, err := h.mealServ.Create(c.Request.Context(), callerID, service.CreateMealInput{
		Name:        req.Name,
		Description: req.Description,
		DateTime:    dateTime,
		OnDiet:      *req.OnDiet,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidMeal) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		h.logger.Error("create meal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create meal"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"meal": meal})
}

// ListMeals maneja GET /meals.
func (h *MealHandler) ListMeals(c *gin.Context) {
	callerID, ok := GetCallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	meals, err := h.mealServ.List(c.Request.Context(), callerID)
	if err != nil {
		h.logger.Error("list meals failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list meals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

// GetMeal maneja GET /meals/:id.
func (h *MealHandler) GetMeal(c *gin.Context) {
	callerID, ok := GetCallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	meal, err := h.mealServ.Get(c.Request.Context(), callerID, c.Param("id"))
	if err != nil {
		h.respondMealError(c, err, "get meal")
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal": meal})
}

// UpdateMeal maneja PUT /meals/:id.
func (h *MealHandler) UpdateMeal(c *gin.Context) {
	callerID, ok := GetCallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		DateTime    *string `json:"dateTime"`
		OnDiet      *bool   `json:"onDiet"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update meal request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	input := service.UpdateMealInput{
		Name:        req.Name,
		Description: req.Description,
		OnDiet:      req.OnDiet,
	}
	if req.DateTime != nil {
		dateTime, err := time.Parse(time.RFC3339, *req.DateTime)
		if err != nil {
			h.logger.Warn("invalid meal dateTime", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dateTime"})
			return
		}
		input.DateTime = &dateTime
	}

	meal, err := h.mealServ.Update(c.Request.Context(), callerID, c.Param("id"), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMeal) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		h.respondMealError(c, err, "update meal")
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal": meal})
}

// DeleteMeal maneja DELETE /meals/:id.
func (h *MealHandler) DeleteMeal(c *gin.Context) {
	callerID, ok := GetCallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	if err := h.mealServ.Delete(c.Request.Context(), callerID, c.Param("id")); err != nil {
		h.respondMealError(c, err, "delete meal")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GetMetrics maneja GET /meals/metrics.
func (h *MealHandler) GetMetrics(c *gin.Context) {
	callerID, ok := GetCallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	metrics, err := h.mealServ.Metrics(c.Request.Context(), callerID)
	if err != nil {
		h.logger.Error("get metrics failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute metrics"})
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// respondMealError traduce errores del servicio a status HTTP. La respuesta
// de 401 nunca incluye contenido de la comida ajena.
func (h *MealHandler) respondMealError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrMealNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
	case errors.Is(err, service.ErrMealNotOwned):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "meal belongs to another user"})
	default:
		h.logger.Error(action+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not " + action})
	}
}
