package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JoaoPedroVicentin/daily-diet-api/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	userH *UserHandler,
	mealH *MealHandler,
	healthH *HealthHandler,
	sessions service.SessionStore,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/health", healthH.Check)

	users := r.Group("/users")
	users.POST("", userH.CreateUser)

	meals := r.Group("/meals")
	meals.Use(SessionAuthMiddleware(sessions))
	meals.GET("", mealH.ListMeals)
	meals.GET("/metrics", mealH.GetMetrics)
	meals.GET("/:id", mealH.GetMeal)
	meals.POST("", mealH.CreateMeal)
	meals.PUT("/:id", mealH.UpdateMeal)
	meals.DELETE("/:id", mealH.DeleteMeal)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
