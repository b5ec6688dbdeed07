// Package routes wires the HTTP API onto a gin engine.
package routes

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kgn-corner/restaurant-api/config"
	"github.com/kgn-corner/restaurant-api/controllers"
	"github.com/kgn-corner/restaurant-api/middleware"
	"github.com/kgn-corner/restaurant-api/models"
)

// SetupRouter builds the engine with every /api route registered
func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(slog.Default()))
	router.Use(corsMiddleware(cfg))

	auth := middleware.EnsureValidToken(cfg)
	optionalAuth := middleware.OptionalAuth(cfg)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	api := router.Group("/api")
	{
		api.GET("/health", controllers.HealthCheck)
		api.GET("/database/status", controllers.DatabaseStatus)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", controllers.Register)
			authRoutes.POST("/login", controllers.Login)
			authRoutes.GET("/me", auth, controllers.GetMyProfile)
			authRoutes.PUT("/update", auth, controllers.UpdateMyProfile)
			authRoutes.GET("/users", auth, adminOnly, controllers.ListUsers)
			authRoutes.DELETE("/users/:id", auth, adminOnly, controllers.DeleteUser)
		}

		menu := api.Group("/menu")
		{
			menu.GET("", controllers.ListMenu)
			menu.GET("/recommendations", controllers.ListRecommendations)
			menu.GET("/:id", controllers.GetMenuItem)
			menu.POST("", auth, adminOnly, controllers.CreateMenuItem)
			menu.PUT("/:id", auth, adminOnly, controllers.UpdateMenuItem)
			menu.DELETE("/:id", auth, adminOnly, controllers.DeleteMenuItem)
			menu.POST("/:id/image", auth, adminOnly, controllers.UploadMenuImage)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", optionalAuth, controllers.CreateOrder)
			orders.GET("", auth, adminOnly, controllers.ListOrders)
			orders.GET("/user/my", auth, controllers.ListMyOrders)
			orders.GET("/:id", auth, controllers.GetOrder)
			orders.POST("/:id/payment/intent", auth, controllers.CreatePaymentIntent)
			orders.POST("/:id/payment", auth, controllers.ProcessPayment)
			orders.PUT("/:id", auth, adminOnly, controllers.UpdateOrder)
			orders.DELETE("/:id", auth, adminOnly, controllers.DeleteOrder)
		}

		reservations := api.Group("/reservations")
		{
			reservations.POST("", optionalAuth, controllers.CreateReservation)
			reservations.GET("", auth, adminOnly, controllers.ListReservations)
			reservations.GET("/user/my", auth, controllers.ListMyReservations)
			reservations.GET("/:id", auth, controllers.GetReservation)
			reservations.PUT("/:id/cancel", auth, controllers.CancelReservation)
			reservations.PUT("/:id", auth, adminOnly, controllers.UpdateReservation)
			reservations.DELETE("/:id", auth, adminOnly, controllers.DeleteReservation)
		}

		contact := api.Group("/contact")
		{
			contact.POST("", controllers.CreateContact)
			contact.GET("", auth, adminOnly, controllers.ListContacts)
			contact.GET("/:id", auth, adminOnly, controllers.GetContact)
			contact.PUT("/:id", auth, adminOnly, controllers.UpdateContact)
		}

		api.GET("/restaurant", controllers.GetRestaurant)
		api.PUT("/restaurant", auth, adminOnly, controllers.UpdateRestaurant)

		testimonials := api.Group("/testimonials")
		{
			testimonials.GET("", controllers.ListTestimonials)
			testimonials.POST("", controllers.SubmitTestimonial)
			testimonials.GET("/all", auth, adminOnly, controllers.ListAllTestimonials)
			testimonials.PUT("/:id", auth, adminOnly, controllers.UpdateTestimonial)
			testimonials.DELETE("/:id", auth, adminOnly, controllers.DeleteTestimonial)
		}
	}

	return router
}

// corsMiddleware allows the configured origins, or any origin when none are set
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	return cors.New(corsConfig)
}
