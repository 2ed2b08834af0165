package main

import (
	"log"
	"net/http"

	"gamelobby/backend/internal/auth"
	"gamelobby/backend/internal/config"
	"gamelobby/backend/internal/database"
	"gamelobby/backend/internal/handler"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "gamelobby/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Game Lobby API
// @version         1.0
// @description     Membership lifecycle for fixed-capacity game lobbies.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.GET("/:id", handler.GetUserByID)
		}

		// Public lobby reads; an optional token marks the viewer's own membership
		lobbyReads := apiV1.Group("/lobbies")
		lobbyReads.Use(auth.OptionalAuthMiddleware())
		{
			lobbyReads.GET("", handler.SearchLobbies)
			lobbyReads.GET("/:id", handler.GetLobbyByID)
			lobbyReads.GET("/:id/events", handler.LobbyEvents)
		}

		// Lobby membership operations (protected)
		lobbyRoutes := apiV1.Group("/lobbies")
		lobbyRoutes.Use(auth.AuthMiddleware())
		{
			lobbyRoutes.POST("", handler.CreateLobby)
			lobbyRoutes.POST("/:id/join", handler.JoinLobby)
			lobbyRoutes.POST("/leave", handler.LeaveLobby) // No ID needed, user leaves their own lobby
			lobbyRoutes.POST("/:id/finish", handler.FinishLobby)
			lobbyRoutes.POST("/:id/messages", handler.PostMessage)
			lobbyRoutes.GET("/:id/messages", handler.GetMessages)
		}

		// Family catalog (public reads)
		familyRoutes := apiV1.Group("/families")
		{
			familyRoutes.GET("", handler.GetFamilies)
			familyRoutes.GET("/:id", handler.GetFamilyByID)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			families := adminRoutes.Group("/families")
			{
				families.POST("", handler.CreateFamily)
				families.PUT("/:id", handler.UpdateFamily)
				families.DELETE("/:id", handler.DeleteFamily)
			}
		}
	}

	log.Printf("Server is running on %s", config.AppConfig.ListenAddr)
	log.Printf("Swagger UI is available at http://localhost%s/swagger/index.html", config.AppConfig.ListenAddr)
	log.Fatal(router.Run(config.AppConfig.ListenAddr))
}
