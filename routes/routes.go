package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/avolkov/surveyhub/controllers"
	"github.com/avolkov/surveyhub/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	{
		account := api.Group("/account")
		{
			account.POST("/register", middleware.RateLimitAccount(), controllers.Register)
			account.POST("/login", middleware.RateLimitAccount(), controllers.Login)
			account.POST("/google-login", middleware.RateLimitAccount(), controllers.GoogleLogin)
		}

		surveys := api.Group("/surveys")
		{
			surveys.POST("/create", middleware.AuthJWT(), controllers.CreateSurvey)
			surveys.GET("/created", middleware.AuthJWT(), controllers.GetCreatedSurveys)
			surveys.GET("/completed", middleware.AuthJWT(), controllers.GetCompletedSurveys)
			surveys.GET("/:id/details", middleware.AuthJWT(), controllers.GetSurveyDetails)
			surveys.DELETE("/:id", middleware.AuthJWT(), controllers.DeleteSurvey)
			surveys.GET("/:id/export", middleware.AuthJWT(), controllers.ExportSurvey)

			// Public: surveys are takeable and shareable by link.
			surveys.GET("/:id/share", controllers.ShareSurvey)
			surveys.POST("/:id/invite", middleware.RateLimitInvite(), controllers.SendInvitation)
			surveys.GET("/:id/take", controllers.TakeSurveyGet)
			surveys.POST("/:id/take", middleware.OptionalAuth(), controllers.TakeSurveyPost)
			surveys.GET("/thankyou", controllers.ThankYou)

			participants := surveys.Group("/participants")
			{
				participants.POST("/update-email", controllers.UpdateParticipantEmail)
				participants.GET("/:id/info", controllers.GetParticipantInfo)
				participants.GET("/:id/infosurvey", controllers.GetParticipantSurveyInfo)
				participants.DELETE("/:id", controllers.DeleteParticipant)
			}
		}
	}
}
