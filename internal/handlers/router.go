package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Middleware *Middleware
	Auth       *AuthHandler
	Family     *FamilyHandler
	Question   *QuestionHandler
	Answer     *AnswerHandler
	Media      *MediaHandler
}

// NewRouter builds the HTTP API
func NewRouter(h Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(Logging(logger))

	router.GET("/health", func(c *gin.Context) { respond(c, http.StatusOK, gin.H{"status": "ok"}) })

	// Public, rate limited per client and route
	public := router.Group("/api")
	public.Use(h.Middleware.RateLimit())
	{
		public.POST("/signup", h.Auth.Signup)
		public.POST("/register", h.Auth.Register)
		public.POST("/login", h.Auth.Login)
		public.GET("/invites/validate", h.Family.ValidateInvite)
	}

	api := router.Group("/api")
	api.Use(h.Middleware.RequireAuth())
	{
		api.GET("/me", h.Auth.Me)
		api.GET("/admin/registration", h.Auth.GetRegistrationMode)
		api.PUT("/admin/registration", h.Auth.SetRegistrationMode)

		api.POST("/families", h.Family.CreateFamily)
		api.GET("/families/:id", h.Family.GetFamilyByID)
		api.GET("/family", h.Family.GetFamily)
		api.PUT("/family", h.Family.RenameFamily)
		api.POST("/invites", h.Family.CreateInvite)

		api.GET("/questions", h.Question.ListQuestions)
		api.POST("/questions", h.Question.CreateQuestion)
		api.GET("/questions/:id", h.Question.GetQuestion)
		api.PUT("/questions/:id", h.Question.UpdateQuestion)
		api.DELETE("/questions/:id", h.Question.DeleteQuestion)
		api.POST("/questions/:id/like", h.Question.LikeQuestion)
		api.DELETE("/questions/:id/like", h.Question.UnlikeQuestion)
		api.GET("/questions/:id/comments", h.Question.ListComments)
		api.POST("/questions/:id/comments", h.Question.AddComment)

		api.GET("/questions/:id/answers", h.Answer.ListAnswers)
		api.POST("/questions/:id/answers", h.Answer.SubmitAnswer)
		api.GET("/questions/:id/answers/mine", h.Answer.GetMyAnswer)
		api.PUT("/answers/:id", h.Answer.UpdateAnswer)
		api.DELETE("/answers/:id", h.Answer.DeleteAnswer)

		api.POST("/media", h.Media.Upload)
	}

	return router
}
