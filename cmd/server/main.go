package main

import (
	"log"

	"goddit/internal/config"
	"goddit/internal/db"
	"goddit/internal/handlers"
	"goddit/internal/middleware"
	"goddit/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	// Initialize Database
	db.Init(cfg.DatabaseURL)

	// Services
	mailService := services.NewMailService(cfg)
	mediaService := services.NewMediaService(cfg)
	voteService := services.NewVoteService(db.DB)
	commentService := services.NewCommentService(db.DB, cfg.CommentTreeDepth)
	postService := services.NewPostService(db.DB)
	subService := services.NewSubService(db.DB)
	userService := services.NewUserService(db.DB, mailService, cfg.SiteURL)

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("goddit_session", store))

	// Middleware
	r.Use(middleware.LoadUser(cfg.JWTSecret))

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, cfg.JWTSecret)
	postHandler := handlers.NewPostHandler(postService, commentService, voteService, subService, mediaService)
	voteHandler := handlers.NewVoteHandler(voteService, postService)
	commentHandler := handlers.NewCommentHandler(commentService, postService)
	subHandler := handlers.NewSubHandler(subService)
	searchHandler := handlers.NewSearchHandler(subService, userService)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	userHandler := handlers.NewUserHandler(userService, postService)

	api := r.Group("/api")

	// Public Routes
	api.POST("/users/register", authHandler.Register)
	api.POST("/users/login", authHandler.Login)
	api.POST("/users/forgot-password", authHandler.ForgotPassword)
	api.POST("/users/reset-password", authHandler.ResetPassword)
	api.GET("/u/:username", userHandler.Profile)
	api.GET("/posts", postHandler.List)
	api.GET("/posts/:id", postHandler.Detail)
	api.GET("/comments/:id/replies", commentHandler.Replies)
	api.GET("/subs/:name/posts", postHandler.BySub)
	api.GET("/search", searchHandler.Search)

	// Protected Routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/users/logout", authHandler.Logout)
		authorized.GET("/feed", postHandler.Feed)
		authorized.POST("/posts", postHandler.Create)
		authorized.PUT("/posts/:id", postHandler.Update)
		authorized.DELETE("/posts/:id", postHandler.Delete)
		authorized.POST("/posts/:id/vote", voteHandler.Cast)
		authorized.POST("/posts/:id/comments", commentHandler.Create)
		authorized.POST("/comments/:id/replies", commentHandler.Reply)
		authorized.PUT("/comments/:id", commentHandler.Edit)
		authorized.DELETE("/comments/:id", commentHandler.Delete)
		authorized.POST("/subs", subHandler.Create)
		authorized.POST("/subs/:name/subscribe", subHandler.Subscribe)
		authorized.DELETE("/subs/:name/subscribe", subHandler.Unsubscribe)
		authorized.GET("/media/upload-url", mediaHandler.UploadURL)
	}

	log.Printf("goddit server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
