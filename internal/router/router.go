package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"Karma_Forum/internal/config"
	"Karma_Forum/internal/handler"
	"Karma_Forum/internal/middleware"
	"Karma_Forum/internal/model"
	"Karma_Forum/internal/pkg"
	"Karma_Forum/internal/service"
)

func InitRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	r := gin.Default()

	emailCfg := pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}

	emailSvc := service.NewEmailService(emailCfg)
	user := handler.NewUserHandler(service.NewUserService(db, emailSvc))
	email := handler.NewEmailHandler(emailSvc)
	community := handler.NewCommunityHandler(service.NewCommunityService(db, cfg.CommunityKarmaMin))
	post := handler.NewPostHandler(service.NewPostService(db))
	comment := handler.NewCommentHandler(service.NewCommentService(db))
	vote := handler.NewVoteHandler(service.NewVoteService(db))

	// 邮件相关接口
	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/:scope/code", email.SendCode)
	}

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/reset", user.ResetPassword)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.POST("/change-password", user.ChangePassword)
		authGroup.GET("/profile", user.Profile)
	}

	// 社区相关接口
	communityGroup := r.Group("/api/community")
	communityGroup.Use(middleware.AuthMiddleware())
	{
		communityGroup.POST("/create", community.Create)
		communityGroup.GET("/list", community.List)
		communityGroup.GET("/:id", community.Get)
		communityGroup.POST("/:id/ban", community.Ban)
		communityGroup.POST("/:id/unban", community.Unban)
		communityGroup.POST("/:id/subscribe", community.Subscribe)
		communityGroup.POST("/:id/unsubscribe", community.Unsubscribe)
	}

	// 帖子相关接口
	postGroup := r.Group("/api/post")
	postGroup.Use(middleware.AuthMiddleware())
	{
		postGroup.POST("/create", post.Create)
		postGroup.GET("/list/:id", post.ListByCommunity)
		postGroup.GET("/:id", post.Get)
		postGroup.DELETE("/:id", post.Delete)

		postGroup.POST("/:id/upvote", vote.Apply(model.KindPost, model.IntentUpvote))
		postGroup.POST("/:id/downvote", vote.Apply(model.KindPost, model.IntentDownvote))
		postGroup.POST("/:id/removeUpvote", vote.Apply(model.KindPost, model.IntentRemoveUpvote))
		postGroup.POST("/:id/removeDownvote", vote.Apply(model.KindPost, model.IntentRemoveDownvote))
		postGroup.GET("/:id/vote", vote.State(model.KindPost))
		postGroup.GET("/:id/score", vote.Score(model.KindPost))
	}

	// 评论相关接口
	commentGroup := r.Group("/api/comment")
	commentGroup.Use(middleware.AuthMiddleware())
	{
		commentGroup.POST("/create", comment.Create)
		commentGroup.GET("/list/:id", comment.ListByPost)
		commentGroup.DELETE("/:id", comment.Delete)

		commentGroup.POST("/:id/upvote", vote.Apply(model.KindComment, model.IntentUpvote))
		commentGroup.POST("/:id/downvote", vote.Apply(model.KindComment, model.IntentDownvote))
		commentGroup.POST("/:id/removeUpvote", vote.Apply(model.KindComment, model.IntentRemoveUpvote))
		commentGroup.POST("/:id/removeDownvote", vote.Apply(model.KindComment, model.IntentRemoveDownvote))
		commentGroup.GET("/:id/vote", vote.State(model.KindComment))
		commentGroup.GET("/:id/score", vote.Score(model.KindComment))
	}

	return r
}
