package api

import (
	"github.com/gin-gonic/gin"

	"github.com/inkriver/novel_go_server/config"
	"github.com/inkriver/novel_go_server/internal/api/handler"
	"github.com/inkriver/novel_go_server/internal/api/middleware"
)

type Router struct {
	authHandler         *handler.AuthHandler
	bookHandler         *handler.BookHandler
	commentHandler      *handler.CommentHandler
	boardHandler        *handler.BoardHandler
	interactionHandler  *handler.InteractionHandler
	notificationHandler *handler.NotificationHandler
	websocketHandler    *handler.WebSocketHandler
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	bookHandler *handler.BookHandler,
	commentHandler *handler.CommentHandler,
	boardHandler *handler.BoardHandler,
	interactionHandler *handler.InteractionHandler,
	notificationHandler *handler.NotificationHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		bookHandler:         bookHandler,
		commentHandler:      commentHandler,
		boardHandler:        boardHandler,
		interactionHandler:  interactionHandler,
		notificationHandler: notificationHandler,
		websocketHandler:    websocketHandler,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		// 公开读取（可选认证，作者能看到自己的草稿章节）
		public := api.Group("")
		public.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			public.GET("/books", r.bookHandler.List)
			public.GET("/books/:id", r.bookHandler.Get)
			public.GET("/books/:id/chapters", r.bookHandler.ListChapters)
			public.GET("/chapters/:id", r.bookHandler.GetChapter)
			public.GET("/books/:id/comments", r.commentHandler.List)
			public.GET("/comments/:id/replies", r.commentHandler.ListReplies)
			public.GET("/boards", r.boardHandler.List)
			public.GET("/boards/:id", r.boardHandler.Get)
			public.GET("/boards/:id/comments", r.boardHandler.ListComments)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 用户
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.authHandler.GetProfile)
				user.PUT("/profile", r.authHandler.UpdateProfile)
			}

			// 作品与章节
			authenticated.POST("/books", r.bookHandler.Create)
			authenticated.POST("/books/:id/chapters", r.bookHandler.CreateChapter)
			authenticated.POST("/chapters/:id/publish", r.bookHandler.PublishChapter)

			// 评论
			authenticated.POST("/books/:id/comments", r.commentHandler.Create)
			authenticated.DELETE("/comments/:id", r.commentHandler.Delete)
			authenticated.POST("/comments/:id/report", r.commentHandler.Report)

			// 讨论区
			authenticated.POST("/boards", r.boardHandler.Create)
			authenticated.POST("/boards/:id/comments", r.boardHandler.CreateComment)
			authenticated.DELETE("/board_comments/:id", r.boardHandler.DeleteComment)
			authenticated.POST("/board_comments/:id/report", r.boardHandler.ReportComment)

			// 点赞
			authenticated.POST("/books/:id/vote", r.interactionHandler.VoteBook)
			authenticated.DELETE("/books/:id/vote", r.interactionHandler.UnvoteBook)
			authenticated.POST("/chapters/:id/vote", r.interactionHandler.VoteChapter)
			authenticated.DELETE("/chapters/:id/vote", r.interactionHandler.UnvoteChapter)
			authenticated.POST("/boards/:id/vote", r.interactionHandler.VoteBoard)
			authenticated.DELETE("/boards/:id/vote", r.interactionHandler.UnvoteBoard)

			// 关注/追更
			authenticated.POST("/users/:id/follow", r.interactionHandler.FollowAuthor)
			authenticated.DELETE("/users/:id/follow", r.interactionHandler.UnfollowAuthor)
			authenticated.POST("/books/:id/follow", r.interactionHandler.FollowBook)
			authenticated.DELETE("/books/:id/follow", r.interactionHandler.UnfollowBook)

			// 通知
			notifications := authenticated.Group("/notifications")
			{
				notifications.GET("", r.notificationHandler.List)
				notifications.GET("/unread_count", r.notificationHandler.UnreadCount)
				notifications.POST("/read_all", r.notificationHandler.MarkAllRead)
			}
		}
	}

	return engine
}
