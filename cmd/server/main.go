package main

import (
	"context"
	"fmt"
	"log"

	"github.com/inkriver/novel_go_server/config"
	"github.com/inkriver/novel_go_server/internal/api"
	"github.com/inkriver/novel_go_server/internal/api/handler"
	"github.com/inkriver/novel_go_server/internal/database"
	"github.com/inkriver/novel_go_server/internal/pkg/cron"
	"github.com/inkriver/novel_go_server/internal/pkg/email"
	"github.com/inkriver/novel_go_server/internal/pkg/pubsub"
	"github.com/inkriver/novel_go_server/internal/pkg/queue"
	"github.com/inkriver/novel_go_server/internal/pkg/ws"
	"github.com/inkriver/novel_go_server/internal/repository"
	"github.com/inkriver/novel_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 邮件任务队列（章节发布后由 worker 异步发信）
	emailQueue := queue.NewQueue(rdb, cfg.Queue.EmailQueue)

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// 订阅通知事件，推送到在线用户的所有连接。
	// 事件带通知ID，客户端用它去重（至少一次投递）。
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.NotificationEvent) {
			wsHub.SendToUser(event.RecipientID, &ws.Message{
				Type: event.Type,
				Data: event,
			})
		})
		if err != nil {
			log.Printf("Notification subscriber stopped: %v", err)
		}
	}()

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	boardCommentRepo := repository.NewBoardCommentRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// 初始化 Service
	publisher := pubsub.NewPublisher(rdb)
	emailService := email.NewService(&cfg.Email)
	notificationService := service.NewNotificationService(notificationRepo, interactionRepo, publisher)
	authService := service.NewAuthService(userRepo, emailService, cfg)
	bookService := service.NewBookService(bookRepo, chapterRepo, userRepo, notificationService, emailQueue)
	commentService := service.NewCommentService(commentRepo, bookRepo, chapterRepo, userRepo, reportRepo, notificationService)
	boardService := service.NewBoardService(boardRepo, boardCommentRepo, userRepo, reportRepo, notificationService)
	interactionService := service.NewInteractionService(interactionRepo, bookRepo, chapterRepo, boardRepo, userRepo, notificationService)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(bookService)
	commentHandler := handler.NewCommentHandler(commentService)
	boardHandler := handler.NewBoardHandler(boardService)
	interactionHandler := handler.NewInteractionHandler(interactionService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 定时清理已读通知
	cronService := cron.NewService(notificationRepo, cfg.Notification.RetentionDays)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		bookHandler,
		commentHandler,
		boardHandler,
		interactionHandler,
		notificationHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
