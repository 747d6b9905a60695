package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkriver/novel_go_server/config"
	"github.com/inkriver/novel_go_server/internal/database"
	"github.com/inkriver/novel_go_server/internal/pkg/email"
	"github.com/inkriver/novel_go_server/internal/pkg/queue"
	"github.com/inkriver/novel_go_server/internal/repository"
	"github.com/inkriver/novel_go_server/internal/worker"
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

	// 初始化 Queue
	emailQueue := queue.NewQueue(rdb, cfg.Queue.EmailQueue)

	// 初始化 Repository
	bookRepo := repository.NewBookRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	userRepo := repository.NewUserRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)

	// 创建任务处理器
	emailService := email.NewService(&cfg.Email)
	processor := worker.NewProcessor(bookRepo, chapterRepo, userRepo, interactionRepo, emailService, cfg)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	log.Printf("Worker started, max workers: %d", cfg.Queue.MaxWorkers)

	// 启动 worker 循环
	for i := 0; i < cfg.Queue.MaxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					job, err := emailQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop job: %v", workerID, err)
						continue
					}

					if job == nil {
						continue // 超时，继续等待
					}

					log.Printf("Worker %d: sending mail for chapter %d", workerID, job.ChapterID)
					if err := processor.Process(ctx, job); err != nil {
						log.Printf("Worker %d: chapter %d mail failed: %v", workerID, job.ChapterID, err)
					}
				}
			}
		}(i)
	}

	// 等待 context 取消
	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
