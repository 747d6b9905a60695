package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/inkriver/novel_go_server/config"
	"github.com/inkriver/novel_go_server/internal/database"
	"github.com/inkriver/novel_go_server/internal/model"
	"github.com/inkriver/novel_go_server/internal/repository"
)

var (
	dryRun        = flag.Bool("dry-run", true, "Dry run mode, don't actually delete rows")
	retentionDays = flag.Int("retention-days", 0, "Days to keep read notifications (0 = use config)")
)

func main() {
	flag.Parse()

	log.Println("Starting cleanup task...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 连接数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	days := *retentionDays
	if days <= 0 {
		days = cfg.Notification.RetentionDays
	}
	if days <= 0 {
		days = 30
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	log.Printf("Pruning read notifications older than %s (%d days)", cutoff.Format("2006-01-02"), days)

	if *dryRun {
		var count int64
		err := db.Model(&model.Notification{}).
			Where("is_read = ? AND created_at < ?", true, cutoff).
			Count(&count).Error
		if err != nil {
			log.Fatalf("Failed to count notifications: %v", err)
		}
		log.Printf("DRY RUN - would delete %d notifications", count)
		log.Println("Run with -dry-run=false to actually delete")
		return
	}

	notificationRepo := repository.NewNotificationRepository(db)
	deleted, err := notificationRepo.DeleteReadBefore(cutoff)
	if err != nil {
		log.Fatalf("Failed to prune notifications: %v", err)
	}

	log.Printf("Cleanup completed, deleted %d notifications", deleted)
}
