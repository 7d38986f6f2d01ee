package db

import (
	"log"
	"os"
	"shulin/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=shulin port=5432 sslmode=disable TimeZone=Asia/Shanghai"
	}

	var err error
	// TranslateError: 唯一索引冲突要能用 gorm.ErrDuplicatedKey 识别（投票台账依赖这一点）
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.Board{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.KarmaLog{},
		&models.Bookmark{},
		&models.BoardSubscription{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Seed initial boards
	seedBoards()
}

func seedBoards() {
	// 检查是否已有版块数据
	var count int64
	DB.Model(&models.Board{}).Count(&count)
	if count > 0 {
		log.Println("Boards already seeded, skipping")
		return
	}

	// 创建预设版块
	boards := []models.Board{
		{Name: "general", Description: "随便聊聊"},
		{Name: "tech", Description: "技术相关的讨论和分享"},
		{Name: "showcase", Description: "作品展示、项目分享"},
		{Name: "meta", Description: "关于站点本身"},
	}

	for _, board := range boards {
		if err := DB.Create(&board).Error; err != nil {
			log.Printf("Failed to create board %s: %v", board.Name, err)
		}
	}
	log.Println("Initial boards created successfully")
}
