package db

import (
	"fmt"
	"log"
	"os"
	"updoot/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect 建立数据库连接并执行迁移，返回连接句柄。
// 所有使用方通过参数显式接收 *gorm.DB，不使用包级全局变量。
func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=updoot port=5432 sslmode=disable"
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established")

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Migrate 执行 Auto Migrate，测试中对 sqlite 连接复用。
func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Vote{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Println("Database migration completed")
	return nil
}
