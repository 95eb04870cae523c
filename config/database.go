package config

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/go-sql-driver/mysql"
)

// NewDB 连接数据库并执行自动迁移
func NewDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("mysql", databaseURL)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	if err = autoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}

	log.Println("Database connected and migrated successfully")
	return db, nil
}

// autoMigrate 自动迁移数据库
func autoMigrate(db *sql.DB) error {
	// 创建 migrations 表用于跟踪迁移状态
	if err := createMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %v", err)
	}

	// 运行所有迁移
	migrations := getMigrations()
	for _, migration := range migrations {
		if err := runMigrationIfNotExists(db, migration); err != nil {
			return fmt.Errorf("failed to run migration %s: %v", migration.Name, err)
		}
	}

	return nil
}

// Migration 迁移结构
type Migration struct {
	Name string
	SQL  string
}

// createMigrationsTable 创建迁移表
func createMigrationsTable(db *sql.DB) error {
	createSQL := `
	CREATE TABLE IF NOT EXISTS migrations (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
	`
	_, err := db.Exec(createSQL)
	return err
}

// getMigrations 获取所有迁移
func getMigrations() []Migration {
	return []Migration{
		{
			Name: "001_create_plants_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS plants (
				id INT AUTO_INCREMENT PRIMARY KEY,
				source VARCHAR(50),
				slug VARCHAR(255),
				scientific_name VARCHAR(255) NOT NULL,
				common_name VARCHAR(255),
				family VARCHAR(255),
				family_common_name VARCHAR(255),
				genus VARCHAR(255),
				image_url TEXT,
				author VARCHAR(255),
				bibliography TEXT,
				year INT,
				synonyms JSON,
				trefle_id INT,
				perenual_id INT,
				metadata JSON,
				notes TEXT,
				nickname VARCHAR(255),
				location VARCHAR(255),
				acquired_date VARCHAR(50),
				status VARCHAR(50),
				added_at TIMESTAMP NULL,
				updated_at TIMESTAMP NULL,
				INDEX idx_scientific_name (scientific_name),
				INDEX idx_genus (genus),
				INDEX idx_added_at (added_at)
			)
			`,
		},
		{
			Name: "002_create_users_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS users (
				id INT AUTO_INCREMENT PRIMARY KEY,
				username VARCHAR(255) NOT NULL UNIQUE,
				password_hash VARCHAR(255) NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				INDEX idx_username (username)
			)
			`,
		},
		{
			Name: "003_create_rate_limits_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS rate_limits (
				rate_key VARCHAR(255) PRIMARY KEY,
				requests JSON,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				INDEX idx_updated_at (updated_at)
			)
			`,
		},
		{
			Name: "004_create_photos_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS photos (
				blob_key VARCHAR(255) PRIMARY KEY,
				plant_id INT,
				content_type VARCHAR(100),
				original_name VARCHAR(255),
				data LONGBLOB,
				uploaded_at TIMESTAMP NULL,
				INDEX idx_plant_id (plant_id)
			)
			`,
		},
	}
}

// runMigrationIfNotExists 如果迁移不存在则运行
func runMigrationIfNotExists(db *sql.DB, migration Migration) error {
	// 检查迁移是否已执行
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM migrations WHERE name = ?", migration.Name).Scan(&count)
	if err != nil {
		return err
	}

	if count > 0 {
		log.Printf("Migration %s already executed, skipping", migration.Name)
		return nil
	}

	// 执行迁移
	log.Printf("Running migration: %s", migration.Name)
	if _, err := db.Exec(migration.SQL); err != nil {
		return err
	}

	// 记录迁移已执行
	_, err = db.Exec("INSERT INTO migrations (name) VALUES (?)", migration.Name)
	return err
}
