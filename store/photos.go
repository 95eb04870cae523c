package store

import (
	"database/sql"
	"errors"
	"time"

	"go-plantshelf/models"
)

// PhotoStore 照片的二进制对象存储，内容以 LONGBLOB 直接入库
type PhotoStore struct {
	DB *sql.DB
}

// NewPhotoStore 创建一个新的 PhotoStore 实例
func NewPhotoStore(db *sql.DB) *PhotoStore {
	return &PhotoStore{DB: db}
}

// Save 保存一张照片
func (s *PhotoStore) Save(p *models.Photo) error {
	now := time.Now().Format(timeLayout)

	_, err := s.DB.Exec(`
		INSERT INTO photos (blob_key, plant_id, content_type, original_name, data, uploaded_at)
		VALUES (?,?,?,?,?,?)
	`, p.Key, p.PlantID, p.ContentType, p.OriginalName, p.Data, now)
	if err != nil {
		return err
	}

	p.UploadedAt = now
	return nil
}

// Get 按键取回一张照片，不存在返回 ErrNotFound
func (s *PhotoStore) Get(key string) (*models.Photo, error) {
	var p models.Photo

	err := s.DB.QueryRow(`
		SELECT blob_key, plant_id, content_type, original_name, data, uploaded_at
		FROM photos WHERE blob_key = ?
	`, key).Scan(&p.Key, &p.PlantID, &p.ContentType, &p.OriginalName, &p.Data, &p.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &p, nil
}
