package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-plantshelf/models"
	"go-plantshelf/store"
	"go-plantshelf/utils"
)

// 照片上限 5MB，只收常见图片格式
const maxPhotoSize = 5 * 1024 * 1024

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// PhotoRepository 照片的对象存储接口
type PhotoRepository interface {
	Save(p *models.Photo) error
	Get(key string) (*models.Photo, error)
}

// PhotoController 处理照片上传和读取
type PhotoController struct {
	Store   PhotoRepository
	BaseURL string
}

// NewPhotoController 创建一个新的 PhotoController 实例
func NewPhotoController(s PhotoRepository, baseURL string) *PhotoController {
	return &PhotoController{Store: s, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// Upload 接收 multipart 表单上传的照片并入库。
// 照片落库成功而后续植物记录写入失败时不做补偿清理，孤儿照片是已知缺口。
func (c *PhotoController) Upload(ctx *gin.Context) {
	file, err := ctx.FormFile("photo")
	if err != nil {
		utils.BadRequest(ctx, "No file provided")
		return
	}

	rawID := ctx.PostForm("plantId")
	if rawID == "" {
		utils.BadRequest(ctx, "Plant ID required")
		return
	}

	plantID, ok := utils.ValidateID(rawID)
	if !ok {
		utils.BadRequest(ctx, "Invalid plant ID")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedPhotoTypes[contentType] {
		utils.BadRequest(ctx, "Invalid file type. Only JPEG, PNG, WebP, and GIF are allowed.")
		return
	}

	if file.Size > maxPhotoSize {
		utils.BadRequest(ctx, "File too large. Maximum size is 5MB.")
		return
	}

	src, err := file.Open()
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxPhotoSize+1))
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}
	if len(data) > maxPhotoSize {
		utils.BadRequest(ctx, "File too large. Maximum size is 5MB.")
		return
	}

	key, err := utils.GeneratePhotoKey(plantID, file.Filename)
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}

	photo := models.Photo{
		Key:          key,
		PlantID:      plantID,
		ContentType:  contentType,
		OriginalName: file.Filename,
		Data:         data,
	}
	if err := c.Store.Save(&photo); err != nil {
		utils.ServerError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{
		"success": true,
		"blobUrl": c.BaseURL + "/api/photos/" + key,
		"blobKey": key,
	})
}

// Serve 按键回送照片，带长缓存头。照片接口对外是纯文本错误。
func (c *PhotoController) Serve(ctx *gin.Context) {
	key := strings.TrimPrefix(ctx.Param("key"), "/")
	if key == "" {
		ctx.String(http.StatusBadRequest, "Photo key required")
		return
	}

	if !utils.ValidatePhotoKey(key) {
		ctx.String(http.StatusNotFound, "Photo not found")
		return
	}

	photo, err := c.Store.Get(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.String(http.StatusNotFound, "Photo not found")
			return
		}
		slog.Error("photo fetch failed", "key", key, "err", err)
		ctx.String(http.StatusInternalServerError, "Error retrieving photo")
		return
	}

	contentType := photo.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx.Header("Cache-Control", "public, max-age=31536000, immutable")
	ctx.Data(http.StatusOK, contentType, photo.Data)
}
