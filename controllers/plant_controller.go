package controllers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"go-plantshelf/models"
	"go-plantshelf/store"
	"go-plantshelf/utils"
)

// PlantRepository 植物表的持久化接口
type PlantRepository interface {
	Create(p *models.Plant) (models.PlantSummary, error)
	Update(p *models.Plant) (models.PlantSummary, error)
	GetByID(id int) (*models.Plant, error)
	List() ([]models.Plant, error)
}

// PlantController 处理植物收藏相关的请求
type PlantController struct {
	Store PlantRepository
}

// NewPlantController 创建一个新的 PlantController 实例
func NewPlantController(s PlantRepository) *PlantController {
	return &PlantController{Store: s}
}

// Create 保存一条植物记录
func (c *PlantController) Create(ctx *gin.Context) {
	plant, ok := c.bindPlant(ctx, []string{"scientific_name"})
	if !ok {
		return
	}

	summary, err := c.Store.Create(plant)
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}

	utils.Created(ctx, gin.H{"success": true, "plant": summary})
}

// Update 更新一条植物记录
func (c *PlantController) Update(ctx *gin.Context) {
	plant, ok := c.bindPlant(ctx, []string{"id", "scientific_name"})
	if !ok {
		return
	}

	if plant.ID <= 0 {
		utils.BadRequest(ctx, "Plant ID required")
		return
	}

	summary, err := c.Store.Update(plant)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.NotFound(ctx, "Plant")
			return
		}
		utils.ServerError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"success": true, "plant": summary})
}

// Get 查询单条植物记录
func (c *PlantController) Get(ctx *gin.Context) {
	raw := ctx.Query("id")
	if raw == "" {
		utils.BadRequest(ctx, "Plant ID required")
		return
	}

	id, ok := utils.ValidateID(raw)
	if !ok {
		utils.BadRequest(ctx, "Invalid plant ID")
		return
	}

	plant, err := c.Store.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.NotFound(ctx, "Plant")
			return
		}
		utils.ServerError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"plant": plant})
}

// List 列出全部植物记录，按入库时间倒序
func (c *PlantController) List(ctx *gin.Context) {
	plants, err := c.Store.List()
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"plants": plants})
}

// bindPlant 解析并校验写请求的请求体。
// 校验失败时直接写出 400 响应并返回 false。
func (c *PlantController) bindPlant(ctx *gin.Context, required []string) (*models.Plant, bool) {
	raw, err := ctx.GetRawData()
	if err != nil {
		utils.BadRequest(ctx, "Invalid request body")
		return nil, false
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		utils.BadRequest(ctx, "Invalid request body")
		return nil, false
	}

	valid, missing := utils.ValidateRequired(body, required)
	if !valid {
		utils.BadRequest(ctx, strings.Join(missing, ", ")+" is required")
		return nil, false
	}

	var plant models.Plant
	if err := json.Unmarshal(raw, &plant); err != nil {
		utils.BadRequest(ctx, "Invalid request body")
		return nil, false
	}

	name, ok := utils.ValidateString(plant.ScientificName, utils.DefaultMaxStringLen)
	if !ok {
		utils.BadRequest(ctx, "scientific_name is required")
		return nil, false
	}
	plant.ScientificName = name

	// 短文本字段统一清理，清理后为空的直接置空
	plant.CommonName = cleanOptional(plant.CommonName)
	plant.Family = cleanOptional(plant.Family)
	plant.FamilyCommonName = cleanOptional(plant.FamilyCommonName)
	plant.Genus = cleanOptional(plant.Genus)
	plant.Author = cleanOptional(plant.Author)
	plant.Slug = cleanOptional(plant.Slug)
	plant.Nickname = cleanOptional(plant.Nickname)
	plant.Location = cleanOptional(plant.Location)
	plant.AcquiredDate = cleanOptional(plant.AcquiredDate)
	plant.Status = cleanOptional(plant.Status)

	if len(plant.Metadata) > 0 {
		clean, ok := utils.SanitizeMetadata(plant.Metadata, utils.DefaultMaxMetadataLen)
		if !ok {
			utils.BadRequest(ctx, "Invalid metadata")
			return nil, false
		}
		plant.Metadata = clean
	}

	// 养护指南不直接入库，折叠进 metadata.care
	if plant.CareGuide != nil {
		plant.Metadata = foldCareGuide(plant.Metadata, plant.CareGuide)
		plant.CareGuide = nil
	}

	return &plant, true
}

func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v, ok := utils.ValidateString(*s, utils.DefaultMaxStringLen)
	if !ok {
		return nil
	}
	return &v
}

func foldCareGuide(metadata json.RawMessage, guide *models.CareGuide) json.RawMessage {
	obj := make(map[string]any)
	if len(metadata) > 0 {
		// metadata 已经过清理，解析失败就从空对象重建
		_ = json.Unmarshal(metadata, &obj)
	}

	care := map[string]any{"water": nil, "light": nil, "pruning": nil}
	if guide.Watering != nil {
		care["water"] = *guide.Watering
	}
	if len(guide.Sunlight) > 0 {
		care["light"] = strings.Join(guide.Sunlight, ", ")
	}
	if guide.Pruning != nil {
		care["pruning"] = *guide.Pruning
	}
	obj["care"] = care

	out, err := json.Marshal(obj)
	if err != nil {
		return metadata
	}
	return out
}
