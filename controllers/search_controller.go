package controllers

import (
	"context"

	"github.com/gin-gonic/gin"

	"go-plantshelf/models"
	"go-plantshelf/utils"
)

// PlantSearcher 外部植物数据源的检索接口
type PlantSearcher interface {
	Search(ctx context.Context, query string) ([]models.Plant, error)
}

// CareGuideFetcher 养护指南的获取接口（只有 Perenual 提供）
type CareGuideFetcher interface {
	FetchCareGuide(ctx context.Context, speciesID int) (*models.CareGuide, error)
}

// SearchController 代理对两个第三方数据源的检索请求
type SearchController struct {
	Trefle   PlantSearcher
	Perenual PlantSearcher
	Care     CareGuideFetcher
}

// NewSearchController 创建一个新的 SearchController 实例
func NewSearchController(trefle, perenual PlantSearcher, care CareGuideFetcher) *SearchController {
	return &SearchController{Trefle: trefle, Perenual: perenual, Care: care}
}

// SearchTrefle 代理 Trefle 检索。没给检索词时沿用默认词。
func (c *SearchController) SearchTrefle(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		query = "alocasia"
	}

	plants, err := c.Trefle.Search(ctx.Request.Context(), query)
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"data": plants})
}

// SearchPerenual 代理 Perenual 检索
func (c *SearchController) SearchPerenual(ctx *gin.Context) {
	plants, err := c.Perenual.Search(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"data": plants})
}

// PerenualCare 代理养护指南查询，species_id 必须是正整数
func (c *SearchController) PerenualCare(ctx *gin.Context) {
	raw := ctx.Query("species_id")
	if raw == "" {
		utils.BadRequest(ctx, "species_id parameter required")
		return
	}

	speciesID, ok := utils.ValidateID(raw)
	if !ok {
		utils.BadRequest(ctx, "Invalid species_id")
		return
	}

	guide, err := c.Care.FetchCareGuide(ctx.Request.Context(), speciesID)
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"care_guide": guide})
}
