package controllers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"go-plantshelf/merge"
	"go-plantshelf/models"
	"go-plantshelf/sources"
	"go-plantshelf/utils"
)

// CompareController 处理跨数据源的记录对比与合并。
// 对指定的另一个数据源检索同名物种，挑出最佳匹配后做确定性合并，
// 让用户确认一份可审计的合并结果，而不是手工逐字段核对。
type CompareController struct {
	Trefle   PlantSearcher
	Perenual PlantSearcher
	Care     CareGuideFetcher
	Matcher  *sources.Matcher
}

// NewCompareController 创建一个新的 CompareController 实例
func NewCompareController(trefle, perenual PlantSearcher, care CareGuideFetcher) *CompareController {
	return &CompareController{
		Trefle:   trefle,
		Perenual: perenual,
		Care:     care,
		Matcher:  sources.NewMatcher(),
	}
}

// CompareRequest 对比请求：一条已有记录加目标数据源
type CompareRequest struct {
	Plant  models.Plant `json:"plant"`
	Target string       `json:"target"`
}

// Compare 在目标数据源里找同一物种并返回合并结果
func (c *CompareController) Compare(ctx *gin.Context) {
	var req CompareRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, "Invalid request body")
		return
	}

	var searcher PlantSearcher
	switch req.Target {
	case models.SourceTrefle:
		searcher = c.Trefle
	case models.SourcePerenual:
		searcher = c.Perenual
	default:
		utils.BadRequest(ctx, "target must be trefle or perenual")
		return
	}

	name, ok := utils.ValidateString(req.Plant.ScientificName, utils.DefaultMaxStringLen)
	if !ok {
		utils.BadRequest(ctx, "scientific_name is required")
		return
	}

	candidates, err := searcher.Search(ctx.Request.Context(), name)
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}

	matched := c.Matcher.BestMatch(name, candidates)
	if matched == nil {
		utils.NotFound(ctx, "Matching plant")
		return
	}

	// 匹配的是 Perenual 记录时顺带取养护指南，取不到不影响对比
	if req.Target == models.SourcePerenual {
		guide, err := c.Care.FetchCareGuide(ctx.Request.Context(), matched.ID)
		if err != nil {
			slog.Error("care guide fetch failed", "species_id", matched.ID, "err", err)
		} else if guide != nil {
			matched.CareGuide = guide
		}
	}

	utils.Success(ctx, merge.Merge(req.Plant, *matched))
}
