package models

import "encoding/json"

// 数据来源常量
const (
	SourceTrefle   = "trefle"
	SourcePerenual = "perenual"
)

// Plant 植物记录模型。检索结果和入库记录共用同一结构：
// 检索结果中 ID 为外部数据源的物种 ID，入库后 ID 为本地自增主键。
type Plant struct {
	ID               int             `json:"id"`
	Source           string          `json:"source,omitempty"`
	Slug             *string         `json:"slug"`
	ScientificName   string          `json:"scientific_name"`
	CommonName       *string         `json:"common_name"`
	Family           *string         `json:"family"`
	FamilyCommonName *string         `json:"family_common_name"`
	Genus            *string         `json:"genus"`
	ImageURL         *string         `json:"image_url"`
	Author           *string         `json:"author"`
	Bibliography     *string         `json:"bibliography"`
	Year             *int            `json:"year"`
	Synonyms         []string        `json:"synonyms"`
	TrefleID         *int            `json:"trefle_id,omitempty"`
	PerenualID       *int            `json:"perenual_id,omitempty"`
	Metadata         json.RawMessage `json:"metadata,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
	Nickname         *string         `json:"nickname,omitempty"`
	Location         *string         `json:"location,omitempty"`
	AcquiredDate     *string         `json:"acquired_date,omitempty"`
	Status           *string         `json:"status,omitempty"`
	CareGuide        *CareGuide      `json:"care_guide,omitempty"`
	AddedAt          string          `json:"added_at,omitempty"`
	UpdatedAt        string          `json:"updated_at,omitempty"`
}

// PlantSummary 写操作返回的摘要
type PlantSummary struct {
	ID             int     `json:"id"`
	ScientificName string  `json:"scientific_name"`
	CommonName     *string `json:"common_name"`
	AddedAt        string  `json:"added_at,omitempty"`
	UpdatedAt      string  `json:"updated_at,omitempty"`
}

// CareGuide 养护指南，从 Perenual 的非结构化文本中解析得到。
// 不直接入库，保存时折叠进 metadata.care。
type CareGuide struct {
	Watering  *string        `json:"watering"`
	Sunlight  []string       `json:"sunlight"`
	Pruning   *string        `json:"pruning"`
	Hardiness HardinessRange `json:"hardiness"`
}

// HardinessRange 耐寒区间，min/max 形如 "7" 或 "9b"，可能缺失
type HardinessRange struct {
	Min *string `json:"min"`
	Max *string `json:"max"`
}

// ComparisonResult 两条来源记录的对比结果，differences 列出取值不一致的字段名
type ComparisonResult struct {
	Original    Plant    `json:"original"`
	Matched     *Plant   `json:"matched"`
	Merged      Plant    `json:"merged"`
	Differences []string `json:"differences"`
}

// Photo 植物照片，二进制内容直接存库
type Photo struct {
	Key          string `json:"blobKey"`
	PlantID      int    `json:"plantId"`
	ContentType  string `json:"contentType"`
	OriginalName string `json:"originalName"`
	Data         []byte `json:"-"`
	UploadedAt   string `json:"uploadedAt"`
}
