package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"go-plantshelf/models"
	"go-plantshelf/utils"
)

// PerenualClient Perenual 植物数据库客户端
type PerenualClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
}

// NewPerenualClient 创建一个新的 PerenualClient 实例
func NewPerenualClient(apiKey string) *PerenualClient {
	return &PerenualClient{
		apiKey:  apiKey,
		baseURL: "https://perenual.com",
		httpc:   newHTTPClient(),
		limiter: rate.NewLimiter(upstreamRate, 1),
	}
}

// stringList 兼容字符串和字符串数组两种形态的字段
type stringList []string

func (s *stringList) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*s = list
		return nil
	}

	var one string
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	*s = stringList{one}
	return nil
}

type perenualImage struct {
	RegularURL  *string `json:"regular_url"`
	OriginalURL *string `json:"original_url"`
}

type perenualSpecies struct {
	ID             int            `json:"id"`
	CommonName     *string        `json:"common_name"`
	ScientificName stringList     `json:"scientific_name"`
	Family         *string        `json:"family"`
	Genus          *string        `json:"genus"`
	DefaultImage   *perenualImage `json:"default_image"`
}

type perenualSearchResponse struct {
	Data []perenualSpecies `json:"data"`
}

// Search 按关键词检索 Perenual，并把响应重整成统一的记录形态。
// scientific_name 可能是数组，取第一个；图片优先 regular 分辨率；
// Perenual 不返回的字段（year、bibliography、author、synonyms、
// family_common_name）保持为 null，让下游对两个源一视同仁。
func (c *PerenualClient) Search(ctx context.Context, query string) ([]models.Plant, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	q := utils.ValidateSearchQuery(query, utils.DefaultMaxQueryLen)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/v2/species-list?key=%s&q=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(q))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perenual search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("perenual search: unexpected status %d", resp.StatusCode)
	}

	var parsed perenualSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("perenual search: decode response: %w", err)
	}

	plants := make([]models.Plant, 0, len(parsed.Data))
	for _, ps := range parsed.Data {
		var scientific string
		if len(ps.ScientificName) > 0 {
			scientific = ps.ScientificName[0]
		}

		var image *string
		if ps.DefaultImage != nil {
			if ps.DefaultImage.RegularURL != nil {
				image = ps.DefaultImage.RegularURL
			} else {
				image = ps.DefaultImage.OriginalURL
			}
		}

		plants = append(plants, models.Plant{
			ID:             ps.ID,
			Source:         models.SourcePerenual,
			ScientificName: scientific,
			CommonName:     ps.CommonName,
			Family:         ps.Family,
			Genus:          ps.Genus,
			ImageURL:       image,
			// Slug、Year、Bibliography、Author、Synonyms、FamilyCommonName
			// Perenual 不提供，保持 null
		})
	}

	return plants, nil
}

type perenualCareResponse struct {
	Data []struct {
		Section []CareSection `json:"section"`
	} `json:"data"`
}

// FetchCareGuide 取某个物种的养护指南并解析成结构化字段。
// 该物种没有指南数据时返回 nil 而不是错误。
func (c *PerenualClient) FetchCareGuide(ctx context.Context, speciesID int) (*models.CareGuide, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// 养护指南接口没有 /v2 路径
	endpoint := fmt.Sprintf("%s/api/species-care-guide-list?species_id=%d&page=1&key=%s",
		c.baseURL, speciesID, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perenual care guide: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("perenual care guide: unexpected status %d", resp.StatusCode)
	}

	var parsed perenualCareResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("perenual care guide: decode response: %w", err)
	}

	if len(parsed.Data) == 0 {
		return nil, nil
	}

	guide := ExtractCareGuide(parsed.Data[0].Section)
	return &guide, nil
}
