package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"go-plantshelf/models"
	"go-plantshelf/utils"
)

// TrefleClient Trefle 植物数据库客户端
type TrefleClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
}

// NewTrefleClient 创建一个新的 TrefleClient 实例
func NewTrefleClient(apiKey string) *TrefleClient {
	return &TrefleClient{
		apiKey:  apiKey,
		baseURL: "https://trefle.io",
		httpc:   newHTTPClient(),
		limiter: rate.NewLimiter(upstreamRate, 1),
	}
}

// Trefle 的字段和规范记录几乎一一对应
type treflePlant struct {
	ID               int      `json:"id"`
	Slug             *string  `json:"slug"`
	ScientificName   string   `json:"scientific_name"`
	CommonName       *string  `json:"common_name"`
	Family           *string  `json:"family"`
	FamilyCommonName *string  `json:"family_common_name"`
	Genus            *string  `json:"genus"`
	ImageURL         *string  `json:"image_url"`
	Year             *int     `json:"year"`
	Bibliography     *string  `json:"bibliography"`
	Author           *string  `json:"author"`
	Synonyms         []string `json:"synonyms"`
}

type trefleSearchResponse struct {
	Data []treflePlant `json:"data"`
}

// Search 按关键词检索 Trefle。
// 检索词先过 ValidateSearchQuery 再拼进上游 URL，防止注入代理地址。
func (c *TrefleClient) Search(ctx context.Context, query string) ([]models.Plant, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	q := utils.ValidateSearchQuery(query, utils.DefaultMaxQueryLen)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/v1/plants/search?token=%s&q=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(q))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trefle search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trefle search: unexpected status %d", resp.StatusCode)
	}

	var parsed trefleSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("trefle search: decode response: %w", err)
	}

	plants := make([]models.Plant, 0, len(parsed.Data))
	for _, tp := range parsed.Data {
		plants = append(plants, models.Plant{
			ID:               tp.ID,
			Source:           models.SourceTrefle,
			Slug:             tp.Slug,
			ScientificName:   tp.ScientificName,
			CommonName:       tp.CommonName,
			Family:           tp.Family,
			FamilyCommonName: tp.FamilyCommonName,
			Genus:            tp.Genus,
			ImageURL:         tp.ImageURL,
			Year:             tp.Year,
			Bibliography:     tp.Bibliography,
			Author:           tp.Author,
			Synonyms:         tp.Synonyms,
		})
	}

	return plants, nil
}
