package sources

import (
	"strings"

	"github.com/gnames/gnparser"

	"go-plantshelf/models"
)

// Matcher 在另一个数据源的检索结果里挑出最可能是同一物种的记录。
// 学名用 gnparser 归一化成规范形式再比较，这样带命名人、年份的
// 写法（"Monstera deliciosa Liebm."）也能和裸学名对上。
type Matcher struct {
	parser gnparser.GNparser
}

// NewMatcher 创建一个新的 Matcher 实例
func NewMatcher() *Matcher {
	cfg := gnparser.NewConfig()
	return &Matcher{parser: gnparser.New(cfg)}
}

// canonical 学名的规范形式，解析不了就退回去空格的原串
func (m *Matcher) canonical(name string) string {
	parsed := m.parser.ParseName(name)
	if parsed.Parsed && parsed.Canonical != nil {
		return parsed.Canonical.Simple
	}
	return strings.TrimSpace(name)
}

// BestMatch 按优先级挑选匹配：规范名完全一致 > 同属 > 第一条结果。
// 候选为空返回 nil。
func (m *Matcher) BestMatch(scientificName string, candidates []models.Plant) *models.Plant {
	if len(candidates) == 0 {
		return nil
	}

	target := m.canonical(scientificName)

	for i := range candidates {
		if strings.EqualFold(m.canonical(candidates[i].ScientificName), target) {
			return &candidates[i]
		}
	}

	genus := strings.ToLower(strings.SplitN(target, " ", 2)[0])
	for i := range candidates {
		if strings.HasPrefix(strings.ToLower(candidates[i].ScientificName), genus) {
			return &candidates[i]
		}
	}

	return &candidates[0]
}
