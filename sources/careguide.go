package sources

import (
	"regexp"
	"strings"

	"go-plantshelf/models"
)

// CareSection Perenual 养护指南里带标签的一段文本
type CareSection struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

var (
	// 耐寒区间从自由文本里抠数字：第一个数字组是下限，
	// "to" 后面紧跟的数字组是上限，都允许带一个字母后缀（如 7a）
	hardinessFirst = regexp.MustCompile(`(?i)(\d+[a-z]?)`)
	hardinessTo    = regexp.MustCompile(`(?i)to (\d+[a-z]?)`)
)

// ExtractCareGuide 把养护指南的文本段解析成结构化字段。
// watering 和 pruning 原样取描述，sunlight 按逗号切成列表，
// hardiness 从文本里解析区间。找不到的段落对应字段保持空，不报错。
func ExtractCareGuide(sections []CareSection) models.CareGuide {
	var guide models.CareGuide

	if desc, ok := findSection(sections, "watering"); ok {
		guide.Watering = &desc
	}

	if desc, ok := findSection(sections, "sunlight"); ok {
		parts := strings.Split(desc, ",")
		sunlight := make([]string, 0, len(parts))
		for _, part := range parts {
			sunlight = append(sunlight, strings.TrimSpace(part))
		}
		guide.Sunlight = sunlight
	}

	if desc, ok := findSection(sections, "pruning"); ok {
		guide.Pruning = &desc
	}

	if desc, ok := findSection(sections, "hardiness"); ok {
		if min := hardinessFirst.FindString(desc); min != "" {
			guide.Hardiness.Min = &min
		}
		if m := hardinessTo.FindStringSubmatch(desc); m != nil {
			max := m[1]
			guide.Hardiness.Max = &max
		}
	}

	return guide
}

func findSection(sections []CareSection, sectionType string) (string, bool) {
	for _, s := range sections {
		if s.Type == sectionType {
			return s.Description, true
		}
	}
	return "", false
}
