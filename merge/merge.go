// Package merge 把来自两个数据源、被认为是同一物种的两条记录
// 合成一条规范记录，并记下哪些字段取值不一致。
// 决定性的平局规则（取更长的文本、取 B 方的图片）是沿用下来的启发式，
// 改动它们会破坏和既有数据的行为一致性。
package merge

import (
	"encoding/json"
	"sort"

	"go-plantshelf/models"
)

// Merge 以 A 为底合并 A、B 两条记录。纯函数，无 I/O。
// 文本字段：只有一方有值取有值的一方；两方都有且不相等取更长的，
// 等长保留 A；只要原始取值不相等就记入 differences，无论最终选了哪边。
func Merge(a, b models.Plant) models.ComparisonResult {
	merged := a
	diffs := make(map[string]bool)

	type textField struct {
		name string
		a, b *string
		take func(v *string)
	}

	fields := []textField{
		{"scientific_name", strOrNil(a.ScientificName), strOrNil(b.ScientificName), func(v *string) { merged.ScientificName = *v }},
		{"common_name", a.CommonName, b.CommonName, func(v *string) { merged.CommonName = v }},
		{"family", a.Family, b.Family, func(v *string) { merged.Family = v }},
		{"family_common_name", a.FamilyCommonName, b.FamilyCommonName, func(v *string) { merged.FamilyCommonName = v }},
		{"genus", a.Genus, b.Genus, func(v *string) { merged.Genus = v }},
		{"bibliography", a.Bibliography, b.Bibliography, func(v *string) { merged.Bibliography = v }},
		{"author", a.Author, b.Author, func(v *string) { merged.Author = v }},
	}

	for _, f := range fields {
		if !strEqual(f.a, f.b) {
			diffs[f.name] = true
		}

		if f.a == nil && f.b != nil {
			f.take(f.b)
		} else if f.a != nil && f.b != nil && runeLen(*f.b) > runeLen(*f.a) {
			f.take(f.b)
		}
	}

	// 图片：取 B 方的，B 没有才留 A 的
	if !strEqual(a.ImageURL, b.ImageURL) {
		diffs["image_url"] = true
		if b.ImageURL != nil {
			merged.ImageURL = b.ImageURL
		} else {
			merged.ImageURL = a.ImageURL
		}
	}

	// 异名表：去重求并，保持 A 在前 B 在后的插入顺序
	if len(a.Synonyms) > 0 || len(b.Synonyms) > 0 {
		seen := make(map[string]bool)
		var combined []string
		for _, list := range [][]string{a.Synonyms, b.Synonyms} {
			for _, syn := range list {
				if !seen[syn] {
					seen[syn] = true
					combined = append(combined, syn)
				}
			}
		}
		merged.Synonyms = combined

		if !jsonEqual(a.Synonyms, b.Synonyms) {
			diffs["synonyms"] = true
		}
	}

	// 养护指南：取 B 方的（刚查询的那个源）
	if a.CareGuide != nil || b.CareGuide != nil {
		if b.CareGuide != nil {
			merged.CareGuide = b.CareGuide
		} else {
			merged.CareGuide = a.CareGuide
		}
		if !jsonEqual(a.CareGuide, b.CareGuide) {
			diffs["care_guide"] = true
		}
	}

	// 合并记录保留两个来源的 ID，metadata 记下合并自哪两个源
	merged.TrefleID = sourceID(a, b, models.SourceTrefle)
	merged.PerenualID = sourceID(a, b, models.SourcePerenual)
	merged.Metadata, _ = json.Marshal(map[string]any{
		"merged_from": []string{a.Source, b.Source},
	})

	differences := make([]string, 0, len(diffs))
	for name := range diffs {
		differences = append(differences, name)
	}
	sort.Strings(differences)

	return models.ComparisonResult{
		Original:    a,
		Matched:     &b,
		Merged:      merged,
		Differences: differences,
	}
}

func sourceID(a, b models.Plant, source string) *int {
	if a.Source == source {
		id := a.ID
		return &id
	}
	if b.Source == source {
		id := b.ID
		return &id
	}
	return nil
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func runeLen(s string) int {
	return len([]rune(s))
}

// jsonEqual 按序列化形式比较，和字段标记差异的口径保持一致
func jsonEqual(a, b any) bool {
	aj, aerr := json.Marshal(a)
	bj, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return false
	}
	return string(aj) == string(bj)
}
