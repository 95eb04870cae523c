package merge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-plantshelf/models"
)

func strp(s string) *string { return &s }

func TestMergeImagePrefersB(t *testing.T) {
	a := models.Plant{ID: 1, Source: models.SourceTrefle, ScientificName: "Monstera deliciosa"}
	b := models.Plant{ID: 2, Source: models.SourcePerenual, ScientificName: "Monstera deliciosa",
		ImageURL: strp("http://x/img.jpg")}

	result := Merge(a, b)

	require.NotNil(t, result.Merged.ImageURL)
	assert.Equal(t, "http://x/img.jpg", *result.Merged.ImageURL)
	assert.Contains(t, result.Differences, "image_url")
	// 学名一致，不算差异
	assert.NotContains(t, result.Differences, "scientific_name")
}

func TestMergeImageKeepsAWhenBEmpty(t *testing.T) {
	a := models.Plant{Source: models.SourceTrefle, ScientificName: "X", ImageURL: strp("http://a/img.jpg")}
	b := models.Plant{Source: models.SourcePerenual, ScientificName: "X"}

	result := Merge(a, b)

	require.NotNil(t, result.Merged.ImageURL)
	assert.Equal(t, "http://a/img.jpg", *result.Merged.ImageURL)
	// 取了 A 的值，差异照样要标
	assert.Contains(t, result.Differences, "image_url")
}

func TestMergeTextPrefersLonger(t *testing.T) {
	a := models.Plant{Source: models.SourceTrefle, ScientificName: "X",
		Family: strp("Araceae"), CommonName: strp("Ceriman")}
	b := models.Plant{Source: models.SourcePerenual, ScientificName: "X",
		Family: strp("Araceae (arum family)"), CommonName: strp("Monster")}

	result := Merge(a, b)

	// 更长的文本胜出
	require.NotNil(t, result.Merged.Family)
	assert.Equal(t, "Araceae (arum family)", *result.Merged.Family)
	assert.Contains(t, result.Differences, "family")

	// 等长保留 A 的值，但仍标为差异
	require.NotNil(t, result.Merged.CommonName)
	assert.Equal(t, "Ceriman", *result.Merged.CommonName)
	assert.Contains(t, result.Differences, "common_name")
}

func TestMergeTextFillsFromB(t *testing.T) {
	a := models.Plant{Source: models.SourceTrefle, ScientificName: "X"}
	b := models.Plant{Source: models.SourcePerenual, ScientificName: "X", Genus: strp("Monstera")}

	result := Merge(a, b)

	require.NotNil(t, result.Merged.Genus)
	assert.Equal(t, "Monstera", *result.Merged.Genus)
	assert.Contains(t, result.Differences, "genus")
}

func TestMergeSynonymUnion(t *testing.T) {
	a := models.Plant{Source: models.SourceTrefle, ScientificName: "X", Synonyms: []string{"Foo"}}
	b := models.Plant{Source: models.SourcePerenual, ScientificName: "X", Synonyms: []string{"Bar", "Foo"}}

	result := Merge(a, b)

	assert.ElementsMatch(t, []string{"Foo", "Bar"}, result.Merged.Synonyms)
	assert.Len(t, result.Merged.Synonyms, 2)
	assert.Contains(t, result.Differences, "synonyms")
}

func TestMergeSynonymsIdentical(t *testing.T) {
	a := models.Plant{Source: models.SourceTrefle, ScientificName: "X", Synonyms: []string{"Foo", "Bar"}}
	b := models.Plant{Source: models.SourcePerenual, ScientificName: "X", Synonyms: []string{"Foo", "Bar"}}

	result := Merge(a, b)

	assert.Equal(t, []string{"Foo", "Bar"}, result.Merged.Synonyms)
	assert.NotContains(t, result.Differences, "synonyms")
}

func TestMergeCareGuidePrefersB(t *testing.T) {
	a := models.Plant{Source: models.SourceTrefle, ScientificName: "X",
		CareGuide: &models.CareGuide{Watering: strp("old advice")}}
	b := models.Plant{Source: models.SourcePerenual, ScientificName: "X",
		CareGuide: &models.CareGuide{Watering: strp("new advice")}}

	result := Merge(a, b)

	require.NotNil(t, result.Merged.CareGuide)
	require.NotNil(t, result.Merged.CareGuide.Watering)
	assert.Equal(t, "new advice", *result.Merged.CareGuide.Watering)
	assert.Contains(t, result.Differences, "care_guide")
}

func TestMergeProvenance(t *testing.T) {
	a := models.Plant{ID: 190500, Source: models.SourceTrefle, ScientificName: "X"}
	b := models.Plant{ID: 3, Source: models.SourcePerenual, ScientificName: "X"}

	result := Merge(a, b)

	require.NotNil(t, result.Merged.TrefleID)
	assert.Equal(t, 190500, *result.Merged.TrefleID)
	require.NotNil(t, result.Merged.PerenualID)
	assert.Equal(t, 3, *result.Merged.PerenualID)

	var meta map[string]any
	require.NoError(t, json.Unmarshal(result.Merged.Metadata, &meta))
	assert.Equal(t, []any{"trefle", "perenual"}, meta["merged_from"])
}

func TestMergeOrderIndependentAtRuleLevel(t *testing.T) {
	a := models.Plant{ID: 1, Source: models.SourceTrefle, ScientificName: "X", Family: strp("Araceae")}
	b := models.Plant{ID: 2, Source: models.SourcePerenual, ScientificName: "X", Family: strp("Araceae longer")}

	ab := Merge(a, b)
	ba := Merge(b, a)

	// 规则层面与方向无关：更长的文本两个方向都胜出，差异集一致
	assert.Equal(t, *ab.Merged.Family, *ba.Merged.Family)
	assert.Equal(t, ab.Differences, ba.Differences)
}

func TestMergeResultShape(t *testing.T) {
	a := models.Plant{ID: 1, Source: models.SourceTrefle, ScientificName: "X"}
	b := models.Plant{ID: 2, Source: models.SourcePerenual, ScientificName: "X"}

	result := Merge(a, b)

	assert.Equal(t, a.ID, result.Original.ID)
	require.NotNil(t, result.Matched)
	assert.Equal(t, b.ID, result.Matched.ID)
	// differences 必须是确定性的有序输出
	assert.IsType(t, []string{}, result.Differences)
}
