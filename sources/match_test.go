package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-plantshelf/models"
)

func plantNamed(name string) models.Plant {
	return models.Plant{ScientificName: name}
}

func TestBestMatchExactCanonical(t *testing.T) {
	m := NewMatcher()

	candidates := []models.Plant{
		plantNamed("Monstera adansonii"),
		plantNamed("Monstera deliciosa Liebm."),
		plantNamed("Epipremnum aureum"),
	}

	// 带命名人的写法和裸学名要按规范形式对上
	match := m.BestMatch("Monstera deliciosa", candidates)
	require.NotNil(t, match)
	assert.Equal(t, "Monstera deliciosa Liebm.", match.ScientificName)
}

func TestBestMatchGenusFallback(t *testing.T) {
	m := NewMatcher()

	candidates := []models.Plant{
		plantNamed("Epipremnum aureum"),
		plantNamed("Monstera adansonii"),
	}

	// 没有同种记录时退化到同属的第一条
	match := m.BestMatch("Monstera obliqua", candidates)
	require.NotNil(t, match)
	assert.Equal(t, "Monstera adansonii", match.ScientificName)
}

func TestBestMatchFirstFallback(t *testing.T) {
	m := NewMatcher()

	candidates := []models.Plant{
		plantNamed("Epipremnum aureum"),
		plantNamed("Ficus lyrata"),
	}

	match := m.BestMatch("Monstera deliciosa", candidates)
	require.NotNil(t, match)
	assert.Equal(t, "Epipremnum aureum", match.ScientificName)
}

func TestBestMatchEmpty(t *testing.T) {
	m := NewMatcher()
	assert.Nil(t, m.BestMatch("Monstera deliciosa", nil))
}
