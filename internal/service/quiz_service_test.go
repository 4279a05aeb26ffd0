package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivePercentageFromCounts(t *testing.T) {
	assert.Equal(t, float64(70), DerivePercentage(7, 10, nil))
	assert.Equal(t, float64(100), DerivePercentage(10, 10, nil))
	assert.Equal(t, float64(0), DerivePercentage(0, 10, nil))

	// 四舍五入为整数百分比
	assert.Equal(t, float64(67), DerivePercentage(2, 3, nil))
	assert.Equal(t, float64(33), DerivePercentage(1, 3, nil))
}

func TestDerivePercentageProvidedWins(t *testing.T) {
	provided := 88.5
	assert.Equal(t, 88.5, DerivePercentage(7, 10, &provided))
}

func TestDerivePercentageZeroTotal(t *testing.T) {
	assert.Equal(t, float64(0), DerivePercentage(5, 0, nil))
}
