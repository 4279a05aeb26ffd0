package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0min", FormatMinutes(0))
	assert.Equal(t, "45min", FormatMinutes(45))
	assert.Equal(t, "1h 0min", FormatMinutes(60))
	assert.Equal(t, "2h 15min", FormatMinutes(135))
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Il y a 0min", TimeAgo(now, now))
	assert.Equal(t, "Il y a 30min", TimeAgo(now.Add(-30*time.Minute), now))
	assert.Equal(t, "Il y a 5h", TimeAgo(now.Add(-5*time.Hour), now))
	assert.Equal(t, "Il y a 3j", TimeAgo(now.Add(-72*time.Hour), now))

	// 未来时间按 0 分钟处理
	assert.Equal(t, "Il y a 0min", TimeAgo(now.Add(time.Minute), now))
}
