package util

import (
	"fmt"
	"time"
)

// FormatMinutes 将分钟数格式化为 "2h 15min" 形式，不足一小时时省略小时部分
func FormatMinutes(totalMinutes int) string {
	hours := totalMinutes / 60
	minutes := totalMinutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dmin", hours, minutes)
	}
	return fmt.Sprintf("%dmin", minutes)
}

// TimeAgo 返回相对时间描述（法语界面文案）
func TimeAgo(t, now time.Time) string {
	diffMinutes := int(now.Sub(t).Minutes())
	if diffMinutes < 0 {
		diffMinutes = 0
	}
	switch {
	case diffMinutes < 60:
		return fmt.Sprintf("Il y a %dmin", diffMinutes)
	case diffMinutes < 1440:
		return fmt.Sprintf("Il y a %dh", diffMinutes/60)
	default:
		return fmt.Sprintf("Il y a %dj", diffMinutes/1440)
	}
}
