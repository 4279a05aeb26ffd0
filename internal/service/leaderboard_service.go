package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/internal/util"
	"quiz_expleo_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	leaderboardCachePrefix = "leaderboard:"
	leaderboardCacheTTL    = 60 * time.Second
	leaderboardMaxEntries  = 100
)

type LeaderboardService struct {
	ResultRepo QuizResultStore
	Redis      *redis.Client
}

func NewLeaderboardService(resultRepo QuizResultStore, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{
		ResultRepo: resultRepo,
		Redis:      rdb,
	}
}

// SortPerformances 排序规则：平均分降序，总分降序，最后按用户 ID 升序保证稳定
func SortPerformances(rows []model.UserPerformance) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AverageScore != rows[j].AverageScore {
			return rows[i].AverageScore > rows[j].AverageScore
		}
		if rows[i].TotalScore != rows[j].TotalScore {
			return rows[i].TotalScore > rows[j].TotalScore
		}
		return rows[i].UserID < rows[j].UserID
	})
}

// BuildLeaderboard 将已聚合的成绩行转换为排行榜。
// 名次严格从 1 开始逐位递增，同分用户由排序的末级比较（用户 ID）定先后，
// 不共享名次。
func BuildLeaderboard(rows []model.UserPerformance, currentUserID uint) []model.LeaderboardEntry {
	SortPerformances(rows)

	entries := make([]model.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		name := row.Username
		if !row.HasUser || name == "" {
			name = "Utilisateur inconnu"
		}

		entries = append(entries, model.LeaderboardEntry{
			Rank:             i + 1,
			UserID:           row.UserID,
			Name:             name,
			CBU:              row.CBU,
			Avatar:           row.Avatar,
			AverageScore:     round2(row.AverageScore),
			TotalScore:       row.TotalScore,
			CompletedQuizzes: row.CompletedQuizzes,
			BestScore:        round2(row.BestScore),
			TotalTimeSpent:   row.TotalTimeSpent,
			LastActivity:     row.LastActivity,
			Current:          currentUserID != 0 && row.UserID == currentUserID,
		})
	}
	return entries
}

// FilterMinCompleted 过滤掉完成数不足的用户
func FilterMinCompleted(rows []model.UserPerformance, min int) []model.UserPerformance {
	if min <= 1 {
		return rows
	}
	filtered := make([]model.UserPerformance, 0, len(rows))
	for _, row := range rows {
		if row.CompletedQuizzes >= min {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GetLeaderboard 返回排行榜，cbu 非空时限定部门范围，minCompleted 过滤完成数
// 不足的用户，结果短暂缓存于 Redis。缓存存的是聚合行，过滤在缓存之后进行。
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, cbu string, limit, minCompleted int, currentUserID uint) ([]model.LeaderboardEntry, error) {
	if limit <= 0 || limit > leaderboardMaxEntries {
		limit = leaderboardMaxEntries
	}

	cacheKey := leaderboardCachePrefix + "global"
	if cbu != "" {
		cacheKey = leaderboardCachePrefix + "cbu:" + cbu
	}

	var rows []model.UserPerformance
	if cached := s.readCache(ctx, cacheKey, &rows); !cached {
		var err error
		rows, err = s.ResultRepo.AggregateByUser(cbu)
		if err != nil {
			return nil, err
		}
		s.writeCache(ctx, cacheKey, rows)
	}

	entries := BuildLeaderboard(FilterMinCompleted(rows, minCompleted), currentUserID)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

type UserRank struct {
	Rank       int                     `json:"rank"`
	TotalUsers int                     `json:"totalUsers"`
	UserStats  *model.LeaderboardEntry `json:"userStats"`
}

// GetUserRank 返回用户在全局排行榜中的名次
func (s *LeaderboardService) GetUserRank(ctx context.Context, userID uint) (*UserRank, error) {
	rows, err := s.ResultRepo.AggregateByUser("")
	if err != nil {
		return nil, err
	}

	entries := BuildLeaderboard(rows, userID)
	for i := range entries {
		if entries[i].UserID == userID {
			return &UserRank{
				Rank:       entries[i].Rank,
				TotalUsers: len(entries),
				UserStats:  &entries[i],
			}, nil
		}
	}
	return nil, util.ErrUserNotFound
}

// GetGeneralStats 返回全平台汇总统计
func (s *LeaderboardService) GetGeneralStats() (*model.PlatformStats, error) {
	stats, err := s.ResultRepo.PlatformStats()
	if err != nil {
		return nil, err
	}
	stats.AverageScore = round2(stats.AverageScore)
	stats.BestScore = round2(stats.BestScore)
	return stats, nil
}

// InvalidateCache 在成绩提交后清除排行榜缓存
func (s *LeaderboardService) InvalidateCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	keys, err := s.Redis.Keys(ctx, leaderboardCachePrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := s.Redis.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("failed to invalidate leaderboard cache", zap.Error(err))
	}
}

func (s *LeaderboardService) readCache(ctx context.Context, key string, dest *[]model.UserPerformance) bool {
	if s.Redis == nil {
		return false
	}
	data, err := s.Redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (s *LeaderboardService) writeCache(ctx context.Context, key string, rows []model.UserPerformance) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, key, data, leaderboardCacheTTL).Err(); err != nil {
		logger.Log.Warn("failed to cache leaderboard", zap.Error(err))
	}
}
