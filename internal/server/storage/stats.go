package storage

import "fmt"

// PlayerStats 玩家的累计战绩，JSON 存在 player:stats:<id>
type PlayerStats struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`

	TotalGames int    `json:"total_games"`
	Wins       int    `json:"wins"`       // 第一名次数
	Placements [4]int `json:"placements"` // 第 1-4 名各几次

	TotalScore  int `json:"total_score"`  // 终局分之和，越低越好
	PointsTaken int `json:"points_taken"` // 实际吃进的分
	MoonShots   int `json:"moon_shots"`

	Rating        int `json:"rating"`
	CurrentStreak int `json:"current_streak"` // >0 连胜，<0 连败
	MaxWinStreak  int `json:"max_win_streak"`

	LastPlayedAt int64 `json:"last_played_at"`
	CreatedAt    int64 `json:"created_at"`
}

// GameResult 一局结束时某位玩家的结果
type GameResult struct {
	PlayerID    string
	PlayerName  string
	Placement   int // 1-4
	FinalScore  int
	PointsTaken int
	MoonShots   int
}

// 名次对应的积分变化
var placementRating = [4]int{30, 10, -5, -15}

// 第一名时按当前连胜追加
const (
	StreakBonus3  = 5
	StreakBonus5  = 10
	StreakBonus10 = 20
)

func streakBonus(streak int) int {
	switch {
	case streak >= 10:
		return StreakBonus10
	case streak >= 5:
		return StreakBonus5
	case streak >= 3:
		return StreakBonus3
	}
	return 0
}

func (s *PlayerStats) WinRate() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return 100 * float64(s.Wins) / float64(s.TotalGames)
}

// AvgScore 平均终局分
func (s *PlayerStats) AvgScore() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.TotalGames)
}

// apply 计入一局结果，积分不低于 0
func (s *PlayerStats) apply(res GameResult, playedAt int64) error {
	if res.Placement < 1 || res.Placement > len(placementRating) {
		return fmt.Errorf("无效名次: %d", res.Placement)
	}
	won := res.Placement == 1

	s.PlayerName = res.PlayerName
	s.TotalGames++
	s.Placements[res.Placement-1]++
	s.TotalScore += res.FinalScore
	s.PointsTaken += res.PointsTaken
	s.MoonShots += res.MoonShots
	s.LastPlayedAt = playedAt

	delta := placementRating[res.Placement-1]
	if won {
		s.Wins++
		s.CurrentStreak = max(1, s.CurrentStreak+1)
		delta += streakBonus(s.CurrentStreak)
	} else {
		s.CurrentStreak = min(-1, s.CurrentStreak-1)
	}
	s.MaxWinStreak = max(s.MaxWinStreak, s.CurrentStreak)
	s.Rating = max(0, s.Rating+delta)
	return nil
}
