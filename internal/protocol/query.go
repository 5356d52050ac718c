package protocol

// GetLeaderboardPayload Type 为 total/daily/weekly，空值按 total
type GetLeaderboardPayload struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Rating     int     `json:"rating"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
}

type LeaderboardResultPayload struct {
	Type    string             `json:"type"`
	Entries []LeaderboardEntry `json:"entries"`
}

// StatsResultPayload 个人战绩。Placements[i] 为第 i+1 名的次数，Rank 为 0 表示未上榜
type StatsResultPayload struct {
	PlayerID      string  `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	TotalGames    int     `json:"total_games"`
	Wins          int     `json:"wins"`
	Placements    [4]int  `json:"placements"`
	WinRate       float64 `json:"win_rate"`
	MoonShots     int     `json:"moon_shots"`
	PointsTaken   int     `json:"points_taken"`
	AvgScore      float64 `json:"avg_score"`
	Rating        int     `json:"rating"`
	Rank          int     `json:"rank"`
	CurrentStreak int     `json:"current_streak"` // 负数为连败
	MaxWinStreak  int     `json:"max_win_streak"`
}

type OnlineCountPayload struct {
	Count int `json:"count"`
}

// MaintenancePayload 服务端推送；MaintenanceStatusPayload 是对查询的回复
type (
	MaintenancePayload struct {
		Maintenance bool `json:"maintenance"`
	}
	MaintenanceStatusPayload struct {
		Maintenance bool `json:"maintenance"`
	}
)
