package protocol

// CardInfo 线上的牌。Value 只用于展示，服务端按 Suit/Rank 重新解析
type CardInfo struct {
	Suit  string `json:"suit"` // HEARTS/DIAMONDS/CLUBS/SPADES
	Rank  string `json:"rank"` // 2-10, J, Q, K, A
	Value int    `json:"value"`
}

type (
	SelectPassPayload struct {
		Cards []CardInfo `json:"cards"`
	}

	PlayCardPayload struct {
		Card CardInfo `json:"card"`
	}

	// GameStartPayload Players 按座位排好
	GameStartPayload struct {
		Players  []PlayerInfo `json:"players"`
		MaxScore int          `json:"max_score"`
	}
)

// GamePlayerInfo 牌桌上人人可见的部分
type GamePlayerInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Seat       int    `json:"seat"`
	Score      int    `json:"score"`
	HandPoints int    `json:"hand_points"` // 本手吃进
	CardCount  int    `json:"card_count"`
	HasPassed  bool   `json:"has_passed"`
	Online     bool   `json:"online"`
}

// GameStateDTO 一个座位看到的牌局。别人的手牌只有张数
type GameStateDTO struct {
	Phase            string           `json:"phase"`
	HandNumber       int              `json:"hand_number"`
	PassingDirection string           `json:"passing_direction"`
	MaxScore         int              `json:"max_score"`
	Players          []GamePlayerInfo `json:"players"`

	CurrentTrick    []CardInfo `json:"current_trick"`
	TrickLeader     int        `json:"trick_leader"`
	HeartsBroken    bool       `json:"hearts_broken"`
	IsFirstTrick    bool       `json:"is_first_trick"`
	TricksPlayed    int        `json:"tricks_played"`
	CurrentTurn     string     `json:"current_turn"`
	CurrentSeat     int        `json:"current_seat"`
	Timeout         int        `json:"timeout"` // 剩余秒数
	LastTrick       []CardInfo `json:"last_trick,omitempty"`
	LastTrickWinner int        `json:"last_trick_winner"`
	WinnerID        string     `json:"winner_id,omitempty"`

	MySeat        int        `json:"my_seat"`
	Hand          []CardInfo `json:"hand"`
	PlayableCards []CardInfo `json:"playable_cards"`
	SelectedPass  []CardInfo `json:"selected_pass,omitempty"`
	ReceivedCards []CardInfo `json:"received_cards,omitempty"`
}

// TrickCompletePayload Cards 按出牌顺序，从 LeaderSeat 开始
type TrickCompletePayload struct {
	Cards      []CardInfo `json:"cards"`
	LeaderSeat int        `json:"leader_seat"`
	WinnerID   string     `json:"winner_id"`
	WinnerName string     `json:"winner_name"`
	WinnerSeat int        `json:"winner_seat"`
	Points     int        `json:"points"`
}

// HandScore Taken 是实际吃进的分，Points 是全收调整后计入累计的分
type HandScore struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Seat       int    `json:"seat"`
	Taken      int    `json:"taken"`
	Points     int    `json:"points"`
	Total      int    `json:"total"`
}

type HandScoredPayload struct {
	HandNumber    int         `json:"hand_number"`
	Scores        []HandScore `json:"scores"`
	MoonShooterID string      `json:"moon_shooter_id,omitempty"`
}

type Standing struct {
	Rank       int    `json:"rank"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Seat       int    `json:"seat"`
	Score      int    `json:"score"`
}

// GameOverPayload Aborted 表示有人离桌或关服，不计战绩
type GameOverPayload struct {
	WinnerID   string     `json:"winner_id"`
	WinnerName string     `json:"winner_name"`
	Standings  []Standing `json:"standings"`
	Aborted    bool       `json:"aborted,omitempty"`
}
