package protocol

// PlayerInfo 房间里的一个座位
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Seat   int    `json:"seat"` // 0-3
	Ready  bool   `json:"ready"`
	Online bool   `json:"online"`
}

type (
	JoinRoomPayload struct {
		RoomCode string `json:"room_code"`
	}

	RoomCreatedPayload struct {
		RoomCode string     `json:"room_code"`
		Player   PlayerInfo `json:"player"`
	}

	// RoomJoinedPayload Players 含自己在内的全部座位
	RoomJoinedPayload struct {
		RoomCode string       `json:"room_code"`
		Player   PlayerInfo   `json:"player"`
		Players  []PlayerInfo `json:"players"`
	}

	PlayerJoinedPayload struct {
		Player PlayerInfo `json:"player"`
	}

	PlayerLeftPayload struct {
		PlayerID   string `json:"player_id"`
		PlayerName string `json:"player_name"`
	}

	PlayerReadyPayload struct {
		PlayerID string `json:"player_id"`
		Ready    bool   `json:"ready"`
	}

	MatchFoundPayload struct {
		RoomCode string       `json:"room_code"`
		Players  []PlayerInfo `json:"players"`
	}
)

// RoomListItem 大厅房间列表的一行
type RoomListItem struct {
	RoomCode    string `json:"room_code"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
}

type RoomListResultPayload struct {
	Rooms []RoomListItem `json:"rooms"`
}
