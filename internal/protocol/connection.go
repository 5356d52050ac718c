package protocol

// 连接、心跳与重连

type (
	ConnectedPayload struct {
		PlayerID       string `json:"player_id"`
		PlayerName     string `json:"player_name"`
		ReconnectToken string `json:"reconnect_token"`
	}

	ReconnectPayload struct {
		Token    string `json:"token"`
		PlayerID string `json:"player_id"`
	}

	// ReconnectedPayload 不在房间时 RoomCode 为空，不在牌局时 GameState 为空
	ReconnectedPayload struct {
		PlayerID   string        `json:"player_id"`
		PlayerName string        `json:"player_name"`
		RoomCode   string        `json:"room_code,omitempty"`
		GameState  *GameStateDTO `json:"game_state,omitempty"`
	}

	// PingPayload 时间戳为客户端毫秒，原样回到 Pong 里算延迟
	PingPayload struct {
		Timestamp int64 `json:"timestamp"`
	}

	PongPayload struct {
		ClientTimestamp int64 `json:"client_timestamp"`
		ServerTimestamp int64 `json:"server_timestamp"`
	}

	// PlayerOfflinePayload Timeout 为等待重连的秒数
	PlayerOfflinePayload struct {
		PlayerID   string `json:"player_id"`
		PlayerName string `json:"player_name"`
		Timeout    int    `json:"timeout"`
	}

	PlayerOnlinePayload struct {
		PlayerID   string `json:"player_id"`
		PlayerName string `json:"player_name"`
	}

	ErrorPayload struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
)
