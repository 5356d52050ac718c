package game

import "fmt"

// Phase 比赛阶段
type Phase int

const (
	PhaseWaitingForPlayers Phase = iota // 等待玩家
	PhaseInitializing                   // 初始化
	PhasePassing                        // 传牌
	PhasePlaying                        // 出牌
	PhaseScoring                        // 计分
	PhaseFinished                       // 结束
)

var phaseNames = map[Phase]string{
	PhaseWaitingForPlayers: "WAITING_FOR_PLAYERS",
	PhaseInitializing:      "INITIALIZING",
	PhasePassing:           "PASSING",
	PhasePlaying:           "PLAYING",
	PhaseScoring:           "SCORING",
	PhaseFinished:          "FINISHED",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for k, v := range phaseNames {
		if v == string(b) {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("无法识别的阶段: %q", b)
}
