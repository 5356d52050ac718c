package server

import "math/rand/v2"

// 昵称词库
var (
	adjectives = []string{
		"勇敢的", "聪明的", "快乐的", "神秘的", "酷炫的",
		"优雅的", "可爱的", "威武的", "沉稳的", "活泼的",
		"机智的", "潇洒的", "温柔的", "霸气的", "淡定的",
	}

	nouns = []string{
		"红桃", "黑桃", "方块", "梅花", "皇后",
		"国王", "骑士", "牌手", "赌神", "庄家",
		"月亮", "猎手", "老猫", "刺猬", "羊驼",
	}
)

// GenerateNickname 生成随机昵称
func GenerateNickname() string {
	return adjectives[rand.IntN(len(adjectives))] + nouns[rand.IntN(len(nouns))]
}
