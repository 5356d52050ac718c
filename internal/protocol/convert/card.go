package convert

import (
	"github.com/palemoky/hearts/internal/game/card"
	"github.com/palemoky/hearts/internal/protocol"
)

// CardToInfo 将 card.Card 转换为 protocol.CardInfo
func CardToInfo(c card.Card) protocol.CardInfo {
	return protocol.CardInfo{
		Suit:  c.Suit.Name(),
		Rank:  c.Rank.String(),
		Value: c.Value(),
	}
}

// CardsToInfos 将 []card.Card 转换为 []protocol.CardInfo
func CardsToInfos(cards []card.Card) []protocol.CardInfo {
	infos := make([]protocol.CardInfo, len(cards))
	for i, c := range cards {
		infos[i] = CardToInfo(c)
	}
	return infos
}

// InfoToCard 校验并转换客户端传来的牌，Value 字段被忽略
func InfoToCard(info protocol.CardInfo) (card.Card, error) {
	suit, err := card.ParseSuit(info.Suit)
	if err != nil {
		return card.Card{}, err
	}
	rank, err := card.ParseRank(info.Rank)
	if err != nil {
		return card.Card{}, err
	}
	return card.Card{Suit: suit, Rank: rank}, nil
}

// InfosToCards 将 []protocol.CardInfo 转换为 []card.Card，任一张无效即失败
func InfosToCards(infos []protocol.CardInfo) ([]card.Card, error) {
	cards := make([]card.Card, len(infos))
	for i, info := range infos {
		c, err := InfoToCard(info)
		if err != nil {
			return nil, err
		}
		cards[i] = c
	}
	return cards, nil
}
