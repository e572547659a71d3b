package models

import (
	"encoding/json"
	"time"
)

// EngagementSnapshot — «живые» счётчики и флаги зрителя для одного контента.
//
// Вычисляется заново на каждый запрос и нигде не кэшируется: это производное
// представление момента чтения, консистентность гарантируется только
// «на момент запроса».
type EngagementSnapshot struct {
	// Likes — количество лайков, >= 0.
	Likes int64
	// Comments — количество комментариев, >= 0.
	Comments int64
	// ViewerLiked — лайкнул ли зритель; false для анонимного запроса.
	ViewerLiked bool
	// ViewerBookmarked — добавил ли зритель в закладки; false для анонимного запроса.
	ViewerBookmarked bool
}

// ScoredItem — кандидат с вычисленным скором.
// Эфемерный: живёт только в пределах одной сборки ленты.
type ScoredItem struct {
	Item       ContentItem
	Engagement EngagementSnapshot
	// Score — релевантность, >= 0.
	Score float64
}

// FeedEntry — публичное представление элемента ленты.
// Score в публичный payload не входит.
type FeedEntry struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Excerpt      string        `json:"excerpt"`
	MediaURL     string        `json:"mediaUrl,omitempty"`
	Topics       []string      `json:"topics"`
	Author       AuthorSummary `json:"author"`
	CreatedAt    time.Time     `json:"createdAt"`
	Likes        int64         `json:"likes"`
	Comments     int64         `json:"comments"`
	IsLiked      bool          `json:"isLiked"`
	IsBookmarked bool          `json:"isBookmarked"`
}

// FeedOptions — параметры выдачи ленты.
//
// Особенности:
//   - при Limit == 0 применяется серверный default (из config.LimitsConfig.Default);
//   - пагинация применяется к уже отранжированному списку, а не к выборке:
//     стабильность страниц между запросами не гарантируется.
type FeedOptions struct {
	Limit  int32
	Offset int32
}

// RankItem — элемент произвольного батча для отдельного скоринг-эндпойнта.
// Поля намеренно повторяют сериализацию ленты: внешний вызыватель (например,
// пайплайн автоматизации) может переранжировать собственный набор, не проходя
// полную сборку ленты.
//
// В скоринге участвуют только типизированные поля, но исходный JSON элемента
// сохраняется целиком (Raw): контракт эндпойнта — вернуть те же элементы,
// аннотированные скором, без потери полей, о которых сервис не знает.
type RankItem struct {
	ID         string    `json:"id"`
	Topics     []string  `json:"topics"`
	Popularity int64     `json:"popularity"`
	CreatedAt  time.Time `json:"createdAt"`

	// Raw — исходный payload элемента; заполняется при декодировании запроса.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON декодирует типизированные поля и сохраняет исходный payload.
func (r *RankItem) UnmarshalJSON(data []byte) error {
	type rankItem RankItem

	var plain rankItem
	if err := json.Unmarshal(data, &plain); err != nil {
		return err
	}

	*r = RankItem(plain)
	r.Raw = append(json.RawMessage(nil), data...)

	return nil
}

// ScoreBreakdown — постатейная расшифровка скора (только для rank-эндпойнта).
type ScoreBreakdown struct {
	Base       float64 `json:"base"`
	TopicMatch float64 `json:"topicMatch"`
	Popularity float64 `json:"popularity"`
	AgePenalty float64 `json:"agePenalty"`
}

// RankedItem — элемент батча с вычисленным скором и расшифровкой.
type RankedItem struct {
	RankItem
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"scoreBreakdown"`
}

// MarshalJSON возвращает исходные поля элемента плюс score и scoreBreakdown.
// score/scoreBreakdown из входного payload (если вызыватель их прислал)
// перезаписываются вычисленными значениями.
func (r RankedItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)

	if len(r.Raw) > 0 {
		if err := json.Unmarshal(r.Raw, &out); err != nil {
			return nil, err
		}
	} else {
		// Элемент собран в коде, а не декодирован из запроса.
		out["id"] = r.ID
		out["topics"] = r.Topics
		out["popularity"] = r.Popularity
		out["createdAt"] = r.CreatedAt
	}

	out["score"] = r.Score
	out["scoreBreakdown"] = r.Breakdown

	return json.Marshal(out)
}
