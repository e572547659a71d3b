package service

import (
	"sort"
	"time"

	"github.com/learnflow/feed-service/internal/models"
)

// Веса скоринга — фиксированные константы дизайна.
//
// Формула для одного кандидата:
//
//	score = base + 1.5*|viewerTopics ∩ topics| + 1.0*popularity/maxPopularity - 0.01*ageDays
//
// где maxPopularity — максимум популярности по батчу (floor 1, чтобы не делить
// на ноль), ageDays — дробный возраст в сутках. Итог ограничен снизу нулём.
//
// Базовый член исторически был бонусом за верификацию; текущий пул кандидатов
// состоит только из верифицированного контента, поэтому он начисляется
// безусловно (решение зафиксировано в DESIGN.md).
const (
	scoreBase          = 2.0
	scoreTopicWeight   = 1.5
	scorePopWeight     = 1.0
	scoreAgePenaltyDay = 0.01
)

// maxPopularity возвращает максимум Popularity по батчу с нижней границей 1.
func maxPopularity(items []models.ContentItem) int64 {
	max := int64(1)
	for _, it := range items {
		if it.Popularity > max {
			max = it.Popularity
		}
	}

	return max
}

// topicSet нормализует список тем во множество.
func topicSet(topics []string) map[string]struct{} {
	if len(topics) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		set[t] = struct{}{}
	}

	return set
}

// topicOverlap — мощность пересечения тем кандидата с интересами зрителя.
func topicOverlap(topics []string, viewer map[string]struct{}) int {
	if len(viewer) == 0 || len(topics) == 0 {
		return 0
	}

	seen := make(map[string]struct{}, len(topics))
	overlap := 0
	for _, t := range topics {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}

		if _, ok := viewer[t]; ok {
			overlap++
		}
	}

	return overlap
}

// scoreBreakdown вычисляет постатейную расшифровку скора одного кандидата.
// Скоринг батч-относителен только через maxPop: вызывающий обязан один раз
// вычислить максимум по всему батчу до поэлементного прохода.
func scoreBreakdown(topics []string, popularity int64, createdAt time.Time, maxPop int64, viewer map[string]struct{}, now time.Time) models.ScoreBreakdown {
	if popularity < 0 {
		popularity = 0
	}

	ageDays := now.Sub(createdAt).Hours() / 24

	return models.ScoreBreakdown{
		Base:       scoreBase,
		TopicMatch: scoreTopicWeight * float64(topicOverlap(topics, viewer)),
		Popularity: scorePopWeight * float64(popularity) / float64(maxPop),
		AgePenalty: -scoreAgePenaltyDay * ageDays,
	}
}

// scoreOf сворачивает расшифровку в итоговый скор с нижней границей 0.
func scoreOf(b models.ScoreBreakdown) float64 {
	score := b.Base + b.TopicMatch + b.Popularity + b.AgePenalty
	if score < 0 {
		return 0
	}

	return score
}

// rankScoredItems вычисляет скор каждого элемента батча и сортирует батч по
// убыванию скора. Сортировка стабильная: при равных скорах сохраняется
// относительный порядок входа (пул приходит отсортированным по свежести,
// поэтому тай-брейк — «свежее выше»). Чистая функция от своих аргументов;
// повторный вызов на тех же данных даёт идентичный порядок.
func rankScoredItems(items []models.ScoredItem, viewerTopics []string, now time.Time) {
	if len(items) == 0 {
		return
	}

	batch := make([]models.ContentItem, len(items))
	for i := range items {
		batch[i] = items[i].Item
	}
	maxPop := maxPopularity(batch)

	viewer := topicSet(viewerTopics)
	for i := range items {
		it := items[i].Item
		items[i].Score = scoreOf(scoreBreakdown(it.Topics, it.Popularity, it.CreatedAt, maxPop, viewer, now))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

// RankBatch — независимая скоринг-поверхность: переранжирует произвольный
// батч клиента по той же формуле, что и лента, и дополняет каждый элемент
// расшифровкой скора. Используется rank-эндпойнтом (внешние пайплайны
// переранжируют свои наборы, не проходя полную сборку ленты).
func RankBatch(items []models.RankItem, viewerTopics []string, now time.Time) []models.RankedItem {
	maxPop := int64(1)
	for _, it := range items {
		if it.Popularity > maxPop {
			maxPop = it.Popularity
		}
	}

	viewer := topicSet(viewerTopics)

	ranked := make([]models.RankedItem, len(items))
	for i, it := range items {
		b := scoreBreakdown(it.Topics, it.Popularity, it.CreatedAt, maxPop, viewer, now)
		ranked[i] = models.RankedItem{
			RankItem:  it,
			Score:     scoreOf(b),
			Breakdown: b,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}
