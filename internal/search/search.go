// Package search ищет звуки по имени нечетким совпадением
package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/hazadus/playsounds/internal/sound"
)

// Find возвращает звуки, имя которых содержит символы query по порядку,
// без учета регистра и диакритики. Ближайшие совпадения идут первыми,
// при равенстве сохраняется порядок списка. Пустой query возвращает весь список
func Find(sounds []*sound.Sound, query string) []*sound.Sound {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]*sound.Sound(nil), sounds...)
	}

	ranks := fuzzy.RankFindNormalizedFold(query, sound.Names(sounds))
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	found := make([]*sound.Sound, 0, len(ranks))
	for _, r := range ranks {
		found = append(found, sounds[r.OriginalIndex])
	}
	return found
}

// Match сообщает, подходит ли имя под запрос
func Match(name, query string) bool {
	query = strings.TrimSpace(query)
	return query == "" || fuzzy.MatchNormalizedFold(query, name)
}
