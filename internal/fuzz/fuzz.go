// Package fuzz implementa la similitud de strings usada por el parser y el
// selector de runners: un ratio simétrico 0–100 basado en la distancia de
// edición con coste 2 para sustituciones (equivalente a la distancia
// insert/delete sobre la suma de longitudes).
package fuzz

import "sort"

// Ratio devuelve la similitud entre a y b en escala 0–100.
// 100 significa strings idénticos; es simétrico: Ratio(a,b) == Ratio(b,a).
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	dist := editDistance(ra, rb)
	return int(float64(total-dist) / float64(total) * 100)
}

// editDistance calcula la distancia de edición con coste 1 para
// inserciones/borrados y 2 para sustituciones, con una sola fila de estado.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur := prev[0]
		prev[0] = i
		for j := 1; j <= len(b); j++ {
			sub := cur
			if a[i-1] != b[j-1] {
				sub += 2
			}
			cur = prev[j]
			prev[j] = min(sub, min(prev[j]+1, prev[j-1]+1))
		}
	}
	return prev[len(b)]
}

// Closest devuelve hasta n candidatos con similitud >= cutoff (escala 0–1)
// respecto a target, ordenados de mayor a menor similitud. Los empates
// conservan el orden de aparición en candidates.
func Closest(target string, candidates []string, n int, cutoff float64) []string {
	type scored struct {
		value string
		score int
		index int
	}

	threshold := int(cutoff * 100)
	var hits []scored
	for i, c := range candidates {
		if s := Ratio(target, c); s >= threshold {
			hits = append(hits, scored{value: c, score: s, index: i})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].index < hits[j].index
	})

	if n > 0 && len(hits) > n {
		hits = hits[:n]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.value
	}
	return out
}
