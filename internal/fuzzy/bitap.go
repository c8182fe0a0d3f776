// Package fuzzy implements approximate string matching for
// workspace/symbol search (spec.md §4.8's fuzzy-matched declaration
// names). Grounded on internal/server/definition_handlers.go's
// filterByBitapFuzzyParallel/bitapFuzzyMatch pair, generalized from
// matching note titles to matching declaration names, unchanged
// otherwise: same bounded Levenshtein-automaton bitap core, same
// worker-pool-with-early-cancel parallelization.
package fuzzy

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"unicode/utf8"
)

// FilterParallel returns the subset of candidates that match pattern
// with at most k errors, stopping once maxHits are found. Candidates
// are matched concurrently across GOMAXPROCS workers.
func FilterParallel(pattern string, candidates []string, k, maxHits int) []string {
	if utf8.RuneCountInString(pattern) == 0 {
		return nil
	}

	patternRunes := []rune(pattern)
	m := len(patternRunes)
	if m > 63 {
		patternRunes = patternRunes[:63]
		m = 63
	}

	var masks [128]uint64
	for i, r := range patternRunes {
		if r < 128 {
			masks[r] |= 1 << uint(i)
		}
	}
	highest := uint64(1) << uint(m-1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	results := make(chan string, maxHits)
	var hitCount int32
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))

	for _, c := range candidates {
		if atomic.LoadInt32(&hitCount) >= int32(maxHits) || ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(text string) {
			defer wg.Done()
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			if match(text, masks, highest, k) {
				count := atomic.AddInt32(&hitCount, 1)
				if count <= int32(maxHits) {
					results <- text
					if count == int32(maxHits) {
						cancel()
					}
				}
			}
		}(c)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var filtered []string
	for c := range results {
		filtered = append(filtered, c)
	}
	return filtered
}

// match reports whether pattern appears in text with at most k errors,
// using the Wu-Manber bitap variant.
func match(text string, masks [128]uint64, highest uint64, k int) bool {
	r := make([]uint64, k+1)

	for _, cr := range text {
		var charMask uint64
		if cr < 128 {
			charMask = masks[cr]
		}

		oldPrev := r[0]
		r[0] = ((oldPrev << 1) | 1) & charMask

		for d := 1; d <= k; d++ {
			old := r[d]
			// exact extension | insertion | substitution | deletion
			r[d] = (((old << 1) | 1) & charMask) | oldPrev | ((oldPrev << 1) | 1) | ((r[d-1] << 1) | 1)
			oldPrev = old
		}

		for d := 0; d <= k; d++ {
			if r[d]&highest != 0 {
				return true
			}
		}
	}
	return false
}
