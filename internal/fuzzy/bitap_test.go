package fuzzy

import "testing"

func TestFilterParallelFindsExactMatch(t *testing.T) {
	hits := FilterParallel("Parse", []string{"ParseRoot", "renderDocComment", "Lookup"}, 1, 10)
	if len(hits) != 1 || hits[0] != "ParseRoot" {
		t.Errorf("expected exactly ParseRoot, got %v", hits)
	}
}

func TestFilterParallelToleratesOneTypo(t *testing.T) {
	hits := FilterParallel("Prse", []string{"ParseRoot"}, 1, 10)
	if len(hits) != 1 {
		t.Errorf("expected a fuzzy hit within 1 error, got %v", hits)
	}
}

func TestFilterParallelEmptyPatternMatchesNothing(t *testing.T) {
	if hits := FilterParallel("", []string{"anything"}, 1, 10); hits != nil {
		t.Errorf("expected nil for an empty pattern, got %v", hits)
	}
}

func TestFilterParallelRespectsMaxHits(t *testing.T) {
	candidates := []string{"foo1", "foo2", "foo3", "foo4"}
	hits := FilterParallel("foo", candidates, 0, 2)
	if len(hits) != 2 {
		t.Errorf("expected exactly 2 hits, got %d: %v", len(hits), hits)
	}
}
