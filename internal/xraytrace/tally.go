package xraytrace

import (
	"fmt"
	"sort"
	"sync"
)

type elementTally struct {
	Hits   int
	Misses int
}

type tallyCache struct {
	mu       sync.Mutex
	elements map[string]*elementTally
}

var tally = &tallyCache{elements: make(map[string]*elementTally)}

// countEvents accumulates per-element hit/miss counts. Cheap enough to
// call unconditionally; the report is only printed under Debug.
func countEvents(name string, hits, misses int) {
	tally.mu.Lock()
	defer tally.mu.Unlock()
	t := tally.elements[name]
	if t == nil {
		t = &elementTally{}
		tally.elements[name] = t
	}
	t.Hits += hits
	t.Misses += misses
}

func tallyStats() {
	tally.mu.Lock()
	defer tally.mu.Unlock()
	names := make([]string, 0, len(tally.elements))
	for k := range tally.elements {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		t := tally.elements[k]
		fmt.Printf("Element %s: %d hits, %d misses\n", k, t.Hits, t.Misses)
	}
}

func resetTally() {
	tally.mu.Lock()
	defer tally.mu.Unlock()
	tally.elements = make(map[string]*elementTally)
}
