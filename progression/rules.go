package progression

import (
	"math/rand/v2"
	"sync"

	"boss-challenge-bot/model"
)

// Engine evaluates progression rules. It holds no state besides its random source.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine returns an engine drawing from the global random source.
func NewEngine() *Engine {
	return &Engine{}
}

// NewSeededEngine returns an engine with a deterministic random source.
func NewSeededEngine(seed uint64) *Engine {
	return &Engine{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NextBoss returns the boss a participant faces next, or "" when there is
// no fixed next boss. For extreme that is every progress past the first kill;
// callers then use the participant's assigned random boss.
func (e *Engine) NextBoss(progress int, mode model.Mode) string {
	if progress < 0 {
		progress = 0
	}
	if mode == model.ModeExtreme {
		if progress == 0 {
			return ExtremeStartBoss
		}
		return ""
	}
	list := difficultyLists[mode]
	if progress >= len(list) {
		return ""
	}
	return list[progress]
}

// IsComplete reports whether a finite run is finished. Extreme never is.
func (e *Engine) IsComplete(progress int, mode model.Mode) bool {
	if mode == model.ModeExtreme || !mode.Valid() {
		return false
	}
	return progress >= len(difficultyLists[mode])
}

// DrawRandomBoss picks uniformly from the master list, with replacement.
func (e *Engine) DrawRandomBoss() string {
	return masterList[e.intN(len(masterList))]
}

func (e *Engine) intN(n int) int {
	if e.rng == nil {
		return rand.IntN(n)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.IntN(n)
}

// ClampProgress keeps externally set progress non-negative.
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	return progress
}
