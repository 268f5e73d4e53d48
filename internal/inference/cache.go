package inference

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// outcome is what the classifier produced for one vector.
type outcome struct {
	index int
	proba []float64
}

// resultCache memoizes classifier outputs. The classifier is deterministic,
// so a hit is indistinguishable from recomputing. A nil cache is disabled.
type resultCache struct {
	c *lru.Cache[vector, outcome]
}

func newResultCache(size int) (*resultCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[vector, outcome](size)
	if err != nil {
		return nil, err
	}
	return &resultCache{c: c}, nil
}

func (rc *resultCache) get(x vector) (outcome, bool) {
	if rc == nil {
		return outcome{}, false
	}
	o, ok := rc.c.Get(x)
	if !ok {
		return outcome{}, false
	}
	return outcome{index: o.index, proba: append([]float64(nil), o.proba...)}, true
}

func (rc *resultCache) add(x vector, o outcome) {
	if rc == nil {
		return
	}
	rc.c.Add(x, outcome{index: o.index, proba: append([]float64(nil), o.proba...)})
}

func (rc *resultCache) len() int {
	if rc == nil {
		return 0
	}
	return rc.c.Len()
}
