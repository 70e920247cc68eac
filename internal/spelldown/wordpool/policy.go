// Package wordpool selects the next word for a player from the personal and global pools.
//
// Allocation is pure: a Policy only reads the pools and used sets it is handed. The caller
// records the returned word in both used sets before drawing again.
package wordpool

import "github.com/valyala/fastrand"

// Request carries everything a Policy may look at for one draw.
type Request struct {
	Personal     []string
	PersonalUsed Set
	Global       []string
	GlobalUsed   Set
}

// Policy picks the next word, reporting false once the supply is exhausted.
type Policy interface {
	Next(req Request) (string, bool)
}

// Rand returns a uniform integer in [0, n).
type Rand func(n int) int

// FastRand is the default Rand.
func FastRand(n int) int {
	return int(fastrand.Uint32n(uint32(n)))
}

var _ Policy = (*PersonalFirst)(nil)

// PersonalFirst prefers the player's own words that nobody has seen yet and falls back to
// the shared pool. Within a pool the choice is uniform.
type PersonalFirst struct {
	rnd Rand
}

func NewPersonalFirst(rnd Rand) *PersonalFirst {
	if rnd == nil {
		rnd = FastRand
	}
	return &PersonalFirst{rnd: rnd}
}

func (p *PersonalFirst) Next(req Request) (string, bool) {
	eligible := filter(req.Personal, func(w string) bool {
		return !req.PersonalUsed.Has(w) && !req.GlobalUsed.Has(w)
	})
	if len(eligible) == 0 {
		eligible = filter(req.Global, func(w string) bool {
			return !req.GlobalUsed.Has(w)
		})
	}

	if len(eligible) == 0 {
		return "", false
	}

	return eligible[p.rnd(len(eligible))], true
}

// filter keeps the first occurrence of every eligible key.
func filter(words []string, keep func(string) bool) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		k := Key(w)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}
