package match

// NextActive scans forward from the player after current, wrapping, and returns the first
// active index. current itself is checked last. It reports false when nobody is active.
func NextActive(players []*Player, current int) (int, bool) {
	n := len(players)
	if n == 0 {
		return 0, false
	}

	for step := 1; step <= n; step++ {
		i := (current + step) % n
		if i < 0 {
			i += n
		}
		if players[i].Active {
			return i, true
		}
	}

	return 0, false
}

func activeCount(players []*Player) int {
	var n int
	for _, p := range players {
		if p.Active {
			n++
		}
	}
	return n
}
