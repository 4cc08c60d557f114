package textdiff

// Pair is a left word matched to a right word.
type Pair struct {
	Left  int
	Right int
}

// Partition splits two word lists into matched pairs and one-sided words.
// Indices refer to the input slices.
type Partition struct {
	Matched   []Pair
	LeftOnly  []int
	RightOnly []int
}

func matches(a, b Word) bool {
	return a.Norm == b.Norm && a.Box.Overlaps(b.Box)
}

// Match aligns left and right words.
//
// Each left word, in order, claims the first unclaimed right word it
// matches; left words that claim nothing are left-only. Right-only words are
// found in a separate pass that tests every left word without claiming, so a
// single left word may account for several right words.
func Match(left, right []Word) Partition {
	var p Partition

	claimed := make([]bool, len(right))
	for i, lw := range left {
		found := false
		for j, rw := range right {
			if claimed[j] || !matches(lw, rw) {
				continue
			}
			claimed[j] = true
			p.Matched = append(p.Matched, Pair{Left: i, Right: j})
			found = true
			break
		}
		if !found {
			p.LeftOnly = append(p.LeftOnly, i)
		}
	}

	for j, rw := range right {
		found := false
		for _, lw := range left {
			if matches(rw, lw) {
				found = true
				break
			}
		}
		if !found {
			p.RightOnly = append(p.RightOnly, j)
		}
	}

	return p
}
