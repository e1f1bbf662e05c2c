package boundary

// MaxBracketScan bounds how far EnclosingBrackets looks in each direction.
const MaxBracketScan = 10000

// BracketPair is an opening and closing bracket.
type BracketPair struct {
	Open  rune
	Close rune
}

// DefaultBracketPairs are the pairs used when none are configured.
var DefaultBracketPairs = []BracketPair{
	{Open: '(', Close: ')'},
	{Open: '[', Close: ']'},
	{Open: '{', Close: '}'},
}

// ClosingFor returns the closer paired with open.
func ClosingFor(pairs []BracketPair, open rune) (rune, bool) {
	for _, p := range pairs {
		if p.Open == open {
			return p.Close, true
		}
	}
	return 0, false
}

// IsClosing reports whether r closes one of pairs.
func IsClosing(pairs []BracketPair, r rune) bool {
	for _, p := range pairs {
		if p.Close == r {
			return true
		}
	}
	return false
}

// EnclosingBrackets finds the innermost bracket pair around pos. openPos is
// the offset of the opening bracket and closePos the offset of its match.
// Brackets of every pair nest independently of each other.
func EnclosingBrackets(t Text, pos int, pairs []BracketPair) (openPos, closePos int, ok bool) {
	n := t.LenChars()
	pos = max(0, min(pos, n))

	depth := make(map[rune]int, len(pairs))
	openPos = -1
	var want rune
	for i := pos - 1; i >= 0 && pos-i <= MaxBracketScan; i-- {
		r, _ := t.CharAt(i)
		if IsClosing(pairs, r) {
			depth[r]++
			continue
		}
		c, isOpen := ClosingFor(pairs, r)
		if !isOpen {
			continue
		}
		if depth[c] > 0 {
			depth[c]--
			continue
		}
		openPos, want = i, c
		break
	}
	if openPos < 0 {
		return 0, 0, false
	}

	var opener rune
	for _, p := range pairs {
		if p.Close == want {
			opener = p.Open
		}
	}
	nested := 0
	for i := pos; i < n && i-pos <= MaxBracketScan; i++ {
		r, _ := t.CharAt(i)
		switch r {
		case opener:
			nested++
		case want:
			if nested == 0 {
				return openPos, i, true
			}
			nested--
		}
	}
	return 0, 0, false
}
