package boundary

// WordLengthForward returns how many chars a word motion from pos crosses.
// Horizontal whitespace is skipped first, then the run of chars sharing the
// class of the first non-blank char. A line break is crossed as one unit
// and only when no whitespace was skipped before it.
func WordLengthForward(t Text, pos int) int {
	n := t.LenChars()
	i := pos
	for i < n {
		r, _ := t.CharAt(i)
		if !IsBlank(r) {
			break
		}
		i++
	}
	if i >= n {
		return i - pos
	}

	r, _ := t.CharAt(i)
	class := Classify(r)
	if class == Linebreak {
		if i > pos {
			return i - pos
		}
		return BreakWidthAt(t, i)
	}

	for i < n {
		r, _ := t.CharAt(i)
		if IsBlank(r) || Classify(r) != class {
			break
		}
		i++
	}
	return i - pos
}

// WordLengthBackward mirrors WordLengthForward for leftward motion.
func WordLengthBackward(t Text, pos int) int {
	i := min(pos, t.LenChars())
	for i > 0 {
		r, _ := t.CharAt(i - 1)
		if !IsBlank(r) {
			break
		}
		i--
	}
	if i <= 0 {
		return pos - i
	}

	r, _ := t.CharAt(i - 1)
	class := Classify(r)
	if class == Linebreak {
		if i < pos {
			return pos - i
		}
		return BreakWidthBefore(t, i)
	}

	for i > 0 {
		r, _ := t.CharAt(i - 1)
		if IsBlank(r) || Classify(r) != class {
			break
		}
		i--
	}
	return pos - i
}

// WordBounds returns the maximal run of same-class chars around pos, as
// used by double-click selection. At a line break the break itself is
// returned; at the end of the text the run before pos is used.
func WordBounds(t Text, pos int) (start, end int) {
	n := t.LenChars()
	if n == 0 {
		return 0, 0
	}
	pos = max(0, min(pos, n))
	if pos == n {
		pos = n - 1
	}

	r, _ := t.CharAt(pos)
	class := Classify(r)
	if class == Linebreak {
		if IsCRLFBefore(t, pos+1) {
			return pos - 1, pos + 1
		}
		return pos, pos + BreakWidthAt(t, pos)
	}
	blank := IsBlank(r)

	same := func(i int) bool {
		c, ok := t.CharAt(i)
		return ok && Classify(c) == class && IsBlank(c) == blank
	}

	start = pos
	for start > 0 && same(start-1) {
		start--
	}
	end = pos + 1
	for end < n && same(end) {
		end++
	}
	return start, end
}
