package viewport

import "strconv"

// GutterWidth returns the width of the line-number gutter for a document
// of lineCount lines: one cell per digit plus a separator column.
func GutterWidth(lineCount int) int {
	return countDigits(max(lineCount, 1)) + 1
}

// LineNumbers returns the 1-indexed numbers of the visible document lines.
// Rows past the end of the document get no number.
func (v *Viewport) LineNumbers(lineCount int) []int {
	last := min(v.botLine, lineCount-1)
	if last < v.topLine {
		return nil
	}
	nums := make([]int, 0, last-v.topLine+1)
	for line := v.topLine; line <= last; line++ {
		nums = append(nums, line+1)
	}
	return nums
}

// FormatLineNumber right-aligns n in a gutter of the given width, leaving
// the separator column blank.
func FormatLineNumber(n, width int) string {
	return PadLeft(strconv.Itoa(n), width-1) + " "
}

// PadLeft pads a string with spaces on the left to the specified width.
func PadLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	padding := make([]byte, width-len(s))
	for i := range padding {
		padding[i] = ' '
	}
	return string(padding) + s
}

func countDigits(n int) int {
	digits := 1
	for n >= 10 {
		n /= 10
		digits++
	}
	return digits
}
