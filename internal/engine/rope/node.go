package rope

import "strings"

// Tree structure constants
const (
	// MinChildren is the minimum children per internal node (except root).
	MinChildren = 4

	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node represents a node in the rope B+ tree.
// Leaf nodes (height == 0) contain text chunks.
// Internal nodes (height > 0) contain child node references.
type Node struct {
	height  uint8       // 0 for leaves, >0 for internal
	summary TextSummary // Aggregated metrics for entire subtree

	// Internal node fields (height > 0)
	children       []*Node       // Child nodes
	childSummaries []TextSummary // Per-child summaries for efficient seeking

	// Leaf node fields (height == 0)
	chunks []Chunk // Text chunks in this leaf
}

// newLeafNode creates an empty leaf node.
func newLeafNode() *Node {
	return &Node{
		height:  0,
		summary: TextSummary{Flags: FlagASCII},
		chunks:  make([]Chunk, 0, MaxChunksPerLeaf),
	}
}

// newLeafNodeWithChunks creates a leaf node with the given chunks.
func newLeafNodeWithChunks(chunks []Chunk) *Node {
	n := &Node{
		height: 0,
		chunks: chunks,
	}
	n.recomputeSummary()
	return n
}

// newInternalNode creates an internal node with the given children.
func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}

	height := children[0].height + 1
	summaries := make([]TextSummary, len(children))
	total := TextSummary{Flags: FlagASCII}

	for i, child := range children {
		summaries[i] = child.summary
		total = total.Add(child.summary)
	}

	return &Node{
		height:         height,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Len returns the char length of text in this subtree.
func (n *Node) Len() int {
	return n.summary.Chars
}

// recomputeSummary recalculates the summary from children or chunks.
func (n *Node) recomputeSummary() {
	n.summary = TextSummary{Flags: FlagASCII}
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			n.summary = n.summary.Add(chunk.Summary())
		}
		return
	}
	n.childSummaries = make([]TextSummary, len(n.children))
	for i, child := range n.children {
		n.childSummaries[i] = child.summary
		n.summary = n.summary.Add(child.summary)
	}
}

// clone creates a shallow copy of the node.
func (n *Node) clone() *Node {
	if n.IsLeaf() {
		chunks := make([]Chunk, len(n.chunks))
		copy(chunks, n.chunks)
		return &Node{
			height:  0,
			summary: n.summary,
			chunks:  chunks,
		}
	}

	children := make([]*Node, len(n.children))
	copy(children, n.children)
	summaries := make([]TextSummary, len(n.childSummaries))
	copy(summaries, n.childSummaries)

	return &Node{
		height:         n.height,
		summary:        n.summary,
		children:       children,
		childSummaries: summaries,
	}
}

// appendTo appends all text in this subtree to the builder.
func (n *Node) appendTo(sb *strings.Builder) {
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			sb.WriteString(chunk.String())
		}
		return
	}

	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// appendRange appends text in the char range [start, end) to the builder.
func (n *Node) appendRange(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}

	if n.IsLeaf() {
		offset := 0
		for _, chunk := range n.chunks {
			chunkEnd := offset + chunk.Chars()

			if chunkEnd <= start {
				offset = chunkEnd
				continue
			}
			if offset >= end {
				break
			}

			sliceStart := 0
			if start > offset {
				sliceStart = start - offset
			}
			sliceEnd := chunk.Chars()
			if end < chunkEnd {
				sliceEnd = end - offset
			}

			data := chunk.String()
			ascii := chunk.isASCII()
			sb.WriteString(data[charToByte(data, sliceStart, ascii):charToByte(data, sliceEnd, ascii)])
			offset = chunkEnd
		}
		return
	}

	offset := 0
	for i, child := range n.children {
		childLen := n.childSummaries[i].Chars
		childEnd := offset + childLen

		if childEnd <= start {
			offset = childEnd
			continue
		}
		if offset >= end {
			break
		}

		childStart := 0
		if start > offset {
			childStart = start - offset
		}
		childEndAdj := childLen
		if end < childEnd {
			childEndAdj = end - offset
		}

		child.appendRange(sb, childStart, childEndAdj)
		offset = childEnd
	}
}

// split splits the node at the given char offset.
// Returns two nodes: left contains [0, offset), right contains [offset, end).
func (n *Node) split(offset int) (*Node, *Node) {
	if offset <= 0 {
		return newLeafNode(), n.clone()
	}
	if offset >= n.Len() {
		return n.clone(), newLeafNode()
	}

	if n.IsLeaf() {
		return n.splitLeaf(offset)
	}
	return n.splitInternal(offset)
}

// splitLeaf splits a leaf node at the given offset.
func (n *Node) splitLeaf(offset int) (*Node, *Node) {
	var leftChunks, rightChunks []Chunk
	currentOffset := 0

	for _, chunk := range n.chunks {
		chunkLen := chunk.Chars()

		switch {
		case currentOffset+chunkLen <= offset:
			leftChunks = append(leftChunks, chunk)
		case currentOffset >= offset:
			rightChunks = append(rightChunks, chunk)
		default:
			left, right := chunk.SplitAtChar(offset - currentOffset)
			if !left.IsEmpty() {
				leftChunks = append(leftChunks, left)
			}
			if !right.IsEmpty() {
				rightChunks = append(rightChunks, right)
			}
		}
		currentOffset += chunkLen
	}

	return newLeafNodeWithChunks(leftChunks), newLeafNodeWithChunks(rightChunks)
}

// splitInternal splits an internal node at the given offset.
func (n *Node) splitInternal(offset int) (*Node, *Node) {
	var leftChildren, rightChildren []*Node
	currentOffset := 0

	for i, child := range n.children {
		childLen := n.childSummaries[i].Chars

		switch {
		case currentOffset+childLen <= offset:
			leftChildren = append(leftChildren, child)
		case currentOffset >= offset:
			rightChildren = append(rightChildren, child)
		default:
			leftChild, rightChild := child.split(offset - currentOffset)
			if leftChild.Len() > 0 {
				leftChildren = append(leftChildren, leftChild)
			}
			if rightChild.Len() > 0 {
				rightChildren = append(rightChildren, rightChild)
			}
		}
		currentOffset += childLen
	}

	return buildNodeFromChildren(leftChildren), buildNodeFromChildren(rightChildren)
}

// buildNodeFromChildren creates a balanced tree from a list of child nodes.
// Children may differ in height after a split; shorter ones are wrapped so
// every node sees children of equal height.
func buildNodeFromChildren(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}
	if len(children) == 1 {
		return children[0]
	}

	var tallest uint8
	for _, child := range children {
		tallest = max(tallest, child.height)
	}
	for i, child := range children {
		for child.height < tallest {
			child = newInternalNode([]*Node{child})
		}
		children[i] = child
	}

	if len(children) <= MaxChildren {
		return newInternalNode(children)
	}

	var parents []*Node
	for i := 0; i < len(children); i += MaxChildren {
		end := min(i+MaxChildren, len(children))
		parents = append(parents, newInternalNode(children[i:end]))
	}

	return buildNodeFromChildren(parents)
}

// concat concatenates two nodes.
func concat(left, right *Node) *Node {
	if left == nil || left.Len() == 0 {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right == nil || right.Len() == 0 {
		return left
	}

	if left.IsLeaf() && right.IsLeaf() {
		return concatLeaves(left, right)
	}

	// Bring to same height by wrapping shorter one
	for left.height < right.height {
		left = newInternalNode([]*Node{left})
	}
	for right.height < left.height {
		right = newInternalNode([]*Node{right})
	}

	return mergeNodes(left, right)
}

// concatLeaves concatenates two leaf nodes. Small chunks meeting at the
// seam are merged so repeated single-char inserts do not fragment the tree.
func concatLeaves(left, right *Node) *Node {
	chunks := make([]Chunk, 0, len(left.chunks)+len(right.chunks))
	chunks = append(chunks, left.chunks...)

	rightChunks := right.chunks
	if len(chunks) > 0 && len(rightChunks) > 0 {
		last := chunks[len(chunks)-1]
		first := rightChunks[0]
		if last.Len()+first.Len() <= MaxChunkSize {
			chunks[len(chunks)-1] = NewChunk(last.String() + first.String())
			rightChunks = rightChunks[1:]
		}
	}
	chunks = append(chunks, rightChunks...)

	if len(chunks) <= MaxChunksPerLeaf {
		return newLeafNodeWithChunks(chunks)
	}

	mid := len(chunks) / 2
	leftChunks := append([]Chunk(nil), chunks[:mid]...)
	rightHalf := append([]Chunk(nil), chunks[mid:]...)
	return newInternalNode([]*Node{
		newLeafNodeWithChunks(leftChunks),
		newLeafNodeWithChunks(rightHalf),
	})
}

// mergeNodes merges two nodes of the same height. The children meeting at
// the seam are merged recursively so small leaves coalesce.
func mergeNodes(left, right *Node) *Node {
	if left.IsLeaf() {
		return concatLeaves(left, right)
	}

	last := len(left.children) - 1
	seam := mergeNodes(left.children[last], right.children[0])

	allChildren := make([]*Node, 0, len(left.children)+len(right.children)+1)
	allChildren = append(allChildren, left.children[:last]...)
	if seam.height == left.height {
		allChildren = append(allChildren, seam.children...)
	} else {
		allChildren = append(allChildren, seam)
	}
	allChildren = append(allChildren, right.children[1:]...)

	if len(allChildren) <= MaxChildren {
		return newInternalNode(allChildren)
	}

	return buildNodeFromChildren(allChildren)
}

// findChildByChar finds the child containing the given char offset.
// Returns the child index and the offset within that child.
func (n *Node) findChildByChar(offset int) (int, int) {
	current := 0
	for i, summary := range n.childSummaries {
		if current+summary.Chars > offset {
			return i, offset - current
		}
		current += summary.Chars
	}

	lastIdx := len(n.children) - 1
	return lastIdx, offset - (n.summary.Chars - n.childSummaries[lastIdx].Chars)
}

// lineStart returns the char offset, relative to n, just after the line-th
// break in n. followedByLF describes the text that follows n.
func (n *Node) lineStart(line int, followedByLF bool) int {
	if line <= 0 {
		return 0
	}

	chars := 0
	if n.IsLeaf() {
		for i, chunk := range n.chunks {
			nextLF := followedByLF
			if i+1 < len(n.chunks) {
				nextLF = n.chunks[i+1].summary.StartsWithLF()
			}
			breaks := chunk.summary.linesBefore(nextLF)
			if line <= breaks {
				return chars + lineStartInString(chunk.String(), line, nextLF)
			}
			line -= breaks
			chars += chunk.Chars()
		}
		return chars
	}

	for i, child := range n.children {
		nextLF := followedByLF
		if i+1 < len(n.children) {
			nextLF = n.childSummaries[i+1].StartsWithLF()
		}
		breaks := n.childSummaries[i].linesBefore(nextLF)
		if line <= breaks {
			return chars + child.lineStart(line, nextLF)
		}
		line -= breaks
		chars += n.childSummaries[i].Chars
	}
	return chars
}

// breaksBefore counts the breaks in n whose last char lies before the char
// offset idx.
func (n *Node) breaksBefore(idx int, followedByLF bool) int {
	lines := 0
	if n.IsLeaf() {
		for i, chunk := range n.chunks {
			nextLF := followedByLF
			if i+1 < len(n.chunks) {
				nextLF = n.chunks[i+1].summary.StartsWithLF()
			}
			if idx >= chunk.Chars() {
				lines += chunk.summary.linesBefore(nextLF)
				idx -= chunk.Chars()
				continue
			}
			return lines + breaksBeforeInString(chunk.String(), idx, nextLF)
		}
		return lines
	}

	for i, child := range n.children {
		nextLF := followedByLF
		if i+1 < len(n.children) {
			nextLF = n.childSummaries[i+1].StartsWithLF()
		}
		sum := n.childSummaries[i]
		if idx >= sum.Chars {
			lines += sum.linesBefore(nextLF)
			idx -= sum.Chars
			continue
		}
		return lines + child.breaksBefore(idx, nextLF)
	}
	return lines
}

// utf16Before counts UTF-16 code units in the first idx chars of n.
func (n *Node) utf16Before(idx int) int {
	units := 0
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			if idx >= chunk.Chars() {
				units += chunk.summary.UTF16Units
				idx -= chunk.Chars()
				continue
			}
			data := chunk.String()
			return units + ComputeSummary(data[:charToByte(data, idx, chunk.isASCII())]).UTF16Units
		}
		return units
	}

	for i, child := range n.children {
		sum := n.childSummaries[i]
		if idx >= sum.Chars {
			units += sum.UTF16Units
			idx -= sum.Chars
			continue
		}
		return units + child.utf16Before(idx)
	}
	return units
}
