package tst

// Wildcard alphabet for partial matching: '.' matches exactly one
// character, '*' matches zero or more. Every other byte is literal.
// There is no escape syntax.
const (
	WildcardOne  = '.'
	WildcardMany = '*'
)

// partial matches pattern from index i against the subtree. A '.' fans
// out into all three branches at the same pattern position; a '*' hands
// off to glob for the remaining suffix.
func (n *Node) partial(pattern string, i int, out *[]Pair) {
	if n == nil {
		return
	}
	c := pattern[i]
	if c == WildcardMany {
		n.glob(pattern, i+1, out)
		return
	}
	if c == WildcardOne || c < n.splitChar {
		n.lo.partial(pattern, i, out)
	}
	if c == WildcardOne || c == n.splitChar {
		if i < len(pattern)-1 {
			n.eq.partial(pattern, i+1, out)
		} else if n.isKey {
			*out = append(*out, Pair{Key: n.key, Value: n.value})
		}
	}
	if c == WildcardOne || c > n.splitChar {
		n.hi.partial(pattern, i, out)
	}
}

// glob resumes matching after a '*'. A terminal star swallows the whole
// subtree. Consecutive stars collapse. Otherwise every descendant whose
// splitChar can stand for the next pattern character becomes a resumption
// anchor and the non-star recursion restarts there. The anchor fan-out is
// what makes '*' expensive but complete: every possible alignment is
// tried.
func (n *Node) glob(pattern string, i int, out *[]Pair) {
	if n == nil {
		return
	}
	if i == len(pattern) {
		n.appendPairs(out)
		return
	}
	if pattern[i] == WildcardMany {
		n.glob(pattern, i+1, out)
		return
	}
	sub := pattern[i:]
	var anchors []*Node
	n.collectMatching(sub[0], &anchors)
	for _, a := range anchors {
		a.partial(sub, 0, out)
	}
}

// collectMatching gathers, in pre-order and self inclusive, every node of
// the subtree whose splitChar equals c. A '.' matches any node.
func (n *Node) collectMatching(c byte, out *[]*Node) {
	if n == nil {
		return
	}
	if c == WildcardOne || n.splitChar == c {
		*out = append(*out, n)
	}
	n.lo.collectMatching(c, out)
	n.eq.collectMatching(c, out)
	n.hi.collectMatching(c, out)
}
