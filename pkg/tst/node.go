package tst

// Node is a single ternary node. Each node partitions its siblings on
// splitChar: keys whose current character sorts below it continue in lo,
// above it in hi, and keys that consume splitChar continue in eq. A node
// that terminates a stored key string carries the key and value and has
// isKey set.
//
// Each node exclusively owns its three children. The parent pointer is a
// non-owning back reference and is consulted by no algorithm here; it is
// maintained through insert and clone but has no exported accessor.
type Node struct {
	splitChar byte
	isKey     bool
	key       Key
	value     any

	lo, eq, hi *Node
	parent     *Node
}

func newNode(c byte, parent *Node) *Node {
	return &Node{splitChar: c, parent: parent}
}

// SplitChar returns the character this node partitions on.
func (n *Node) SplitChar() byte { return n.splitChar }

// IsKey reports whether a stored key string terminates at this node.
func (n *Node) IsKey() bool { return n.isKey }

// Key returns the stored key, or nil for structural nodes.
func (n *Node) Key() Key { return n.key }

// Value returns the stored value, or nil for structural nodes.
func (n *Node) Value() any { return n.value }

func (n *Node) setKey(k Key, v any) {
	n.key = k
	n.value = v
	n.isKey = true
}

// demote clears the key and value slots and explicitly drops key status.
// The node itself stays in place so sibling paths keep their anchor.
func (n *Node) demote() {
	n.key = nil
	n.value = nil
	n.isKey = false
}

// insert walks s from position i, creating nodes for characters not yet
// represented, and returns the terminal node for s. The caller stamps the
// terminal with the actual key and value. Iterative: insertion is a hot
// path and key strings can be long.
func (n *Node) insert(s string, i int) *Node {
	cur := n
	for {
		c := s[i]
		switch {
		case c < cur.splitChar:
			if cur.lo == nil {
				cur.lo = newNode(c, cur)
			}
			cur = cur.lo
		case c > cur.splitChar:
			if cur.hi == nil {
				cur.hi = newNode(c, cur)
			}
			cur = cur.hi
		default:
			if i == len(s)-1 {
				return cur
			}
			if cur.eq == nil {
				cur.eq = newNode(s[i+1], cur)
			}
			cur = cur.eq
			i++
		}
	}
}

// locate follows the plain ternary descent for s and returns the terminal
// node reached, or nil when the path does not exist. The terminal need
// not be a key node; callers test for key status themselves.
func (n *Node) locate(s string) *Node {
	cur := n
	i := 0
	for cur != nil {
		c := s[i]
		switch {
		case c < cur.splitChar:
			cur = cur.lo
		case c > cur.splitChar:
			cur = cur.hi
		default:
			if i == len(s)-1 {
				return cur
			}
			i++
			cur = cur.eq
		}
	}
	return nil
}

// The three enumerations share the fixed in-order visit: lo, self when a
// key node, eq, hi. This order yields key strings ascending and the
// balanced rebuild depends on it.

func (n *Node) appendKeys(out *[]Key) {
	if n == nil {
		return
	}
	n.lo.appendKeys(out)
	if n.isKey {
		*out = append(*out, n.key)
	}
	n.eq.appendKeys(out)
	n.hi.appendKeys(out)
}

// appendValues skips key nodes whose value slot is absent.
func (n *Node) appendValues(out *[]any) {
	if n == nil {
		return
	}
	n.lo.appendValues(out)
	if n.isKey && n.value != nil {
		*out = append(*out, n.value)
	}
	n.eq.appendValues(out)
	n.hi.appendValues(out)
}

func (n *Node) appendPairs(out *[]Pair) {
	if n == nil {
		return
	}
	n.lo.appendPairs(out)
	if n.isKey {
		*out = append(*out, Pair{Key: n.key, Value: n.value})
	}
	n.eq.appendPairs(out)
	n.hi.appendPairs(out)
}

func (n *Node) countKeys() int {
	if n == nil {
		return 0
	}
	c := n.lo.countKeys() + n.eq.countKeys() + n.hi.countKeys()
	if n.isKey {
		c++
	}
	return c
}

// clear recursively clears the subtree. Every child is nulled right after
// its own clear so no dangling parent references survive.
func (n *Node) clear() {
	if n.lo != nil {
		n.lo.clear()
		n.lo.parent = nil
		n.lo = nil
	}
	if n.eq != nil {
		n.eq.clear()
		n.eq.parent = nil
		n.eq = nil
	}
	if n.hi != nil {
		n.hi.clear()
		n.hi.parent = nil
		n.hi = nil
	}
	n.key = nil
	n.value = nil
	n.isKey = false
}

// clone deep copies the subtree under parent. Keys and values are shared,
// not copied; shape and back references are rebuilt.
func (n *Node) clone(parent *Node) *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		splitChar: n.splitChar,
		isKey:     n.isKey,
		key:       n.key,
		value:     n.value,
		parent:    parent,
	}
	c.lo = n.lo.clone(c)
	c.eq = n.eq.clone(c)
	c.hi = n.hi.clone(c)
	return c
}

func (n *Node) depth() int {
	if n == nil {
		return 0
	}
	d := n.lo.depth()
	if e := n.eq.depth(); e > d {
		d = e
	}
	if h := n.hi.depth(); h > d {
		d = h
	}
	return d + 1
}
