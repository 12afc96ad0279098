// Package rules composes individual signature hits into named device
// detections, so a report can say "Flock Safety Camera" instead of just
// "matched a MAC prefix". Each rule is a boolean expression (anyOf / allOf /
// not) over signature indices, stored in flat post-order: children always
// precede their parent, so evaluation is a single pass with a small value
// stack and no recursion.
package rules

// MaxSignatures is the number of distinct signature indices a SigSet can
// track. Indices at or beyond it are silently ignored.
const MaxSignatures = 256

// maxEvalStack bounds expression nesting. An expression that needs more
// intermediate values than this evaluates to false.
const maxEvalStack = 16

// MaxHits caps how many rule matches EvaluateAll reports per event.
const MaxHits = 4

// SigSet is a fixed 256-bit set of signature indices matched by one scan
// event. Zero value is the empty set.
type SigSet [4]uint64

func (s *SigSet) Set(idx int) {
	if idx >= 0 && idx < MaxSignatures {
		s[idx/64] |= 1 << (idx % 64)
	}
}

func (s *SigSet) Get(idx int) bool {
	if idx < 0 || idx >= MaxSignatures {
		return false
	}
	return s[idx/64]>>(idx%64)&1 == 1
}

func (s *SigSet) Empty() bool {
	return s[0]|s[1]|s[2]|s[3] == 0
}

type Op uint8

const (
	OpSig Op = iota
	OpAnyOf
	OpAllOf
	OpNot
)

// Node is one post-order expression node. OpSig reads the bit at Index;
// OpAnyOf/OpAllOf fold the preceding Count results; OpNot inverts the
// preceding result.
type Node struct {
	Op    Op
	Index uint16
	Count uint8
}

func Sig(idx int) Node { return Node{Op: OpSig, Index: uint16(idx)} }
func AnyOf(n int) Node { return Node{Op: OpAnyOf, Count: uint8(n)} }
func AllOf(n int) Node { return Node{Op: OpAllOf, Count: uint8(n)} }
func Not() Node        { return Node{Op: OpNot} }

// Rule names a slice [Start, Start+Len) of the shared node pool.
type Rule struct {
	Name  string
	Start int
	Len   int
}

// DB is a compiled rule database: one shared pool of expression nodes and
// the rules referencing slices of it.
type DB struct {
	Nodes []Node
	Rules []Rule
}

// Evaluate runs one post-order expression against the matched set. Empty
// expressions, stack overflow, stack underflow and a final stack depth
// other than one all evaluate to false rather than failing.
func Evaluate(nodes []Node, matched *SigSet) bool {
	if len(nodes) == 0 {
		return false
	}

	var stack [maxEvalStack]bool
	depth := 0

	for _, n := range nodes {
		switch n.Op {
		case OpSig:
			if depth == maxEvalStack {
				return false
			}
			stack[depth] = matched.Get(int(n.Index))
			depth++
		case OpAnyOf, OpAllOf:
			count := int(n.Count)
			if depth < count {
				return false
			}
			result := n.Op == OpAllOf // identity of the fold
			for _, v := range stack[depth-count : depth] {
				if n.Op == OpAnyOf {
					result = result || v
				} else {
					result = result && v
				}
			}
			depth -= count
			stack[depth] = result
			depth++
		case OpNot:
			if depth == 0 {
				return false
			}
			stack[depth-1] = !stack[depth-1]
		}
	}

	return depth == 1 && stack[0]
}

// EvaluateAll evaluates every rule against the matched set, returning the
// indices of rules that fired, at most MaxHits of them, in database order.
func (db *DB) EvaluateAll(matched *SigSet) []int {
	var hits []int
	for i, r := range db.Rules {
		if r.Start < 0 || r.Start+r.Len > len(db.Nodes) {
			continue
		}
		if Evaluate(db.Nodes[r.Start:r.Start+r.Len], matched) {
			hits = append(hits, i)
			if len(hits) == MaxHits {
				break
			}
		}
	}
	return hits
}
