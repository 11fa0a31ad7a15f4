// Package truss holds the topology and geometry of a pin-jointed plane truss.
//
// A [Model] owns nodes, members and loads. It answers geometric queries
// (member length, direction cosines, degree-of-freedom indices) and performs
// no linear algebra. Models are not safe for concurrent mutation; use
// [Model.Clone] to hand an independent copy to another goroutine.
package truss

import (
	"fmt"
	"math"
)

// DOFsPerNode is the number of displacement components at a plane truss node.
const DOFsPerNode = 2

type Node struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	FixedX bool    `json:"fixed_x"`
	FixedY bool    `json:"fixed_y"`
}

// Member is an axial bar between two nodes. Length is cached by
// ComputeMemberLengths and is zero until then.
type Member struct {
	ID      int     `json:"id"`
	Node1   int     `json:"node1"`
	Node2   int     `json:"node2"`
	Length  float64 `json:"length"`
	Area    float64 `json:"area"`
	Modulus float64 `json:"modulus"`
}

// Rigidity returns the axial rigidity E*A.
func (m Member) Rigidity() float64 {
	return m.Area * m.Modulus
}

type Load struct {
	Node int     `json:"node"`
	Fx   float64 `json:"fx"`
	Fy   float64 `json:"fy"`
}

// MemberOption customizes a member at creation.
type MemberOption func(*Member)

// WithArea sets the cross-sectional area (default 1).
func WithArea(a float64) MemberOption {
	return func(m *Member) { m.Area = a }
}

// WithModulus sets the elastic modulus (default 1).
func WithModulus(e float64) MemberOption {
	return func(m *Member) { m.Modulus = e }
}

type Model struct {
	Name    string
	nodes   []Node
	members []Member
	loads   []Load

	lengthsValid bool
}

func New() *Model {
	return &Model{
		nodes:   make([]Node, 0),
		members: make([]Member, 0),
		loads:   make([]Load, 0),
	}
}

// AddNode appends a node and returns its id.
func (m *Model) AddNode(x, y float64, fixedX, fixedY bool) int {
	id := len(m.nodes)
	m.nodes = append(m.nodes, Node{ID: id, X: x, Y: y, FixedX: fixedX, FixedY: fixedY})
	m.lengthsValid = false
	return id
}

// AddMember connects node1 and node2 and returns the member id.
func (m *Model) AddMember(node1, node2 int, opts ...MemberOption) (int, error) {
	if err := m.checkNode(node1); err != nil {
		return -1, fmt.Errorf("member %d: %w", len(m.members), err)
	}
	if err := m.checkNode(node2); err != nil {
		return -1, fmt.Errorf("member %d: %w", len(m.members), err)
	}
	if node1 == node2 {
		return -1, fmt.Errorf("member %d connects node %d to itself: %w", len(m.members), node1, ErrInvalidReference)
	}

	mem := Member{
		ID:      len(m.members),
		Node1:   node1,
		Node2:   node2,
		Area:    1,
		Modulus: 1,
	}
	for _, opt := range opts {
		opt(&mem)
	}
	m.members = append(m.members, mem)
	m.lengthsValid = false
	return mem.ID, nil
}

// AddLoad applies a point force at node. Repeated loads on a node accumulate.
func (m *Model) AddLoad(node int, fx, fy float64) error {
	if err := m.checkNode(node); err != nil {
		return fmt.Errorf("load %d: %w", len(m.loads), err)
	}
	m.loads = append(m.loads, Load{Node: node, Fx: fx, Fy: fy})
	return nil
}

func (m *Model) checkNode(i int) error {
	if i < 0 || i >= len(m.nodes) {
		return fmt.Errorf("node %d not in [0,%d): %w", i, len(m.nodes), ErrInvalidReference)
	}
	return nil
}

func (m *Model) NumNodes() int   { return len(m.nodes) }
func (m *Model) NumMembers() int { return len(m.members) }
func (m *Model) NumLoads() int   { return len(m.loads) }

// NumDOF is the size of the global system, 2 * NumNodes.
func (m *Model) NumDOF() int { return DOFsPerNode * len(m.nodes) }

// Nodes returns a copy of the node list.
func (m *Model) Nodes() []Node {
	out := make([]Node, len(m.nodes))
	copy(out, m.nodes)
	return out
}

// Members returns a copy of the member list.
func (m *Model) Members() []Member {
	out := make([]Member, len(m.members))
	copy(out, m.members)
	return out
}

// Loads returns a copy of the load list.
func (m *Model) Loads() []Load {
	out := make([]Load, len(m.loads))
	copy(out, m.loads)
	return out
}

func (m *Model) Node(i int) (Node, error) {
	if err := m.checkNode(i); err != nil {
		return Node{}, err
	}
	return m.nodes[i], nil
}

func (m *Model) Member(i int) (Member, error) {
	if i < 0 || i >= len(m.members) {
		return Member{}, fmt.Errorf("member %d not in [0,%d): %w", i, len(m.members), ErrInvalidReference)
	}
	return m.members[i], nil
}

// DOFs returns the global x and y degree-of-freedom indices of a node.
func DOFs(node int) (int, int) {
	return DOFsPerNode * node, DOFsPerNode*node + 1
}

// ComputeMemberLengths caches the Euclidean length of every member.
func (m *Model) ComputeMemberLengths() error {
	for i := range m.members {
		mem := &m.members[i]
		a, b := m.nodes[mem.Node1], m.nodes[mem.Node2]
		l := math.Hypot(b.X-a.X, b.Y-a.Y)
		if l == 0 {
			m.lengthsValid = false
			return fmt.Errorf("member %d (nodes %d-%d): %w", mem.ID, mem.Node1, mem.Node2, ErrZeroLength)
		}
		mem.Length = l
	}
	m.lengthsValid = true
	return nil
}

// LengthsValid reports whether cached lengths reflect the current geometry.
func (m *Model) LengthsValid() bool { return m.lengthsValid }

// Length returns the cached length of member i.
func (m *Model) Length(i int) (float64, error) {
	mem, err := m.Member(i)
	if err != nil {
		return 0, err
	}
	if !m.lengthsValid {
		if err := m.ComputeMemberLengths(); err != nil {
			return 0, err
		}
		mem = m.members[i]
	}
	return mem.Length, nil
}

// DirectionCosines returns (cos, sin) of member i measured from node1 to node2.
func (m *Model) DirectionCosines(i int) (c, s float64, err error) {
	l, err := m.Length(i)
	if err != nil {
		return 0, 0, err
	}
	mem := m.members[i]
	a, b := m.nodes[mem.Node1], m.nodes[mem.Node2]
	return (b.X - a.X) / l, (b.Y - a.Y) / l, nil
}

// Validate checks the whole-model invariants: finite coordinates, valid
// references and positive section properties.
func (m *Model) Validate() error {
	for _, n := range m.nodes {
		if !finite(n.X) || !finite(n.Y) {
			return fmt.Errorf("node %d at (%v, %v): %w", n.ID, n.X, n.Y, ErrInvalidGeometry)
		}
	}
	for _, mem := range m.members {
		if m.checkNode(mem.Node1) != nil || m.checkNode(mem.Node2) != nil || mem.Node1 == mem.Node2 {
			return fmt.Errorf("member %d (nodes %d-%d): %w", mem.ID, mem.Node1, mem.Node2, ErrInvalidReference)
		}
		if !(mem.Area > 0) || !(mem.Modulus > 0) || !finite(mem.Rigidity()) {
			return fmt.Errorf("member %d area=%v modulus=%v: %w", mem.ID, mem.Area, mem.Modulus, ErrInvalidGeometry)
		}
	}
	for i, ld := range m.loads {
		if err := m.checkNode(ld.Node); err != nil {
			return fmt.Errorf("load %d: %w", i, err)
		}
		if !finite(ld.Fx) || !finite(ld.Fy) {
			return fmt.Errorf("load %d (%v, %v): %w", i, ld.Fx, ld.Fy, ErrInvalidGeometry)
		}
	}
	return nil
}

// Clone returns a deep copy that shares nothing with m.
func (m *Model) Clone() *Model {
	return &Model{
		Name:         m.Name,
		nodes:        m.Nodes(),
		members:      m.Members(),
		loads:        m.Loads(),
		lengthsValid: m.lengthsValid,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
