package topo

// Kind enumerates the types of nodes in a shape graph. Kinds are ordered by
// composition: a node only contains nodes of lower kinds, except compounds.
type Kind int

const (
	KindNull Kind = iota // zero value, carried by the null shape
	Vertex               // point
	Edge                 // bounded curve between two vertices
	Wire                 // chain of edges
	Face                 // bounded portion of a surface
	Shell                // set of faces
	Solid                // volume bounded by shells, or an opaque kernel solid
	Compound             // arbitrary collection
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case Vertex:
		return "vertex"
	case Edge:
		return "edge"
	case Wire:
		return "wire"
	case Face:
		return "face"
	case Shell:
		return "shell"
	case Solid:
		return "solid"
	case Compound:
		return "compound"
	default:
		return "unknown"
	}
}

// childKind returns the only kind a node of kind k may contain. Compounds
// accept anything and report KindNull.
func childKind(k Kind) Kind {
	switch k {
	case Edge:
		return Vertex
	case Wire:
		return Edge
	case Face:
		return Wire
	case Shell:
		return Face
	case Solid:
		return Shell
	}
	return KindNull
}

// allowedChild reports whether a node of kind parent may reference a node of
// kind child.
func allowedChild(parent, child Kind) bool {
	if child <= KindNull || child > Compound {
		return false
	}
	switch parent {
	case Compound:
		return true
	case Vertex, KindNull:
		return false
	}
	return childKind(parent) == child
}

// Orientation tags a reference as running along or against its node.
type Orientation int

const (
	Forward Orientation = iota
	Reversed
)

func (o Orientation) String() string {
	switch o {
	case Forward:
		return "forward"
	case Reversed:
		return "reversed"
	default:
		return "unknown"
	}
}

// Reverse returns the opposite orientation.
func (o Orientation) Reverse() Orientation {
	if o == Forward {
		return Reversed
	}
	return Forward
}

// Compose returns the orientation of a child with orientation c seen through
// a parent with orientation o.
func (o Orientation) Compose(c Orientation) Orientation {
	if o == Reversed {
		return c.Reverse()
	}
	return c
}
