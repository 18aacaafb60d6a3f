package action

// Element is one node of a UI tree: an HTML element, a TUI control, or a
// control reconstructed from a posted form.
type Element interface {
	Tag() string
	Attr(name string) (string, bool)
	Parent() Element
}

// Node is the concrete Element used by the terminal UI and the web handler.
type Node struct {
	tag      string
	attrs    map[string]string
	parent   *Node
	children []*Node
}

func NewNode(tag string, attrs map[string]string) *Node {
	copied := make(map[string]string, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return &Node{tag: tag, attrs: copied}
}

// Append adds child under n and returns child.
func (n *Node) Append(child *Node) *Node {
	child.parent = n
	n.children = append(n.children, child)
	return child
}

func (n *Node) Tag() string { return n.tag }

func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *Node) SetAttr(name, value string) {
	n.attrs[name] = value
}

func (n *Node) Parent() Element {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []*Node { return n.children }

// Find returns the first node in document order for which match is true.
func (n *Node) Find(match func(*Node) bool) *Node {
	if match(n) {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every matching node in document order.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		if match(cur) {
			out = append(out, cur)
		}
		for _, c := range cur.children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// ByAction matches nodes whose data-action is kind and, when dreamID is not
// empty, whose data-dream-id is dreamID.
func ByAction(kind Kind, dreamID string) func(*Node) bool {
	return func(n *Node) bool {
		if v, _ := n.Attr(AttrAction); v != string(kind) {
			return false
		}
		if dreamID == "" {
			return true
		}
		id, _ := n.Attr(AttrDreamID)
		return id == dreamID
	}
}
