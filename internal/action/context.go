package action

import "strconv"

const DefaultMaxDepth = 10

// Context is the resolved action for one event.
type Context struct {
	Kind    Kind
	Element Element
	Target  Element
	DreamID string
	Page    int
	Type    string
	// Values carries form fields for save and edit flows.
	Values map[string]string
	// Event is set only for routes that ask for the raw event.
	Event *Event
}

func (c Context) Value(name string) string {
	if c.Values == nil {
		return ""
	}
	return c.Values[name]
}

// Extract walks from target towards the root, visiting at most maxDepth
// ancestors after target itself, and returns the context of the first
// element that carries data-action.
func Extract(target Element, maxDepth int) (Context, bool) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	el := target
	for depth := 0; el != nil && depth <= maxDepth; depth++ {
		if name, ok := el.Attr(AttrAction); ok && name != "" {
			ctx := Context{
				Kind:    Kind(name),
				Element: el,
				Target:  target,
			}
			ctx.DreamID, _ = el.Attr(AttrDreamID)
			ctx.Type, _ = el.Attr(AttrType)
			if p, ok := el.Attr(AttrPage); ok {
				if n, err := strconv.Atoi(p); err == nil {
					ctx.Page = n
				}
			}
			return ctx, true
		}
		el = el.Parent()
	}
	return Context{}, false
}
