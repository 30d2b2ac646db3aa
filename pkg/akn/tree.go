// Package akn builds, serializes and stamps the Akoma Ntoso document tree
// for one judgment. Child order within every node is fixed; the serializer
// reproduces it byte-identically across runs.
package akn

// Node is one member of an element's ordered content: either nested markup
// or character data.
type Node interface {
	node()
}

// Text is character data inside an element.
type Text string

func (Text) node() {}

// Attr is one attribute. Attribute order is preserved as set.
type Attr struct {
	Name  string
	Value string
}

// Element is one XML element with ordered attributes and ordered content.
type Element struct {
	Name  string
	Attrs []Attr
	Nodes []Node
}

func (*Element) node() {}

// NewElement creates an element with the given attributes in order.
func NewElement(name string, attrs ...Attr) *Element {
	return &Element{Name: name, Attrs: attrs}
}

// SetAttr sets an attribute, replacing an existing one of the same name in
// place so attribute order stays stable.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// Attr returns the value of the named attribute, or "".
func (e *Element) Attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// Append adds nodes at the end of the content.
func (e *Element) Append(nodes ...Node) *Element {
	e.Nodes = append(e.Nodes, nodes...)
	return e
}

// InsertFront adds a node as the first child.
func (e *Element) InsertFront(n Node) {
	e.Nodes = append([]Node{n}, e.Nodes...)
}

// AppendText adds character data at the end of the content.
func (e *Element) AppendText(s string) *Element {
	return e.Append(Text(s))
}

// Child returns the first child element with the given name, or nil.
func (e *Element) Child(name string) *Element {
	for _, n := range e.Nodes {
		if el, ok := n.(*Element); ok && el.Name == name {
			return el
		}
	}
	return nil
}

// Children returns all child elements with the given name.
func (e *Element) Children(name string) []*Element {
	var out []*Element
	for _, n := range e.Nodes {
		if el, ok := n.(*Element); ok && el.Name == name {
			out = append(out, el)
		}
	}
	return out
}

// Find walks the given child-name path and returns the element at its end,
// or nil when any step is missing.
func (e *Element) Find(path ...string) *Element {
	current := e
	for _, name := range path {
		current = current.Child(name)
		if current == nil {
			return nil
		}
	}
	return current
}

// FindAll returns every descendant element with the given name, in document
// order, including e itself when it matches.
func (e *Element) FindAll(name string) []*Element {
	var out []*Element
	if e.Name == name {
		out = append(out, e)
	}
	for _, n := range e.Nodes {
		if el, ok := n.(*Element); ok {
			out = append(out, el.FindAll(name)...)
		}
	}
	return out
}

// TextContent concatenates all character data under the element, in
// document order.
func (e *Element) TextContent() string {
	var out []byte
	e.appendText(&out)
	return string(out)
}

func (e *Element) appendText(out *[]byte) {
	for _, n := range e.Nodes {
		switch v := n.(type) {
		case Text:
			*out = append(*out, string(v)...)
		case *Element:
			v.appendText(out)
		}
	}
}

// P builds a <p> element holding plain text.
func P(text string) *Element {
	return NewElement("p").AppendText(text)
}
