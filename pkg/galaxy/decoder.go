package galaxy

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Node is a generic attribute/child tree decoded from feed markup. The
// upstream exports are XML-ish and occasionally malformed, so downstream
// code never touches encoding/xml directly; it walks Nodes instead.
type Node struct {
	Name     string
	Attrs    map[string]string
	Content  string
	Children []*Node
}

// Decode parses raw markup into a Node tree. The decoder is deliberately
// lenient: unknown entities, bare ampersands and missing close tags at EOF
// do not fail the whole document.
func Decode(raw []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	root := &Node{Name: "", Attrs: map[string]string{}}
	stack := []*Node{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Salvage whatever was decoded before the bad fragment.
			if len(root.Children) > 0 {
				break
			}
			return nil, fmt.Errorf("failed to decode markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{
				Name:  strings.ToLower(t.Name.Local),
				Attrs: make(map[string]string, len(t.Attr)),
			}
			for _, attr := range t.Attr {
				node.Attrs[strings.ToLower(attr.Name.Local)] = attr.Value
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			cur := stack[len(stack)-1]
			cur.Content += string(t)
		}
	}

	if len(root.Children) == 0 {
		return nil, fmt.Errorf("document contains no elements")
	}
	if len(root.Children) == 1 {
		return root.Children[0], nil
	}
	// Multiple top-level fragments: keep them under a synthetic root so
	// callers still see one tree.
	root.Name = "document"
	return root, nil
}

// Attr returns the named attribute, or "" when absent. Missing optional
// attributes are treated as absent, never as errors.
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	return n.Attrs[strings.ToLower(name)]
}

// Text returns the trimmed character data of the node.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Content)
}

// Child returns the first child with the given element name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	name = strings.ToLower(name)
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildList normalizes the one-vs-many shape at the decode boundary: a
// single element and a repeated element both come back as a list, so
// callers only ever deal with slices.
func (n *Node) ChildList(name string) []*Node {
	if n == nil {
		return nil
	}
	name = strings.ToLower(name)
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// ChildText returns the text of the first child with the given name.
func (n *Node) ChildText(name string) string {
	return n.Child(name).Text()
}

// IntAttr parses the named attribute as an integer, returning ok=false
// when the attribute is absent or not numeric.
func (n *Node) IntAttr(name string) (int, bool) {
	v := n.Attr(name)
	if v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return i, true
}

// IntText parses the node text as an integer.
func (n *Node) IntText() (int, bool) {
	v := n.Text()
	if v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}
