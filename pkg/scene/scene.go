// Package scene is a small retained element tree used as the drawing surface.
//
// Renderers build and update the tree instead of writing markup directly, so
// that a second render can find and update the elements of the first one.
// The tree serialises to SVG or HTML markup in a deterministic order.
//
// # Keyed Joins
//
// [Element.Join] binds a list of keys to the children of an element that
// share a tag and class. Children whose key is still present are reused in
// place, new keys get new children, and children for keys that disappeared
// are removed:
//
//	paths := svg.Join("path", "layer", []string{"GPT-4", "Claude"})
//	for i, p := range paths {
//	    p.Attr("d", outlines[i])
//	}
//
// Calling Join again with the same keys returns the same *Element values.
package scene

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/matzehuels/llmstream/pkg/shape"
)

type attr struct {
	name, value string
}

// Element is a node of the tree.
type Element struct {
	Tag      string
	Key      string
	Text     string
	Raw      string // written unescaped after Text, for style and script bodies
	Children []*Element

	attrs  []attr
	styles []attr
	parent *Element
}

// New returns a detached element.
func New(tag string) *Element {
	return &Element{Tag: tag}
}

// Parent returns the element's parent, or nil.
func (e *Element) Parent() *Element { return e.parent }

// Attr sets an attribute and returns e. Numbers are formatted compactly.
func (e *Element) Attr(name string, value any) *Element {
	e.attrs = set(e.attrs, name, format(value))
	return e
}

// Style sets an inline style property and returns e.
func (e *Element) Style(name string, value any) *Element {
	e.styles = set(e.styles, name, format(value))
	return e
}

// Class sets the class attribute.
func (e *Element) Class(c string) *Element { return e.Attr("class", c) }

// SetText replaces the text content.
func (e *Element) SetText(s string) *Element {
	e.Text = s
	return e
}

// GetAttr returns an attribute value.
func (e *Element) GetAttr(name string) (string, bool) {
	return get(e.attrs, name)
}

// GetStyle returns an inline style value.
func (e *Element) GetStyle(name string) (string, bool) {
	return get(e.styles, name)
}

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(name string) {
	e.attrs = slices.DeleteFunc(e.attrs, func(a attr) bool { return a.name == name })
}

// ClassName returns the class attribute, or "".
func (e *Element) ClassName() string {
	c, _ := e.GetAttr("class")
	return c
}

// Append creates a child element and returns it.
func (e *Element) Append(tag string) *Element {
	c := New(tag)
	e.AppendChild(c)
	return c
}

// AppendChild attaches c as the last child, detaching it from any previous
// parent.
func (e *Element) AppendChild(c *Element) {
	if c.parent != nil {
		c.parent.Remove(c)
	}
	c.parent = e
	e.Children = append(e.Children, c)
}

// Remove detaches child c.
func (e *Element) Remove(c *Element) {
	for i, ch := range e.Children {
		if ch == c {
			e.Children = slices.Delete(e.Children, i, i+1)
			c.parent = nil
			return
		}
	}
}

// Clear removes every child.
func (e *Element) Clear() {
	for _, c := range e.Children {
		c.parent = nil
	}
	e.Children = nil
	e.Text = ""
}

func (e *Element) matches(tag, class string) bool {
	return e.Tag == tag && (class == "" || e.ClassName() == class)
}

// Select returns the direct children with the given tag and class. An empty
// class matches any class.
func (e *Element) Select(tag, class string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.matches(tag, class) {
			out = append(out, c)
		}
	}
	return out
}

// Count returns the number of direct children with the given tag and class.
func (e *Element) Count(tag, class string) int {
	return len(e.Select(tag, class))
}

// FindAll returns all descendants with the given tag and class, depth first.
func (e *Element) FindAll(tag, class string) []*Element {
	var out []*Element
	e.Walk(func(el *Element) {
		if el != e && el.matches(tag, class) {
			out = append(out, el)
		}
	})
	return out
}

// Find returns the first descendant with the given tag and class.
func (e *Element) Find(tag, class string) *Element {
	if all := e.FindAll(tag, class); len(all) > 0 {
		return all[0]
	}
	return nil
}

// FindKey returns the first descendant with the given key.
func (e *Element) FindKey(key string) *Element {
	var found *Element
	e.Walk(func(el *Element) {
		if found == nil && el != e && el.Key == key {
			found = el
		}
	})
	return found
}

// Walk calls fn for e and every descendant, depth first.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Join binds keys to the children matching tag and class and returns one
// element per key, in key order. Matching children are reused, missing ones
// created (with the class set) and surplus ones removed. The joined group
// takes the position of the first previously matching child.
func (e *Element) Join(tag, class string, keys []string) []*Element {
	existing := make(map[string]*Element)
	var matched []*Element
	insertAt := -1
	kept := e.Children[:0:0]
	for _, c := range e.Children {
		if c.matches(tag, class) {
			if insertAt < 0 {
				insertAt = len(kept)
			}
			matched = append(matched, c)
			if _, dup := existing[c.Key]; !dup {
				existing[c.Key] = c
			}
			continue
		}
		kept = append(kept, c)
	}
	if insertAt < 0 {
		insertAt = len(kept)
	}

	joined := make([]*Element, len(keys))
	used := make(map[*Element]bool, len(keys))
	for i, k := range keys {
		c, ok := existing[k]
		if !ok || used[c] {
			c = New(tag)
			c.Key = k
			if class != "" {
				c.Class(class)
			}
		}
		c.parent = e
		used[c] = true
		joined[i] = c
	}
	for _, c := range matched {
		if !used[c] {
			c.parent = nil
		}
	}

	e.Children = slices.Concat(kept[:insertAt], joined, kept[insertAt:])
	return joined
}

// Clone returns a detached deep copy of e.
func (e *Element) Clone() *Element {
	c := &Element{
		Tag:    e.Tag,
		Key:    e.Key,
		Text:   e.Text,
		Raw:    e.Raw,
		attrs:  slices.Clone(e.attrs),
		styles: slices.Clone(e.styles),
	}
	for _, ch := range e.Children {
		cc := ch.Clone()
		cc.parent = c
		c.Children = append(c.Children, cc)
	}
	return c
}

// JoinOne is Join with a single key.
func (e *Element) JoinOne(tag, class, key string) *Element {
	return e.Join(tag, class, []string{key})[0]
}

func set(list []attr, name, value string) []attr {
	for i := range list {
		if list[i].name == name {
			list[i].value = value
			return list
		}
	}
	return append(list, attr{name, value})
}

func get(list []attr, name string) (string, bool) {
	for _, a := range list {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

func format(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return shape.Num(v)
	case int:
		return strconv.Itoa(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
