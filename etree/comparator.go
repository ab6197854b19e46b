// Package etree implements structural comparison of Confluence storage
// format markup using github.com/beevik/etree.
package etree

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/confpub"
)

// Ensure Comparator implements confpub.BodyComparator at compile time.
var _ confpub.BodyComparator = (*Comparator)(nil)

// macroTag is the local name of the wiki's block macro element.
const macroTag = "structured-macro"

// envelope turns a storage format fragment into a complete document that
// declares the wiki namespaces.
const envelope = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<!DOCTYPE ac:confluence SYSTEM "confluence.dtd">` +
	`<ac:confluence xmlns:ac="http://www.atlassian.com/schema/confluence/4/ac/" ` +
	`xmlns:ri="http://www.atlassian.com/schema/confluence/4/ri/">%s</ac:confluence>`

// Comparator decides whether two storage format fragments are structurally
// equal. Structured macros are ignored by default because the wiki injects
// and reorders macro metadata on every save.
type Comparator struct {
	keepMacros bool
}

// Option configures a Comparator.
type Option func(*Comparator)

// KeepMacros makes the comparator compare structured macros instead of
// removing them. Only the macro name attribute is compared.
func KeepMacros() Option {
	return func(c *Comparator) {
		c.keepMacros = true
	}
}

// NewComparator creates a new Comparator.
func NewComparator(opts ...Option) *Comparator {
	c := &Comparator{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Equal reports whether old and new are structurally equal.
// Two empty fragments are equal; an empty and a non-empty fragment never are.
func (c *Comparator) Equal(old, new string) (bool, error) {
	if old == "" || new == "" {
		return old == new, nil
	}

	oldRoot, err := c.parse(old)
	if err != nil {
		return false, err
	}
	newRoot, err := c.parse(new)
	if err != nil {
		return false, err
	}

	return elementsEqual(oldRoot, newRoot), nil
}

func (c *Comparator) parse(fragment string) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		Permissive: true,
		Entity:     xml.HTMLEntity,
		AutoClose:  xml.HTMLAutoClose,
	}
	if err := doc.ReadFromString(fmt.Sprintf(envelope, fragment)); err != nil {
		return nil, confpub.Errorf(confpub.EINVALID, "failed to parse markup: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, confpub.Errorf(confpub.EINVALID, "failed to parse markup: empty document")
	}

	if !c.keepMacros {
		removeMacros(root)
	}
	return root, nil
}

// removeMacros removes structured macros at any depth below e. A macro's
// whitespace-only tail goes with it so that a macro on its own line leaves
// the surrounding layout unchanged.
func removeMacros(e *etree.Element) {
	for _, child := range e.ChildElements() {
		if isMacro(child) {
			if strings.TrimSpace(child.Tail()) == "" {
				child.SetTail("")
			}
			e.RemoveChild(child)
			continue
		}
		removeMacros(child)
	}
}

func isMacro(e *etree.Element) bool {
	return e.Tag == macroTag
}

func elementsEqual(e1, e2 *etree.Element) bool {
	if e1.Space != e2.Space || e1.Tag != e2.Tag {
		return false
	}
	if e1.Text() != e2.Text() {
		return false
	}
	if !attributesEqual(e1, e2) {
		return false
	}

	c1 := e1.ChildElements()
	c2 := e2.ChildElements()
	if len(c1) != len(c2) {
		return false
	}
	for i := range c1 {
		if c1[i].Tail() != c2[i].Tail() {
			return false
		}
		if !elementsEqual(c1[i], c2[i]) {
			return false
		}
	}
	return true
}

// attributesEqual compares attribute sets regardless of order. Macros only
// compare their name; other macro attributes such as macro ids are
// generated by the wiki.
func attributesEqual(e1, e2 *etree.Element) bool {
	if isMacro(e1) {
		return attrValue(e1, "name") == attrValue(e2, "name")
	}

	if len(e1.Attr) != len(e2.Attr) {
		return false
	}
	for _, a := range e1.Attr {
		other := e2.SelectAttr(a.FullKey())
		if other == nil || other.Value != a.Value {
			return false
		}
	}
	return true
}

// attrValue returns the value of the first attribute with the given local
// name, ignoring its namespace prefix.
func attrValue(e *etree.Element, key string) string {
	for _, a := range e.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}
