// Package svg embeds signed badge assertions into SVG badge images.
package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"github.com/openbadges/openbadges-signer/pkg/badgeerr"
)

const (
	// Namespace is the XML namespace of the assertion element.
	Namespace = "http://openbadges.org"

	// Prefix is the namespace prefix written on the assertion element.
	Prefix = "openbadges"

	// AssertionTag is the local name of the assertion element.
	AssertionTag = "assertion"

	// VerifyAttr is the attribute holding the compact token.
	VerifyAttr = "verify"
)

// Embed returns a copy of svgData with one openbadges:assertion element appended
// to the SVG root, its verify attribute set to token. Every other node is written
// back with the same values; the XML declaration, if any, is rewritten to
// declare UTF-8. The input slice is not modified. Existing assertions are left
// in place; a second Embed appends a second element.
func Embed(svgData []byte, token string) ([]byte, error) {
	doc, err := parse(svgData)
	if err != nil {
		return nil, err
	}

	assertion := doc.Root().CreateElement(Prefix + ":" + AssertionTag)
	assertion.CreateAttr("xmlns:"+Prefix, Namespace)
	assertion.CreateAttr(VerifyAttr, token)

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, badgeerr.Wrap(err, badgeerr.CodeErrorSigningFile, "failed to serialize SVG")
	}
	return out, nil
}

// Assertions returns the verify attribute of every assertion element in svgData,
// in document order.
func Assertions(svgData []byte) ([]string, error) {
	doc, err := parse(svgData)
	if err != nil {
		return nil, err
	}

	var tokens []string
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if el.Tag == AssertionTag && el.NamespaceURI() == Namespace {
			if attr := el.SelectAttr(VerifyAttr); attr != nil {
				tokens = append(tokens, attr.Value)
			}
		}
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	walk(doc.Root())

	return tokens, nil
}

// IsSigned reports whether svgData already carries an assertion element.
func IsSigned(svgData []byte) (bool, error) {
	tokens, err := Assertions(svgData)
	if err != nil {
		return false, err
	}
	return len(tokens) > 0, nil
}

func parse(svgData []byte) (*etree.Document, error) {
	entities, err := scan(svgData)
	if err != nil {
		return nil, badgeerr.Wrap(err, badgeerr.CodeErrorSigningFile, "SVG is not well-formed XML")
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	doc.ReadSettings.Entity = entities
	doc.ReadSettings.PreserveCData = true
	doc.WriteSettings.CanonicalAttrVal = true
	if err := doc.ReadFromBytes(svgData); err != nil {
		return nil, badgeerr.Wrap(err, badgeerr.CodeErrorSigningFile, "failed to parse SVG")
	}

	root := doc.Root()
	if root == nil {
		return nil, badgeerr.New(badgeerr.CodeErrorSigningFile, "SVG has no root element")
	}
	if root.Tag != "svg" {
		return nil, badgeerr.New(badgeerr.CodeErrorSigningFile, "root element is <%s>, want <svg>", root.FullTag())
	}

	// The document is always written back as UTF-8.
	for _, tok := range doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			pi.Inst = encodingDecl.ReplaceAllString(pi.Inst, `encoding="UTF-8"`)
		}
	}
	return doc, nil
}

var (
	encodingDecl = regexp.MustCompile(`encoding\s*=\s*("[^"]*"|'[^']*')`)
	entityDecl   = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_:][-\w.:]*)\s+(?:"([^"]*)"|'([^']*)')\s*>`)
)

// scan runs the strict decoder over the whole input, which rejects mismatched
// and unclosed elements and undeclared entities. General entities declared in
// the DOCTYPE internal subset are collected and returned for the DOM reader.
func scan(data []byte) (map[string]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var entities map[string]string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return entities, nil
		}
		if err != nil {
			return nil, err
		}

		d, ok := tok.(xml.Directive)
		if !ok || !bytes.HasPrefix(bytes.TrimSpace(d), []byte("DOCTYPE")) {
			continue
		}
		for _, m := range entityDecl.FindAllSubmatch(d, -1) {
			if entities == nil {
				entities = make(map[string]string)
			}
			value := m[2]
			if value == nil {
				value = m[3]
			}
			entities[string(m[1])] = string(value)
		}
		dec.Entity = entities
	}
}
