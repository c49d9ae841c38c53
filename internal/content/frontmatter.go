package content

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

// Document is a markdown file split into YAML front matter and body. The
// front matter is kept as a yaml.Node mapping so a rewrite preserves keys
// this package knows nothing about, in their original order.
type Document struct {
	meta *yaml.Node
	Body string
}

func emptyMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// ParseDocument splits src into front matter and body. A file without a
// leading --- block is all body with empty metadata.
func ParseDocument(src []byte) (*Document, error) {
	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	if !strings.HasPrefix(text, frontMatterDelim+"\n") {
		return &Document{meta: emptyMapping(), Body: text}, nil
	}

	rest := text[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim+"\n")
	var raw, body string
	if end == -1 {
		if strings.HasSuffix(rest, "\n"+frontMatterDelim) {
			raw = rest[:len(rest)-len(frontMatterDelim)-1]
		} else {
			return nil, fmt.Errorf("front matter: missing closing %s", frontMatterDelim)
		}
	} else {
		raw = rest[:end]
		body = rest[end+len(frontMatterDelim)+2:]
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}

	meta := emptyMapping()
	if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
		meta = doc.Content[0]
	}
	return &Document{meta: meta, Body: body}, nil
}

// Encode renders the document back to markdown source.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(frontMatterDelim + "\n")

	if len(d.meta.Content) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d.meta); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	}

	buf.WriteString(frontMatterDelim + "\n")
	buf.WriteString(d.Body)
	return buf.Bytes(), nil
}

func (d *Document) find(key string) int {
	for i := 0; i+1 < len(d.meta.Content); i += 2 {
		if d.meta.Content[i].Value == key {
			return i
		}
	}
	return -1
}

func (d *Document) String(key string) string {
	i := d.find(key)
	if i == -1 {
		return ""
	}
	return d.meta.Content[i+1].Value
}

func (d *Document) Bool(key string) bool {
	return strings.EqualFold(d.String(key), "true")
}

func (d *Document) StringSlice(key string) []string {
	i := d.find(key)
	if i == -1 {
		return nil
	}
	value := d.meta.Content[i+1]
	if value.Kind != yaml.SequenceNode {
		return nil
	}
	items := make([]string, 0, len(value.Content))
	for _, item := range value.Content {
		items = append(items, item.Value)
	}
	return items
}

func (d *Document) set(key string, value *yaml.Node) {
	if i := d.find(key); i != -1 {
		d.meta.Content[i+1] = value
		return
	}
	d.meta.Content = append(d.meta.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

func (d *Document) SetString(key, value string) {
	d.set(key, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value})
}

func (d *Document) SetBool(key string, value bool) {
	d.set(key, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", value)})
}

func (d *Document) Has(key string) bool {
	return d.find(key) != -1
}
