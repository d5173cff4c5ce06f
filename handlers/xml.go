package handlers

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/declconf/declconf/mapping"
)

// The XML codec builds an etree document where every element carries a
// "type" attribute (string, int, float, bool, bytes, null, dict, list).
// The attribute is what makes the format round-trippable; a document
// without it cannot be loaded faithfully and is rejected.

func init() {
	Register(&Handler{
		Format: "xml",
		Codecs: []Codec{
			{Name: "etree", Marshal: xmlMarshal, Unmarshal: xmlUnmarshal},
		},
		Supported: map[string]bool{"root": true, "pretty": true},
	})
}

func xmlMarshal(m *mapping.Map, o Options) ([]byte, error) {
	rootName := o.Root
	if rootName == "" {
		rootName = "config"
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(rootName)
	root.CreateAttr("type", "dict")
	if err := xmlFillDict(root, m); err != nil {
		return nil, err
	}
	if o.Pretty {
		doc.Indent(2)
	}
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, err
	}
	return out, nil
}

func xmlFillDict(el *etree.Element, m *mapping.Map) error {
	for p := m.Oldest(); p != nil; p = p.Next() {
		if err := xmlAddValue(el, p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}

func xmlAddValue(parent *etree.Element, tag string, v any) error {
	el := parent.CreateElement(tag)
	switch t := v.(type) {
	case nil:
		el.CreateAttr("type", "null")
	case bool:
		el.CreateAttr("type", "bool")
		el.SetText(strconv.FormatBool(t))
	case string:
		el.CreateAttr("type", "string")
		el.SetText(t)
	case []byte:
		el.CreateAttr("type", "bytes")
		el.SetText(base64.StdEncoding.EncodeToString(t))
	case float32:
		el.CreateAttr("type", "float")
		el.SetText(strconv.FormatFloat(float64(t), 'g', -1, 64))
	case float64:
		el.CreateAttr("type", "float")
		el.SetText(strconv.FormatFloat(t, 'g', -1, 64))
	case []any:
		el.CreateAttr("type", "list")
		for _, item := range t {
			if err := xmlAddValue(el, "item", item); err != nil {
				return err
			}
		}
	case *mapping.Map:
		el.CreateAttr("type", "dict")
		if err := xmlFillDict(el, t); err != nil {
			return err
		}
	default:
		if isIntValue(v) {
			el.CreateAttr("type", "int")
			el.SetText(fmt.Sprintf("%d", v))
			return nil
		}
		return fmt.Errorf("handlers: xml cannot represent %T at <%s>", v, tag)
	}
	return nil
}

func isIntValue(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func xmlUnmarshal(data []byte, _ Options) (*mapping.Map, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return mapping.New(), nil
	}
	v, err := xmlReadValue(root)
	if err != nil {
		return nil, err
	}
	m, ok := mapping.AsMap(v)
	if !ok {
		return nil, fmt.Errorf("handlers: xml root <%s> is not a dict", root.Tag)
	}
	return m, nil
}

func xmlReadValue(el *etree.Element) (any, error) {
	attr := el.SelectAttr("type")
	if attr == nil {
		return nil, fmt.Errorf("%w: <%s>", ErrXMLUntypedLeaf, el.Tag)
	}
	switch attr.Value {
	case "null":
		return nil, nil
	case "bool":
		return strconv.ParseBool(el.Text())
	case "string":
		return el.Text(), nil
	case "bytes":
		return base64.StdEncoding.DecodeString(el.Text())
	case "int":
		return strconv.ParseInt(el.Text(), 10, 64)
	case "float":
		return strconv.ParseFloat(el.Text(), 64)
	case "list":
		children := el.ChildElements()
		out := make([]any, 0, len(children))
		for _, c := range children {
			v, err := xmlReadValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case "dict":
		m := mapping.New()
		for _, c := range el.ChildElements() {
			v, err := xmlReadValue(c)
			if err != nil {
				return nil, err
			}
			m.Set(c.Tag, v)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("handlers: xml element <%s> has unknown type %q", el.Tag, attr.Value)
	}
}
