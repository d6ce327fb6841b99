package panel

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Command table file format:
//
//	mode: dcs
//	page_selector: [0xe0]
//	ops:
//	  - page: 0
//	  - reg: 0xe1
//	    values: [0x93]
type yamlTable struct {
	Mode         string   `yaml:"mode"`
	PageSelector []int    `yaml:"page_selector,omitempty"`
	Ops          []yamlOp `yaml:"ops"`
}

type yamlOp struct {
	Page   *int  `yaml:"page,omitempty"`
	Reg    *int  `yaml:"reg,omitempty"`
	Values []int `yaml:"values,omitempty"`
}

// ParseCommandTable decodes a YAML command table. It is validated like any
// other table.
func ParseCommandTable(data []byte) (*CommandTable, error) {
	var doc yamlTable
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}

	var mode WriteMode
	switch strings.ToLower(doc.Mode) {
	case "", "dcs":
		mode = DCSWrite
	case "generic":
		mode = GenericWrite
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrMalformedTable, doc.Mode)
	}

	var selector []byte
	if doc.PageSelector != nil {
		var err error
		if selector, err = toBytes(doc.PageSelector); err != nil {
			return nil, fmt.Errorf("%w: page_selector: %v", ErrMalformedTable, err)
		}
	}

	ops := make([]RegisterOp, len(doc.Ops))
	for i, op := range doc.Ops {
		switch {
		case op.Page != nil && op.Reg == nil && op.Values == nil:
			page, err := toByte(*op.Page)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d: page: %v", ErrMalformedTable, i, err)
			}
			ops[i] = SwitchPage(page)
		case op.Reg != nil && op.Page == nil:
			addr, err := toByte(*op.Reg)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d: reg: %v", ErrMalformedTable, i, err)
			}
			values, err := toBytes(op.Values)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d: values: %v", ErrMalformedTable, i, err)
			}
			ops[i] = WriteRegister(addr, values...)
		default:
			return nil, fmt.Errorf("%w: entry %d: need either page or reg", ErrMalformedTable, i)
		}
	}

	return NewCommandTable(mode, selector, ops...)
}

// LoadCommandTable reads a YAML command table file.
func LoadCommandTable(name string) (*CommandTable, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	t, err := ParseCommandTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

// MarshalYAML encodes the table in the command table file format.
func (t *CommandTable) MarshalYAML() (interface{}, error) {
	ops := &yaml.Node{Kind: yaml.SequenceNode}
	for _, op := range t.ops {
		entry := &yaml.Node{Kind: yaml.MappingNode}
		switch op.Kind {
		case OpSwitchPage:
			entry.Content = append(entry.Content, scalar("page"), hexScalar(op.Page))
		case OpWriteRegister:
			entry.Content = append(entry.Content, scalar("reg"), hexScalar(op.Addr))
			if len(op.Values) > 0 {
				entry.Content = append(entry.Content, scalar("values"), hexSequence(op.Values))
			}
		}
		ops.Content = append(ops.Content, entry)
	}

	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			scalar("mode"), scalar(t.mode.String()),
			scalar("page_selector"), hexSequence(t.selector),
			scalar("ops"), ops,
		},
	}, nil
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func hexScalar(v byte) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("0x%02x", v)}
}

func hexSequence(values []byte) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range values {
		n.Content = append(n.Content, hexScalar(v))
	}
	return n
}

func toByte(v int) (byte, error) {
	if v < 0 || v > 0xff {
		return 0, fmt.Errorf("%d is not a byte", v)
	}
	return byte(v), nil
}

func toBytes(values []int) ([]byte, error) {
	if values == nil {
		return nil, nil
	}
	b := make([]byte, len(values))
	for i, v := range values {
		var err error
		if b[i], err = toByte(v); err != nil {
			return nil, err
		}
	}
	return b, nil
}
