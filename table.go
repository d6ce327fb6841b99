package panel

import "fmt"

// MaxParams is the parameter capacity of a single register write.
const MaxParams = 6

// OpKind tells the two register operations apart.
type OpKind uint8

// Register operations.
const (
	OpSwitchPage OpKind = iota
	OpWriteRegister
)

// RegisterOp is a single command table entry.
type RegisterOp struct {
	Kind   OpKind
	Page   uint8  // OpSwitchPage
	Addr   uint8  // OpWriteRegister
	Values []byte // OpWriteRegister
}

// SwitchPage selects a register page.
func SwitchPage(page uint8) RegisterOp {
	return RegisterOp{Kind: OpSwitchPage, Page: page}
}

// WriteRegister writes values to the register at addr on the current page.
func WriteRegister(addr uint8, values ...byte) RegisterOp {
	return RegisterOp{Kind: OpWriteRegister, Addr: addr, Values: values}
}

func (op RegisterOp) String() string {
	switch op.Kind {
	case OpSwitchPage:
		return fmt.Sprintf("page %d", op.Page)
	case OpWriteRegister:
		return fmt.Sprintf("reg %#02x <- % x", op.Addr, op.Values)
	default:
		return fmt.Sprintf("op(%d)", op.Kind)
	}
}

func (op RegisterOp) validate() error {
	switch op.Kind {
	case OpSwitchPage:
		return nil
	case OpWriteRegister:
		if len(op.Values) > MaxParams {
			return fmt.Errorf("register %#02x has %d parameters, capacity is %d", op.Addr, len(op.Values), MaxParams)
		}
		return nil
	default:
		return fmt.Errorf("unknown operation kind %d", op.Kind)
	}
}

// CommandTable is an immutable, validated sequence of register operations.
type CommandTable struct {
	mode     WriteMode
	selector []byte
	ops      []RegisterOp
}

// NewCommandTable validates ops and returns a table that owns a copy of them.
// A single malformed entry rejects the whole table. The page selector is the
// frame prefix the table's pages are switched with, nil selects the ILI9881C
// frame.
func NewCommandTable(mode WriteMode, selector []byte, ops ...RegisterOp) (*CommandTable, error) {
	switch mode {
	case DCSWrite, GenericWrite:
	default:
		return nil, fmt.Errorf("%w: unknown write mode %d", ErrMalformedTable, mode)
	}
	if selector == nil {
		selector = ILI9881CPageSelector
	}
	if len(selector) == 0 || len(selector) >= MaxParams {
		return nil, fmt.Errorf("%w: page selector % x", ErrMalformedTable, selector)
	}
	t := &CommandTable{
		mode:     mode,
		selector: append([]byte(nil), selector...),
		ops:      make([]RegisterOp, len(ops)),
	}
	for i, op := range ops {
		if err := op.validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedTable, i, err)
		}
		if op.Values != nil {
			op.Values = append([]byte(nil), op.Values...)
		}
		t.ops[i] = op
	}
	return t, nil
}

// MustCommandTable is like NewCommandTable but panics on a malformed table.
// It is meant for tables compiled into the package.
func MustCommandTable(mode WriteMode, selector []byte, ops ...RegisterOp) *CommandTable {
	t, err := NewCommandTable(mode, selector, ops...)
	if err != nil {
		panic(err)
	}
	return t
}

// Mode is the transport framing used for every entry of the table.
func (t *CommandTable) Mode() WriteMode { return t.mode }

// PageSelector returns the page switch frame prefix.
func (t *CommandTable) PageSelector() []byte {
	return append([]byte(nil), t.selector...)
}

// Len is the number of entries.
func (t *CommandTable) Len() int { return len(t.ops) }

// At returns entry i. The returned value shares no memory with the table.
func (t *CommandTable) At(i int) RegisterOp {
	op := t.ops[i]
	if op.Values != nil {
		op.Values = append([]byte(nil), op.Values...)
	}
	return op
}

// Ops returns a copy of all entries.
func (t *CommandTable) Ops() []RegisterOp {
	ops := make([]RegisterOp, len(t.ops))
	for i := range t.ops {
		ops[i] = t.At(i)
	}
	return ops
}

// Writes counts the register writes of the table.
func (t *CommandTable) Writes() (n int) {
	for _, op := range t.ops {
		if op.Kind == OpWriteRegister {
			n++
		}
	}
	return
}
