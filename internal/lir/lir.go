// Package lir defines a Low-level IR close to the target ISA.
// It is suitable for straightforward instruction selection and regalloc.
//
// Variable-arity references — an instruction's operand list, a block's
// successor and predecessor edges — are stored as entitylist.List handles
// grown from per-Function pools rather than as Go slices. A Call's operand
// list, for example, costs 4 bytes inside the Call record instead of a
// 24-byte slice header, the same trade-off entitylist documents for its own
// embedding inside compact IR records.
package lir

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/orizon/internal/entitylist"
)

// ValueRef identifies an SSA-ish value (an instruction result or a function
// argument) by a small integer handle instead of a string name. 0 is
// reserved as InvalidValue, matching entitylist's own use of 0 as "no list".
type ValueRef uint32

// InvalidValue is the zero ValueRef, never assigned to a real value.
const InvalidValue ValueRef = 0

// BlockRef identifies a BasicBlock the same way ValueRef identifies a
// value. 0 is reserved as InvalidBlock.
type BlockRef uint32

// InvalidBlock is the zero BlockRef, never assigned to a real block.
const InvalidBlock BlockRef = 0

// Module bundles functions for one object file.
type Module struct {
	Name      string
	Functions []*Function
}

// Function is a sequence of basic blocks of target-like instructions.
//
// It owns the two entity pools backing every List inside its own Blocks and
// instructions: one for value operands, one for block edges. Lists handed
// out by a Function are only valid against that Function's pools.
type Function struct {
	Name   string
	Blocks []*BasicBlock

	values    *entitylist.Pool[ValueRef]
	edges     *entitylist.Pool[BlockRef]
	valueName map[ValueRef]string
	blockByID map[BlockRef]*BasicBlock
	nextValue ValueRef
}

// NewFunction creates an empty function ready to have blocks and values
// added to it.
func NewFunction(name string) *Function {
	return &Function{
		Name:      name,
		values:    entitylist.NewPool[ValueRef](),
		edges:     entitylist.NewPool[BlockRef](),
		valueName: make(map[ValueRef]string),
		blockByID: make(map[BlockRef]*BasicBlock),
	}
}

// NewValue allocates a fresh ValueRef and records its display name for
// rendering (Function.String, Call.Render, Phi.Render).
func (f *Function) NewValue(name string) ValueRef {
	f.nextValue++
	v := f.nextValue
	f.valueName[v] = name

	return v
}

// ValueName returns the display name of v, or a synthetic "%vN" if v was
// never registered through NewValue (e.g. it names a physical register
// passed in from outside this function).
func (f *Function) ValueName(v ValueRef) string {
	if name, ok := f.valueName[v]; ok {
		return name
	}

	return fmt.Sprintf("%%v%d", uint32(v))
}

// AddBlock appends a new, empty basic block to the function and returns it.
func (f *Function) AddBlock(label string) *BasicBlock {
	bb := &BasicBlock{
		Ref:   BlockRef(len(f.Blocks) + 1),
		Label: label,
		fn:    f,
	}
	f.Blocks = append(f.Blocks, bb)
	f.blockByID[bb.Ref] = bb

	return bb
}

// AddEdge records a control-flow edge from one block to another, pushing to
// onto from's successor list and from onto to's predecessor list.
func (f *Function) AddEdge(from, to *BasicBlock) {
	from.Succs.Push(to.Ref, f.edges)
	to.Preds.Push(from.Ref, f.edges)
}

// BlockName returns the display label of a block reference, resolved
// through this function's block table.
func (f *Function) BlockName(ref BlockRef) string {
	if bb, ok := f.blockByID[ref]; ok && bb.Label != "" {
		return bb.Label
	}

	return fmt.Sprintf("bb%d", uint32(ref))
}

// BasicBlock contains a linear list of target-like instructions, plus its
// control-flow edges to other blocks in the same function.
type BasicBlock struct {
	Ref   BlockRef
	Label string
	Insns []Insn

	// Succs and Preds are entity lists of BlockRef grown from the owning
	// Function's edge pool; they replace what would otherwise be a
	// []*BasicBlock per direction.
	Succs entitylist.List[BlockRef]
	Preds entitylist.List[BlockRef]

	fn *Function
}

// SuccRefs returns the block's successor references as a plain slice,
// resolved against the owning function's edge pool.
func (bb *BasicBlock) SuccRefs() []BlockRef {
	return bb.Succs.Slice(bb.fn.edges)
}

// PredRefs returns the block's predecessor references as a plain slice,
// resolved against the owning function's edge pool.
func (bb *BasicBlock) PredRefs() []BlockRef {
	return bb.Preds.Slice(bb.fn.edges)
}

// Insn is a target-agnostic instruction representation.
type Insn interface{ Op() string }

// renderer is implemented by instructions whose textual form depends on
// their owning Function (because they resolve a ValueRef or BlockRef
// operand list through the function's pools and name tables). Instructions
// with only scalar string operands implement fmt.Stringer instead.
type renderer interface{ Render(f *Function) string }

// Mov, Add, Sub, Mul are minimal sample instructions with textual form.
type Mov struct{ Dst, Src string }

func (Mov) Op() string       { return "mov" }
func (m Mov) String() string { return fmt.Sprintf("mov %s, %s", m.Dst, m.Src) }

type Add struct{ Dst, LHS, RHS string }

func (Add) Op() string       { return "add" }
func (a Add) String() string { return fmt.Sprintf("add %s, %s, %s", a.Dst, a.LHS, a.RHS) }

type Sub struct{ Dst, LHS, RHS string }

func (Sub) Op() string       { return "sub" }
func (s Sub) String() string { return fmt.Sprintf("sub %s, %s, %s", s.Dst, s.LHS, s.RHS) }

type Mul struct{ Dst, LHS, RHS string }

func (Mul) Op() string       { return "mul" }
func (m Mul) String() string { return fmt.Sprintf("mul %s, %s, %s", m.Dst, m.LHS, m.RHS) }

type Div struct{ Dst, LHS, RHS string }

func (Div) Op() string       { return "div" }
func (d Div) String() string { return fmt.Sprintf("div %s, %s, %s", d.Dst, d.LHS, d.RHS) }

type Ret struct{ Src string }

func (Ret) Op() string { return "ret" }
func (r Ret) String() string {
	if r.Src == "" {
		return "ret"
	}

	return fmt.Sprintf("ret %s", r.Src)
}

// Call is the one instruction in this IR with genuinely variable arity: the
// number of arguments is unbounded, so its argument list is an entity list
// instead of a fixed struct field per argument or a []ValueRef slice.
type Call struct {
	Dst      string
	Callee   string
	RetClass string
	Args     entitylist.List[ValueRef]
}

func (Call) Op() string { return "call" }

// Render resolves Args through f's value pool and name table.
func (c Call) Render(f *Function) string {
	var b strings.Builder
	if c.Dst != "" {
		fmt.Fprintf(&b, "%s = ", c.Dst)
	}

	fmt.Fprintf(&b, "call %s(", c.Callee)

	for i, v := range c.Args.Slice(f.values) {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(f.ValueName(v))
	}

	b.WriteString(")")

	if c.RetClass != "" {
		fmt.Fprintf(&b, " ; ret:%s", c.RetClass)
	}

	return b.String()
}

// Phi joins one incoming value per predecessor edge of the owning block. It
// is a standard low-level-IR construct once blocks track predecessors
// (BasicBlock.Preds): each predecessor contributes exactly one entry to
// Incoming, in the same order as BasicBlock.PredRefs.
type Phi struct {
	Dst      string
	Incoming entitylist.List[ValueRef]
}

func (Phi) Op() string { return "phi" }

// Render resolves Incoming through f's value pool and name table.
func (p Phi) Render(f *Function) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s = phi ", p.Dst)

	for i, v := range p.Incoming.Slice(f.values) {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(f.ValueName(v))
	}

	return b.String()
}

// Compare and branching.
type Cmp struct{ Dst, Pred, LHS, RHS string }

func (Cmp) Op() string       { return "cmp" }
func (c Cmp) String() string { return fmt.Sprintf("cmp.%s %s, %s, %s", c.Pred, c.Dst, c.LHS, c.RHS) }

type Br struct{ Target string }

func (Br) Op() string       { return "br" }
func (b Br) String() string { return fmt.Sprintf("br %s", b.Target) }

type BrCond struct{ Cond, True, False string }

func (BrCond) Op() string       { return "brcond" }
func (b BrCond) String() string { return fmt.Sprintf("brcond %s, %s, %s", b.Cond, b.True, b.False) }

// Memory operations.
type Alloc struct{ Dst, Name string }

func (Alloc) Op() string { return "alloca" }
func (a Alloc) String() string {
	if a.Name != "" {
		return fmt.Sprintf("%s = alloca %s", a.Dst, a.Name)
	}

	return fmt.Sprintf("%s = alloca", a.Dst)
}

type Load struct{ Dst, Addr string }

func (Load) Op() string       { return "load" }
func (l Load) String() string { return fmt.Sprintf("%s = load %s", l.Dst, l.Addr) }

type Store struct{ Addr, Val string }

func (Store) Op() string       { return "store" }
func (s Store) String() string { return fmt.Sprintf("store %s, %s", s.Addr, s.Val) }

func (m *Module) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "module %s\n", m.Name)

	for _, f := range m.Functions {
		b.WriteString(f.String())
		b.WriteByte('\n')
	}

	return b.String()
}

func (f *Function) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "func %s() {\n", f.Name)

	for _, bb := range f.Blocks {
		if bb.Label != "" {
			fmt.Fprintf(&b, "%s:\n", bb.Label)
		}

		if succs := bb.SuccRefs(); len(succs) > 0 {
			names := make([]string, len(succs))
			for i, s := range succs {
				names[i] = f.BlockName(s)
			}

			fmt.Fprintf(&b, "  ; succs: %s\n", strings.Join(names, ", "))
		}

		for _, ins := range bb.Insns {
			b.WriteString("  ")

			switch r := ins.(type) {
			case renderer:
				b.WriteString(r.Render(f))
			case fmt.Stringer:
				b.WriteString(r.String())
			default:
				b.WriteString(ins.Op())
			}

			b.WriteByte('\n')
		}
	}

	b.WriteString("}\n")

	return b.String()
}
