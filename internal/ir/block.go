package ir

// Block is a basic block: a named, ordered instruction list. A complete
// block ends in a jmp or ret.
type Block struct {
	Name   string
	Instrs []*Instr

	// Func is the function containing this block.
	Func *Func
}

func (b *Block) String() string { return b.Name }

// Label returns a label operand referring to b.
func (b *Block) Label() *Label { return NewLabel(b.Name) }

// Add appends in to the block and returns it.
func (b *Block) Add(in *Instr) *Instr {
	b.Instrs = append(b.Instrs, in)
	return in
}

// Last returns the last instruction, or nil for an empty block.
func (b *Block) Last() *Instr {
	if len(b.Instrs) == 0 {
		return nil
	}
	return b.Instrs[len(b.Instrs)-1]
}

// Returns reports whether the block ends in a ret.
func (b *Block) Returns() bool {
	last := b.Last()
	return last != nil && last.Op == OpRet
}

// Terminated reports whether the block ends in a jmp or ret.
func (b *Block) Terminated() bool {
	last := b.Last()
	return last != nil && last.Op.IsTerminator()
}

// Succs returns the names of the blocks control may transfer to, in
// instruction order. Duplicates are kept.
func (b *Block) Succs() []string {
	var succs []string
	for _, in := range b.Instrs {
		for _, l := range in.Targets() {
			succs = append(succs, l.Name)
		}
	}
	return succs
}

// NumInstrs returns the number of instructions in the block.
func (b *Block) NumInstrs() int { return len(b.Instrs) }
