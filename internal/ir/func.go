package ir

// EntryName is the name of every function's first block.
const EntryName = "entry"

// Param is a function parameter.
type Param struct {
	Name string
	Type Type
}

// Func is an IR function. Blocks are kept in creation order; Blocks[0] is
// the entry block.
type Func struct {
	Name   string
	Result Type
	Params []Param
	Blocks []*Block
}

// NewFunc returns a function with an empty entry block.
func NewFunc(name string, result Type, params []Param) *Func {
	f := &Func{
		Name:   name,
		Result: result,
		Params: params,
	}
	f.NewBlock(EntryName)
	return f
}

// Entry returns the entry block.
func (f *Func) Entry() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// NewBlock appends a new empty block named name.
func (f *Func) NewBlock(name string) *Block {
	b := &Block{Name: name, Func: f}
	f.Blocks = append(f.Blocks, b)
	return b
}

// Block returns the block named name, or nil.
func (f *Func) Block(name string) *Block {
	for _, b := range f.Blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumInstrs returns the total number of instructions across all blocks.
func (f *Func) NumInstrs() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Instrs)
	}
	return n
}
