package ir

// Module is the unit of lowering: the functions of one program in
// declaration order.
type Module struct {
	Name  string
	Funcs []*Func
}

// NewModule returns an empty module.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// AddFunc appends f to the module.
func (m *Module) AddFunc(f *Func) {
	m.Funcs = append(m.Funcs, f)
}

// Func returns the first function named name, or nil.
func (m *Module) Func(name string) *Func {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// String renders the module in textual form.
func (m *Module) String() string {
	return Sprint(m)
}
