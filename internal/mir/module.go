package mir

import (
	"symcc/internal/layout"
	"symcc/internal/types"
)

// Module is one translation unit: every function and global the pass
// operates on, plus the type interner and layout engine that give its
// types meaning. This is the unit Symbolize (internal/symbolize) consumes
// and rewrites in place.
type Module struct {
	Name string

	Funcs   []Func
	Globals []GlobalVar

	Types  *types.Interner
	Layout *layout.Engine

	funcByName   map[string]FuncID
	globalByName map[string]GlobalID
}

// NewModule creates an empty Module over the given interner/layout engine.
func NewModule(name string, in *types.Interner, lay *layout.Engine) *Module {
	return &Module{
		Name:   name,
		Types:  in,
		Layout: lay,
	}
}

// AddFunc appends fn to the module, assigning fn.ID, and returns its ID.
func (m *Module) AddFunc(fn Func) FuncID {
	id := FuncID(len(m.Funcs))
	fn.ID = id
	m.Funcs = append(m.Funcs, fn)
	m.indexFuncName(id)
	return id
}

// AddGlobal appends g to the module, assigning g.ID, and returns its ID.
func (m *Module) AddGlobal(g GlobalVar) GlobalID {
	id := GlobalID(len(m.Globals))
	g.ID = id
	if g.Shadow == 0 {
		g.Shadow = NoGlobalID
	}
	m.Globals = append(m.Globals, g)
	m.indexGlobalName(id)
	return id
}

func (m *Module) indexFuncName(id FuncID) {
	if m.funcByName == nil {
		m.funcByName = make(map[string]FuncID, len(m.Funcs))
	}
	m.funcByName[m.Funcs[id].Name] = id
}

func (m *Module) indexGlobalName(id GlobalID) {
	if m.globalByName == nil {
		m.globalByName = make(map[string]GlobalID, len(m.Globals))
	}
	m.globalByName[m.Globals[id].Name] = id
}

// FuncByName looks up a function by name.
func (m *Module) FuncByName(name string) (FuncID, bool) {
	id, ok := m.funcByName[name]
	return id, ok
}

// GlobalByName looks up a global by name.
func (m *Module) GlobalByName(name string) (GlobalID, bool) {
	id, ok := m.globalByName[name]
	return id, ok
}

// Func returns a pointer to the function with the given ID for in-place
// mutation by the pass.
func (m *Module) Func(id FuncID) *Func {
	if id < 0 || int(id) >= len(m.Funcs) {
		return nil
	}
	return &m.Funcs[id]
}

// Global returns a pointer to the global with the given ID.
func (m *Module) Global(id GlobalID) *GlobalVar {
	if id < 0 || int(id) >= len(m.Globals) {
		return nil
	}
	return &m.Globals[id]
}

// reindex rebuilds the name maps — used by the msgpack decoder after
// populating Funcs/Globals directly.
func (m *Module) reindex() {
	m.funcByName = make(map[string]FuncID, len(m.Funcs))
	m.globalByName = make(map[string]GlobalID, len(m.Globals))
	for i := range m.Funcs {
		m.funcByName[m.Funcs[i].Name] = FuncID(i)
	}
	for i := range m.Globals {
		m.globalByName[m.Globals[i].Name] = GlobalID(i)
	}
}
