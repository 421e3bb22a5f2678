// Package mir defines the typed, SSA, C-like intermediate representation
// the symbolizer pass consumes and rewrites: typed IDs, Kind-then-
// variant-struct instructions, a Block{Instrs,Term} shape, and real SSA
// values with φ-nodes and dominance, since φ-node handling is the single
// most subtle case for SSA correctness.
package mir

// FuncID identifies a function within a Module.
type FuncID int32

// BlockID identifies a basic block within a Func.
type BlockID int32

// GlobalID identifies a module-scope global variable.
type GlobalID int32

// ValueID identifies an SSA-producing site within a Func: a parameter or an
// instruction/φ result. IDs are dense and allocated in the order values are
// created; constants and global addresses are not ValueIDs (see Operand).
type ValueID int32

const (
	NoFuncID   FuncID   = -1
	NoBlockID  BlockID  = -1
	NoGlobalID GlobalID = -1
	NoValueID  ValueID  = -1
)
