package source

// FileID identifies a module description file the pass was invoked on.
type FileID uint32

// File captures the origin of a MIR module for diagnostic purposes.
type File struct {
	ID   FileID
	Path string
}
