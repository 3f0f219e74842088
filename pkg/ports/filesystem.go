package ports

// FileSystem abstracts the file writes the extraction sinks perform.
type FileSystem interface {
	// WriteFile writes data to a file, creating it and any missing
	// parent directories.
	WriteFile(path string, data []byte) error

	// AppendFile appends data to a file, creating it if necessary.
	// Successive appends to the same path accumulate.
	AppendFile(path string, data []byte) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error
}
