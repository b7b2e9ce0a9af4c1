// Package mmap maps vector files read-only into memory so that a
// vectorsource.File can hand out zero-copy slices into the file contents.
//
// # Usage
//
//	m, err := mmap.Open("vectors.vcl")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// On Unix systems mmap(2) and madvise(2) are used. Elsewhere the file is read
// into heap memory and advice is ignored.
//
// A Mapping is safe for concurrent reads. Close is idempotent; callers must not
// touch slices obtained from Bytes after Close returns.
package mmap
