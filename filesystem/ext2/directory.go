package ext2

// Directory is a fully-read directory's entries, scanned once and kept
// in memory for repeated lookups — this reader never needs a directory
// larger than fits comfortably in a boot loader's working memory.
type Directory struct {
	entries []directoryEntry
}

// newDirectory parses raw directory block contents into a Directory.
func newDirectory(data []byte) *Directory {
	return &Directory{entries: parseDirectoryEntries(data)}
}

// Lookup returns the inode number for name, or FileNotFoundError if no
// entry matches.
func (d *Directory) Lookup(name string) (uint32, error) {
	for _, e := range d.entries {
		if e.Name == name {
			return e.Inode, nil
		}
	}
	return 0, &FileNotFoundError{Name: name}
}
