package ext2

import (
	"encoding/binary"
	"testing"
)

func buildTestDirBlock(entries []struct {
	inode    uint32
	fileType byte
	name     string
}, blockSize int) []byte {
	buf := make([]byte, 0, blockSize)
	for i, e := range entries {
		recLen := 8 + len(e.name)
		recLen = (recLen + 3) &^ 3
		if i == len(entries)-1 {
			recLen = blockSize - len(buf)
		}
		entry := make([]byte, recLen)
		binary.LittleEndian.PutUint32(entry[0:], e.inode)
		binary.LittleEndian.PutUint16(entry[4:], uint16(recLen))
		entry[6] = byte(len(e.name))
		entry[7] = e.fileType
		copy(entry[8:], e.name)
		buf = append(buf, entry...)
	}
	return buf
}

func TestParseDirectoryEntriesAndLookup(t *testing.T) {
	data := buildTestDirBlock([]struct {
		inode    uint32
		fileType byte
		name     string
	}{
		{inode: 2, fileType: 2, name: "."},
		{inode: 2, fileType: 2, name: ".."},
		{inode: 12, fileType: 1, name: "opensbi.bin"},
	}, 1024)

	dir := newDirectory(data)

	inum, err := dir.Lookup("opensbi.bin")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if inum != 12 {
		t.Errorf("inode = %d, want 12", inum)
	}

	if _, err := dir.Lookup("missing"); err == nil {
		t.Fatal("Lookup: expected FileNotFoundError, got nil")
	}
}

func TestParseDirectoryEntriesSeparatesFileTypeFromNameLen(t *testing.T) {
	// A name_len of 3 ("fdt") with a non-zero file_type byte must not be
	// misread as part of a merged 16-bit field: file_type=7 would make a
	// naive uint16 read at offset 0x6 come out as 0x0703, not 3.
	data := buildTestDirBlock([]struct {
		inode    uint32
		fileType byte
		name     string
	}{
		{inode: 20, fileType: 7, name: "fdt"},
	}, 1024)

	dir := newDirectory(data)
	inum, err := dir.Lookup("fdt")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if inum != 20 {
		t.Errorf("inode = %d, want 20", inum)
	}
}
