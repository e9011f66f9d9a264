package ext2

import (
	"encoding/binary"
	"testing"
)

func validSuperblockBytes() []byte {
	b := make([]byte, superblockBytes)
	binary.LittleEndian.PutUint32(b[offBlocksCount:], 100)
	binary.LittleEndian.PutUint32(b[offLogBlockSize:], 0)
	binary.LittleEndian.PutUint32(b[offBlocksPerGroup:], 8192)
	binary.LittleEndian.PutUint32(b[offInodesPerGroup:], 64)
	b[offMagic] = 0x53
	b[offMagic+1] = 0xEF
	binary.LittleEndian.PutUint16(b[offInodeSize:], 128)
	binary.LittleEndian.PutUint32(b[offFeatureIncompat:], 0)
	return b
}

func TestSuperblockFromBytesValid(t *testing.T) {
	sb, err := superblockFromBytes(validSuperblockBytes(), 4)
	if err != nil {
		t.Fatalf("superblockFromBytes: %v", err)
	}
	if sb.BlocksCount != 100 {
		t.Errorf("BlocksCount = %d, want 100", sb.BlocksCount)
	}
	if sb.BlockSize != 2 {
		t.Errorf("BlockSize = %d sectors, want 2", sb.BlockSize)
	}
	if sb.InodesPerGroup != 64 {
		t.Errorf("InodesPerGroup = %d, want 64", sb.InodesPerGroup)
	}
}

func TestSuperblockFromBytesBadMagic(t *testing.T) {
	b := validSuperblockBytes()
	b[offMagic] = 0
	if _, err := superblockFromBytes(b, 4); err == nil {
		t.Fatal("expected bad magic error, got nil")
	}
}

func TestSuperblockFromBytesRejectsFeatures(t *testing.T) {
	b := validSuperblockBytes()
	binary.LittleEndian.PutUint32(b[offFeatureIncompat:], 0x2) // filetype
	_, err := superblockFromBytes(b, 4)
	if err == nil {
		t.Fatal("expected unsupported feature error, got nil")
	}
	uf, ok := err.(*UnsupportedFeatureError)
	if !ok {
		t.Fatalf("error type = %T, want *UnsupportedFeatureError", err)
	}
	if len(uf.Detail) == 0 || uf.Detail[0] != "filetype" {
		t.Errorf("Detail = %v, want [filetype]", uf.Detail)
	}
}

func TestSuperblockFromBytesRejectsLargeBlockSize(t *testing.T) {
	b := validSuperblockBytes()
	binary.LittleEndian.PutUint32(b[offLogBlockSize:], 1) // 2048-byte blocks
	if _, err := superblockFromBytes(b, 4); err == nil {
		t.Fatal("expected block-size-too-large error, got nil")
	}
}
