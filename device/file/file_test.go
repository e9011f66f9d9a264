package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/d1boot/ext2load/device"
)

func TestOpenFromPathReadSectors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.bin")

	data := make([]byte, 4*device.SectorSize)
	for i := range data {
		data[i] = byte(i)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	dev, err := OpenFromPath(path)
	if err != nil {
		t.Fatalf("OpenFromPath: %v", err)
	}
	defer dev.(*sectorFile).Close()

	buf := make([]byte, 2*device.SectorSize)
	if err := dev.ReadSectors(1, 2, buf); err != nil {
		t.Fatalf("ReadSectors: %v", err)
	}
	want := data[device.SectorSize : 3*device.SectorSize]
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, buf[i], want[i])
		}
	}
}

func TestOpenFromPathMissing(t *testing.T) {
	if _, err := OpenFromPath(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Fatal("OpenFromPath: expected error for missing file, got nil")
	}
}

func TestReadSectorsShortDestination(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.bin")
	if err := os.WriteFile(path, make([]byte, device.SectorSize), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	dev, err := OpenFromPath(path)
	if err != nil {
		t.Fatalf("OpenFromPath: %v", err)
	}
	defer dev.(*sectorFile).Close()

	if err := dev.ReadSectors(0, 1, make([]byte, 10)); err == nil {
		t.Fatal("ReadSectors: expected error for undersized destination, got nil")
	}
}
