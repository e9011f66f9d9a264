package ext2

import (
	"bytes"
	"testing"

	"github.com/d1boot/ext2load/testhelper"
)

func TestMountAndReadFile(t *testing.T) {
	content := []byte("hello, world\n")
	fixture := testhelper.BuildExt2Fixture(map[string][]byte{
		"hello.bin": content,
	})
	img := &testhelper.MemImage{Data: fixture.Image}

	fs, err := Mount(img, fixture.PartStart, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	got, err := fs.ReadFile("hello.bin")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("ReadFile content = %q, want %q", got, content)
	}
}

func TestReadFileNotFound(t *testing.T) {
	fixture := testhelper.BuildExt2Fixture(nil)
	img := &testhelper.MemImage{Data: fixture.Image}

	fs, err := Mount(img, fixture.PartStart, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if _, err := fs.ReadFile("does-not-exist"); err == nil {
		t.Fatal("ReadFile: expected error, got nil")
	} else if _, ok := err.(*FileNotFoundError); !ok {
		t.Errorf("ReadFile error type = %T, want *FileNotFoundError", err)
	}
}

func TestMountRejectsBadMagic(t *testing.T) {
	fixture := testhelper.BuildExt2Fixture(nil)
	// corrupt the magic bytes at superblock offset 0x38, within block 1.
	sbOff := int(fixture.PartStart)*512 + 1024 + 0x38
	fixture.Image[sbOff] = 0
	fixture.Image[sbOff+1] = 0

	img := &testhelper.MemImage{Data: fixture.Image}
	if _, err := Mount(img, fixture.PartStart, nil); err == nil {
		t.Fatal("Mount: expected bad magic error, got nil")
	} else if _, ok := err.(*BadMagicError); !ok {
		t.Errorf("Mount error type = %T, want *BadMagicError", err)
	}
}
