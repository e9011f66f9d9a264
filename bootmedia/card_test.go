package bootmedia

import (
	"bytes"
	"testing"

	"github.com/d1boot/ext2load/testhelper"
)

func TestMountAndLoadFile(t *testing.T) {
	content := []byte("opensbi payload")
	fixture := testhelper.BuildExt2Fixture(map[string][]byte{
		"opensbi.bin": content,
	})
	img := &testhelper.MemImage{Data: fixture.Image}

	card, err := Mount(img, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	data, truncErr, err := card.LoadFile("opensbi.bin")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if truncErr != nil {
		t.Fatalf("LoadFile: unexpected truncation: %v", truncErr)
	}
	if !bytes.Equal(data, content) {
		t.Errorf("content = %q, want %q", data, content)
	}
}

func TestMountNoBootablePartition(t *testing.T) {
	img := &testhelper.MemImage{Data: make([]byte, 1024)}
	img.Data[510] = 0x55
	img.Data[511] = 0xAA

	if _, err := Mount(img, nil); err == nil {
		t.Fatal("Mount: expected no-bootable-partition error, got nil")
	}
}
