package ext2load

import (
	"bytes"
	"testing"

	"github.com/d1boot/ext2load/testhelper"
)

func TestLoadExt2LoadsConfiguredArtifacts(t *testing.T) {
	sbi := []byte("sbi-payload")
	fdt := []byte("fdt-payload")
	fixture := testhelper.BuildExt2Fixture(map[string][]byte{
		"opensbi.bin": sbi,
		"fdt":         fdt,
	})
	img := &testhelper.MemImage{Data: fixture.Image}

	mem := NewSliceMemory(0, 1<<20)
	artifacts := []Artifact{
		{Name: "opensbi.bin", Target: 0x1000},
		{Name: "fdt", Target: 0x2000},
	}

	result, err := LoadExt2(img, mem, nil, artifacts)
	if err != nil {
		t.Fatalf("LoadExt2: %v", err)
	}
	if len(result.Loaded) != 2 {
		t.Fatalf("Loaded = %d artifacts, want 2", len(result.Loaded))
	}
	if len(result.Failures) != 0 {
		t.Fatalf("Failures = %v, want none", result.Failures)
	}

	if got := mem.At(0x1000, len(sbi)); !bytes.Equal(got, sbi) {
		t.Errorf("opensbi.bin memory = %q, want %q", got, sbi)
	}
	if got := mem.At(0x2000, len(fdt)); !bytes.Equal(got, fdt) {
		t.Errorf("fdt memory = %q, want %q", got, fdt)
	}
}

func TestLoadExt2FailsWhenNoArtifactsFound(t *testing.T) {
	fixture := testhelper.BuildExt2Fixture(nil)
	img := &testhelper.MemImage{Data: fixture.Image}

	mem := NewSliceMemory(0, 1<<20)
	artifacts := []Artifact{{Name: "missing.bin", Target: 0}}

	result, err := LoadExt2(img, mem, nil, artifacts)
	if err == nil {
		t.Fatal("LoadExt2: expected error, got nil")
	}
	if _, ok := err.(*NoArtifactsLoadedError); !ok {
		t.Fatalf("error type = %T, want *NoArtifactsLoadedError", err)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("Failures = %d, want 1", len(result.Failures))
	}
}

func TestLoadExt2PartialFailureStillSucceeds(t *testing.T) {
	sbi := []byte("sbi-payload")
	fixture := testhelper.BuildExt2Fixture(map[string][]byte{
		"opensbi.bin": sbi,
	})
	img := &testhelper.MemImage{Data: fixture.Image}

	mem := NewSliceMemory(0, 1<<20)
	artifacts := []Artifact{
		{Name: "opensbi.bin", Target: 0x1000},
		{Name: "missing.bin", Target: 0x2000},
	}

	result, err := LoadExt2(img, mem, nil, artifacts)
	if err != nil {
		t.Fatalf("LoadExt2: %v", err)
	}
	if len(result.Loaded) != 1 || len(result.Failures) != 1 {
		t.Fatalf("Loaded=%d Failures=%d, want 1/1", len(result.Loaded), len(result.Failures))
	}
}
