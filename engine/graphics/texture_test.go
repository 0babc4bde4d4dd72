package graphics

import "testing"

func TestTextureReferenceCounting(t *testing.T) {
	tex := NewFakeTexture("water mask 0/0/0")
	if tex.RefCount() != 1 {
		t.Fatalf("new texture refcount = %d, want 1", tex.RefCount())
	}

	tex.AddReference()
	if tex.RefCount() != 2 {
		t.Fatalf("refcount after AddReference = %d, want 2", tex.RefCount())
	}

	tex.Release()
	if tex.RefCount() != 1 {
		t.Fatalf("refcount after first Release = %d, want 1", tex.RefCount())
	}

	tex.Release()
	if tex.RefCount() != 0 {
		t.Fatalf("refcount after final Release = %d, want 0", tex.RefCount())
	}
}

func TestTextureOverReleasePanics(t *testing.T) {
	tex := NewFakeTexture("over-released")
	tex.Release()
	defer func() {
		if recover() == nil {
			t.Error("expected panic on release below zero")
		}
	}()
	tex.Release()
}

func TestTextureNilRelease(t *testing.T) {
	var tex *Texture
	tex.Release() // must not panic
}

func TestFakeDevice(t *testing.T) {
	d := NewFakeDevice(false)

	m, err := d.CreateMeshBuffers("tile", []byte{1, 2, 3, 4}, []byte{0, 0}, 1)
	if err != nil {
		t.Fatalf("CreateMeshBuffers: %v", err)
	}
	if m.IndexCount() != 1 {
		t.Errorf("index count = %d, want 1", m.IndexCount())
	}
	m.Release() // nil buffers, must not panic

	failing := NewFakeDevice(true)
	if _, err := failing.CreateMeshBuffers("tile", nil, nil, 0); err == nil {
		t.Error("expected error from failing fake device")
	}
}
