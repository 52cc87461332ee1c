package minio

import "testing"

func TestStorageObjectURL(t *testing.T) {
	client, err := NewClient("localhost:9000", "key", "secret", false)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	derived := NewStorage(client, "")
	if got := derived.objectURL("media", "uploads/2024/08/a b.jpg"); got != "http://localhost:9000/media/uploads/2024/08/a%20b.jpg" {
		t.Fatalf("unexpected derived url %q", got)
	}

	public := NewStorage(client, "https://cdn.example.com/media/")
	if got := public.objectURL("media", "uploads/x.png"); got != "https://cdn.example.com/media/uploads/x.png" {
		t.Fatalf("unexpected public url %q", got)
	}
}
