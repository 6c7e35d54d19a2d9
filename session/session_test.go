package session

import (
	"testing"

	"carvewood-storefront/models"
	"carvewood-storefront/storage"
)

func TestSaveAndGet(t *testing.T) {
	store := NewStore(storage.NewMemory())

	sess := Session{
		Token: "cms-token-abc",
		User:  models.User{ID: 7, Username: "somchai", Email: "somchai@example.com"},
	}
	if err := store.Save("visitor-a", sess); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, ok := store.Get("visitor-a")
	if !ok {
		t.Fatal("expected session to be found")
	}
	if got.Token != "cms-token-abc" {
		t.Errorf("expected token preserved, got %q", got.Token)
	}
	if got.User.Email != "somchai@example.com" {
		t.Errorf("expected user preserved, got %+v", got.User)
	}
}

func TestGetMissing(t *testing.T) {
	store := NewStore(storage.NewMemory())

	if _, ok := store.Get("never-logged-in"); ok {
		t.Error("expected no session for unknown visitor")
	}
}

func TestGetMalformedReadsAsLoggedOut(t *testing.T) {
	port := storage.NewMemory()
	port.Set("session:visitor-a", []byte("{broken"))

	store := NewStore(port)
	if _, ok := store.Get("visitor-a"); ok {
		t.Error("expected malformed session to read as logged out")
	}
}

func TestGetEmptyTokenReadsAsLoggedOut(t *testing.T) {
	port := storage.NewMemory()
	port.Set("session:visitor-a", []byte(`{"token":"","user":{"id":1}}`))

	store := NewStore(port)
	if _, ok := store.Get("visitor-a"); ok {
		t.Error("expected session without token to read as logged out")
	}
}

func TestDelete(t *testing.T) {
	store := NewStore(storage.NewMemory())
	store.Save("visitor-a", Session{Token: "t", User: models.User{ID: 1}})

	if err := store.Delete("visitor-a"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := store.Get("visitor-a"); ok {
		t.Error("expected session gone after delete")
	}
}
