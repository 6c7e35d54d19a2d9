package session

import (
	"encoding/json"

	"carvewood-storefront/models"
	"carvewood-storefront/storage"
)

// Session is a visitor's stored auth state: the CMS-issued bearer token
// and the user record that came with it.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Store persists sessions through the storage port, one key per visitor.
type Store struct {
	port storage.Port
}

func NewStore(port storage.Port) *Store {
	return &Store{port: port}
}

func key(id string) string {
	return "session:" + id
}

func (s *Store) Save(id string, sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.port.Set(key(id), raw)
}

// Get returns the stored session. ok is false when the visitor has never
// logged in or the stored value is unreadable.
func (s *Store) Get(id string) (Session, bool) {
	raw, err := s.port.Get(key(id))
	if err != nil {
		return Session{}, false
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil || sess.Token == "" {
		return Session{}, false
	}
	return sess, true
}

func (s *Store) Delete(id string) error {
	return s.port.Delete(key(id))
}
