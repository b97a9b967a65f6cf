//go:build !production

package testutil

import "context"

// MemorySessionStore 内存版的 SessionStoreInterface 替身
type MemorySessionStore struct {
	Tokens map[string]string // identity -> token
	Seats  map[string]string
	Online map[string]bool
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		Tokens: make(map[string]string),
		Seats:  make(map[string]string),
		Online: make(map[string]bool),
	}
}

func (s *MemorySessionStore) CreateSession(ctx context.Context, identity string) (string, error) {
	token := "token-" + identity
	s.Tokens[identity] = token
	s.Online[identity] = true
	return token, nil
}

func (s *MemorySessionStore) CanReconnect(ctx context.Context, token, identity string) bool {
	stored, ok := s.Tokens[identity]
	return ok && token != "" && stored == token
}

func (s *MemorySessionStore) BindSeat(ctx context.Context, identity, position string) error {
	s.Seats[identity] = position
	return nil
}

func (s *MemorySessionStore) SeatOf(ctx context.Context, identity string) (string, bool) {
	seat, ok := s.Seats[identity]
	return seat, ok
}

func (s *MemorySessionStore) SetOnline(ctx context.Context, identity string) error {
	s.Online[identity] = true
	return nil
}

func (s *MemorySessionStore) SetOffline(ctx context.Context, identity string) error {
	s.Online[identity] = false
	return nil
}
