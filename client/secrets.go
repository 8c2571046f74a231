package client

import "sync"

// SecretTable keeps the latest secret of every player of this process.
// It is shared by pointer between player goroutines.
type SecretTable struct {
	secrets map[string]uint64
	sync.RWMutex
}

func NewSecretTable() *SecretTable {
	return &SecretTable{secrets: make(map[string]uint64)}
}

// Store replaces the secret of player.
func (t *SecretTable) Store(player string, secret uint64) {
	t.Lock()
	defer t.Unlock()
	t.secrets[player] = secret
}

func (t *SecretTable) Get(player string) (uint64, bool) {
	t.RLock()
	defer t.RUnlock()
	s, ok := t.secrets[player]
	return s, ok
}

func (t *SecretTable) Len() int {
	t.RLock()
	defer t.RUnlock()
	return len(t.secrets)
}

// SumMod returns the sum of all secrets modulo m without overflowing. A zero m yields 0.
func (t *SecretTable) SumMod(m uint64) uint64 {
	if m == 0 {
		return 0
	}
	t.RLock()
	defer t.RUnlock()

	var sum uint64
	for _, s := range t.secrets {
		s %= m
		if sum >= m-s {
			sum -= m - s
		} else {
			sum += s
		}
	}
	return sum
}
