package authentication

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemorySession(t *testing.T) {
	s := NewMemorySession("seed")
	assert.Equal(t, "seed", s.AccessToken())
	s.SetAccessToken("next")
	assert.Equal(t, "next", s.AccessToken())
	s.Clear()
	assert.Empty(t, s.AccessToken())
}

func TestSyncSession(t *testing.T) {
	s := NewSyncSession(NewMemorySession(""))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SetAccessToken("at")
			_ = s.AccessToken()
		}()
	}
	wg.Wait()
	assert.Equal(t, "at", s.AccessToken())
	s.Clear()
	assert.Empty(t, s.AccessToken())
}
