package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyMutexSerializesPerKey(t *testing.T) {
	km := NewKeyMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("a")
			counter++
			km.Unlock("a")
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestLockAllIsDeadlockFree(t *testing.T) {
	// Two goroutines acquiring the same keys in opposite order would deadlock
	// without the sorted acquisition LockAll performs.
	km := NewKeyMutex()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := km.LockAll([]string{"1/USDT", "2/USDT", "0/USDT"})
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := km.LockAll([]string{"2/USDT", "0/USDT", "1/USDT"})
			unlock()
		}()
	}
	wg.Wait()
}

func TestLockAllDeduplicatesKeys(t *testing.T) {
	// Settling to the platform account can list the same wallet twice; the
	// duplicate must not self-deadlock.
	km := NewKeyMutex()
	unlock := km.LockAll([]string{"0/USDT", "0/USDT"})
	unlock()
}
