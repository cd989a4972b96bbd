package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatLocks_SerializesOneChat(t *testing.T) {
	var locks chatLocks
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock(1)
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Zero(t, locks.len(), "после освобождения мьютекс чата удаляется")
}

func TestChatLocks_ReleasedAfterUse(t *testing.T) {
	var locks chatLocks

	for chat := int64(1); chat <= 100; chat++ {
		unlock := locks.lock(chat)
		unlock()
	}
	assert.Zero(t, locks.len())

	unlock := locks.lock(7)
	assert.Equal(t, 1, locks.len())
	unlock()
	assert.Zero(t, locks.len())
}
