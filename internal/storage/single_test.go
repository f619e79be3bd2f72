package storage_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/Vadimur/RockPaperScissorsGame/internal/storage"
)

func TestSingle_EmptyByDefault(t *testing.T) {
	s := storage.NewSingle[string]()
	v, ok := s.Get()
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSingle_UpdateAndClear(t *testing.T) {
	s := storage.NewSingle[string]()
	s.Update("room-1")
	v, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, "room-1", v)

	s.Clear()
	_, ok = s.Get()
	assert.False(t, ok)
}

func TestSingle_ConcurrentUpdates(t *testing.T) {
	s := storage.NewSingle[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(i)
			_, _ = s.Get()
		}()
	}
	wg.Wait()
	v, ok := s.Get()
	assert.True(t, ok)
	assert.GreaterOrEqual(t, v, 0)
	assert.Less(t, v, 50)
}

// Property: Get always returns the most recent Update.
func TestPropertySingle_LastWriteWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		values := rapid.SliceOfN(rapid.String(), 1, 20).Draw(t, "values")
		s := storage.NewSingle[string]()
		for _, v := range values {
			s.Update(v)
		}
		got, ok := s.Get()
		assert.True(t, ok)
		assert.Equal(t, values[len(values)-1], got)
	})
}
