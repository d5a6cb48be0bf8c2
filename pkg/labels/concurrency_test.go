package labels

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// The store never starts goroutines of its own.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestConcurrentAddsGetUniqueIDs(t *testing.T) {
	s := NewStore()

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := s.Add(fmt.Sprintf("worker %d item %d", w, i), Neutral)
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	entries := s.Entries()
	require.Len(t, entries, workers*perWorker)

	// Insertion order equals id order.
	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.ID)
	}
}

func TestConcurrentMutationsAndReads(t *testing.T) {
	s := NewStore()
	for i := 0; i < 100; i++ {
		_, err := s.Add(fmt.Sprintf("seed %d", i), Sadness)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for id := int64(1); id <= 100; id += 2 {
			s.DeleteByID(id)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, _ = s.Add("late", Surprise)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			records, err := s.ExportRecords()
			if assert.NoError(t, err) {
				assert.NotEmpty(t, records)
			}
			_ = s.Count()
		}
	}()
	wg.Wait()

	assert.Equal(t, 100, s.Count())
	counts := s.LabelCounts()
	assert.Equal(t, 50, counts[Sadness])
	assert.Equal(t, 50, counts[Surprise])
}
