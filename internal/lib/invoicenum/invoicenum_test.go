package invoicenum

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type atomicSeq struct {
	n int64
}

func (s *atomicSeq) NextInvoiceSeq(_ context.Context) (int64, error) {
	return atomic.AddInt64(&s.n, 1), nil
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{name: "первый номер", n: 1, want: "INV-00000001"},
		{name: "шестизначное значение", n: 123456, want: "INV-00123456"},
		{name: "переполнение ширины не обрезается", n: 123456789, want: "INV-123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.n))
		})
	}
}

func TestFormat_SortableByCreationOrder(t *testing.T) {
	prev := Format(1)
	for n := int64(2); n < 2000; n++ {
		cur := Format(n)
		assert.Less(t, prev, cur)
		prev = cur
	}
}

func TestGenerator_Next_ConcurrentUnique(t *testing.T) {
	const callers = 100

	gen := New(&atomicSeq{})

	var mu sync.Mutex
	seen := make(map[string]struct{}, callers)

	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := gen.Next(context.Background())
			require.NoError(t, err)
			mu.Lock()
			seen[num] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, callers)
}
