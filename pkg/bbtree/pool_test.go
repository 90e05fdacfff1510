package bbtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolObtainRecycle(t *testing.T) {
	p := NewPool[node](4)

	a := p.Obtain()
	a.hash = 7
	require.Equal(t, 1, p.Len())

	p.Recycle(a)
	require.Equal(t, 0, p.Len())

	b := p.Obtain()
	require.Equal(t, uint32(0), b.hash, "recycled record must come back zeroed")
}

func TestPoolSlabRollover(t *testing.T) {
	p := NewPool[node](2)

	var records []*node
	for i := 0; i < 5; i++ {
		records = append(records, p.Obtain())
	}
	require.Equal(t, 5, p.Len())
	require.Len(t, p.slabs, 3, "5 records at slabSize 2 should span 3 slabs")

	for _, r := range records {
		r.hash = 1
	}
	for i, r := range records {
		require.Equal(t, uint32(1), r.hash, "record %d should keep its written value until recycled", i)
	}
}

func TestPoolDestroy(t *testing.T) {
	p := NewPool[node](4)
	p.Obtain()
	p.Obtain()

	p.Destroy()
	require.Equal(t, 0, p.Len())

	// Usable again after Destroy.
	p.Obtain()
	require.Equal(t, 1, p.Len())
}
