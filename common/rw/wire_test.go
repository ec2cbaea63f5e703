package rw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderWriter(t *testing.T) {
	w := NewWriter()
	w.WriteInt32(1, -7)
	w.WriteFloat64(2, 1.5)
	w.WriteString(3, "floor")
	w.WriteInt32s(4, []int32{0, -1, 300})
	w.WriteFloat64s(5, []float64{0.25, -2})
	w.WriteMessage(6, func(sub *ReaderWriter) {
		sub.WriteBool(1, true)
	})
	w.WriteUint64(99, 12345)

	r := NewReader(w.GetWriteBytes())
	seen := 0
	for {
		num, ok := r.Next()
		if !ok {
			break
		}
		switch num {
		case 1:
			assert.Equal(t, int32(-7), r.ReadInt32())
		case 2:
			assert.Equal(t, 1.5, r.ReadFloat64())
		case 3:
			assert.Equal(t, "floor", r.ReadString())
		case 4:
			assert.Equal(t, []int32{0, -1, 300}, r.ReadInt32s())
		case 5:
			assert.Equal(t, []float64{0.25, -2}, r.ReadFloat64s())
		case 6:
			sub := r.ReadMessage()
			n, ok := sub.Next()
			require.True(t, ok)
			assert.Equal(t, 1, int(n))
			assert.True(t, sub.ReadBool())
			require.NoError(t, sub.Err())
		default:
			r.Skip(num)
		}
		seen++
	}
	require.NoError(t, r.Err())
	assert.Equal(t, 7, seen)
}

func TestReaderErrors(t *testing.T) {
	w := NewWriter()
	w.WriteString(1, "x")
	r := NewReader(w.GetWriteBytes())
	_, ok := r.Next()
	require.True(t, ok)
	r.ReadFloat64()
	assert.Error(t, r.Err())
	_, ok = r.Next()
	assert.False(t, ok)

	r = NewReader([]byte{0x0a, 0x05, 'a'})
	_, ok = r.Next()
	require.True(t, ok)
	assert.Empty(t, r.ReadBytes())
	assert.Error(t, r.Err())
}
