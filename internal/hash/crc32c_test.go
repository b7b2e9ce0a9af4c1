package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	// RFC 3720 test vector: 32 bytes of zeros
	assert.Equal(t, uint32(0x8a9136aa), CRC32C(make([]byte, 32)))

	data := []byte("centroids and counts")
	h := NewCRC32C()
	_, _ = h.Write(data[:9])
	_, _ = h.Write(data[9:])
	assert.Equal(t, CRC32C(data), h.Sum32())
}
