package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	K          int       `json:"k"`
	Sampler    string    `json:"sampler"`
	Distortion float64   `json:"distortion"`
	CreatedAt  time.Time `json:"created_at"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}
	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestInterop(t *testing.T) {
	in := sample{K: 8, Sampler: "kmeans++", Distortion: 12.5, CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}

	for _, enc := range []Codec{JSON{}, GoJSON{}} {
		data := MustMarshal(enc, in)
		for _, dec := range []Codec{JSON{}, GoJSON{}} {
			var out sample
			require.NoError(t, dec.Unmarshal(data, &out), "%s -> %s", enc.Name(), dec.Name())
			assert.Equal(t, in, out)
		}
	}
}

func BenchmarkCodec_Marshal(b *testing.B) {
	v := sample{K: 64, Sampler: "uniform", Distortion: 1234.5, CreatedAt: time.Now()}
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		b.Run(c.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := c.Marshal(v); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
