package vectorsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/vecclust/distance"
)

// ReadCSV parses one vector per record. Empty fields are rejected; records may
// differ in length, which the clustering engine reports as a dimension mismatch.
func ReadCSV[T distance.Float](r io.Reader) (*Dense[T], error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	bits := int(ValueTypeOf[T]().Size() * 8)

	var vectors [][]T
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		vec := make([]T, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), bits)
			if err != nil {
				line, col := cr.FieldPos(i)
				return nil, fmt.Errorf("vectorsource: line %d column %d: %w", line, col, err)
			}
			vec[i] = T(v)
		}
		vectors = append(vectors, vec)
	}
	return NewDense(vectors), nil
}
