package matrix

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/agbru/matcalc/internal/errors"
)

// MaxReadDim bounds the dimension accepted by Read.
const MaxReadDim = 1 << 15

// Write encodes m in the text format read by Read: the dimension on the
// first line, then one line per row with space-separated elements.
func Write(w io.Writer, m *Matrix) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", m.dim)
	buf := make([]byte, 0, 12*m.dim)
	for i := 0; i < m.dim; i++ {
		buf = buf[:0]
		for j := 0; j < m.dim; j++ {
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, int64(m.data[Offset(m.dim, i, j)]), 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read decodes a matrix written by Write. Blank lines and lines starting
// with '#' are ignored.
func Read(r io.Reader) (*Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	dim := -1
	var data []int32
	row := 0
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if dim < 0 {
			d, err := strconv.Atoi(text)
			if err != nil || d <= 0 || d > MaxReadDim {
				return nil, apperrors.ValidationError{Field: "dim", Message: fmt.Sprintf("line %d: expected a dimension in [1, %d], got %q", line, MaxReadDim, text)}
			}
			dim = d
			data = make([]int32, 0, min(dim*dim, 1<<20))
			continue
		}
		if row >= dim {
			return nil, apperrors.ValidationError{Field: "data", Message: fmt.Sprintf("line %d: more than %d rows", line, dim)}
		}
		fields := strings.Fields(text)
		if len(fields) != dim {
			return nil, apperrors.ValidationError{Field: "data", Message: fmt.Sprintf("line %d: expected %d values, got %d", line, dim, len(fields))}
		}
		for _, f := range fields {
			v, err := strconv.ParseInt(f, 10, 32)
			if err != nil {
				return nil, apperrors.ValidationError{Field: "data", Message: fmt.Sprintf("line %d: %q is not an int32", line, f)}
			}
			data = append(data, int32(v))
		}
		row++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if dim < 0 {
		return nil, apperrors.ValidationError{Field: "dim", Message: "empty input"}
	}
	return New(dim, data)
}
