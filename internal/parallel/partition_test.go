package parallel

import (
	"reflect"
	"testing"
)

func TestPartition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		dim         int
		rowsPerTask int
		want        []RowRange
	}{
		{"one row per task", 3, 1, []RowRange{{0, 1}, {1, 2}, {2, 3}}},
		{"even split", 4, 2, []RowRange{{0, 2}, {2, 4}}},
		{"short tail", 5, 2, []RowRange{{0, 2}, {2, 4}, {4, 5}}},
		{"group larger than dim", 3, 10, []RowRange{{0, 3}}},
		{"non-positive group", 2, 0, []RowRange{{0, 1}, {1, 2}}},
		{"empty", 0, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Partition(tt.dim, tt.rowsPerTask); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Partition(%d, %d) = %v, want %v", tt.dim, tt.rowsPerTask, got, tt.want)
			}
		})
	}
}

func TestPartition_CoversEveryRowOnce(t *testing.T) {
	t.Parallel()
	for dim := 1; dim <= 40; dim++ {
		for rpt := 1; rpt <= dim+1; rpt++ {
			seen := make([]int, dim)
			for _, r := range Partition(dim, rpt) {
				if r.Len() <= 0 || r.Len() > rpt {
					t.Fatalf("dim=%d rpt=%d: bad range %v", dim, rpt, r)
				}
				for row := r.Start; row < r.End; row++ {
					seen[row]++
				}
			}
			for row, n := range seen {
				if n != 1 {
					t.Fatalf("dim=%d rpt=%d: row %d covered %d times", dim, rpt, row, n)
				}
			}
		}
	}
}
