// Command generate-golden writes the reference products used by the engine
// tests. Products are computed with a 64-bit accumulator truncated to int32,
// independently of the engine's row kernel.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/agbru/matcalc/internal/matrix"
)

// GoldenCase is one multiplication with its expected product.
type GoldenCase struct {
	Name    string  `json:"name"`
	Dim     int     `json:"dim"`
	Lhs     []int32 `json:"lhs"`
	Rhs     []int32 `json:"rhs"`
	Product []int32 `json:"product"`
}

// GoldenFile is the on-disk layout of testdata/golden.json.
type GoldenFile struct {
	Cases []GoldenCase `json:"cases"`
}

type randomCase struct {
	name  string
	dim   int
	limit int32
	seed  uint64
}

var randomCases = []randomCase{
	{"random 1x1 small", 1, 100, 1},
	{"random 2x2 small", 2, 100, 2},
	{"random 3x3 medium", 3, 1000, 3},
	{"random 5x5 negative cap", 5, -50, 4},
	{"random 8x8 full range", 8, math.MaxInt32, 5},
	{"random 13x13 medium", 13, 1000, 6},
}

func main() {
	out := flag.String("out", "internal/engine/testdata/golden.json", "output path")
	flag.Parse()

	file, err := build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate-golden: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate-golden: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		fmt.Fprintf(os.Stderr, "generate-golden: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d cases to %s\n", len(file.Cases), *out)
}

func build() (GoldenFile, error) {
	var file GoldenFile
	add := func(name string, dim int, lhs, rhs []int32) {
		file.Cases = append(file.Cases, GoldenCase{
			Name: name, Dim: dim, Lhs: lhs, Rhs: rhs,
			Product: referenceProduct(dim, lhs, rhs),
		})
	}

	add("2x2 scenario", 2, []int32{1, 2, 3, 4}, []int32{5, 6, 7, 8})
	add("3x3 scenario", 3, []int32{1, 2, 3, 4, 5, 6, 7, 8, 9}, []int32{9, 8, 7, 6, 5, 4, 3, 2, 1})
	add("identity times matrix", 3, matrix.Identity(3).Data(), []int32{2, -1, 0, 5, 7, -3, 11, 13, 17})
	add("1x1 scenario", 1, []int32{7}, []int32{6})
	add("1x1 wraps to zero", 1, []int32{65536}, []int32{65536})
	add("2x2 wraparound", 2,
		[]int32{math.MaxInt32, 1, math.MinInt32, -1},
		[]int32{2, math.MaxInt32, 3, math.MinInt32})

	for _, rc := range randomCases {
		lhs, err := matrix.Random(rc.dim, rc.limit, splitMix(rc.seed))
		if err != nil {
			return GoldenFile{}, err
		}
		rhs, err := matrix.Random(rc.dim, rc.limit, splitMix(rc.seed+1000))
		if err != nil {
			return GoldenFile{}, err
		}
		add(rc.name, rc.dim, lhs.Data(), rhs.Data())
	}
	return file, nil
}

// referenceProduct multiplies with an int64 accumulator and truncates each
// sum to int32. Modulo 2^32 this equals int32 wraparound accumulation.
func referenceProduct(dim int, lhs, rhs []int32) []int32 {
	product := make([]int32, dim*dim)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			var sum int64
			for k := 0; k < dim; k++ {
				sum += int64(lhs[i*dim+k]) * int64(rhs[k*dim+j])
			}
			product[i*dim+j] = int32(sum)
		}
	}
	return product
}

// splitMix is a SplitMix64 source. It is fixed here so the golden file does
// not depend on the standard library's generator implementations.
func splitMix(seed uint64) matrix.Source {
	state := seed
	return matrix.SourceFunc(func() int32 {
		state += 0x9e3779b97f4a7c15
		z := state
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z ^= z >> 31
		return int32(uint32(z))
	})
}
