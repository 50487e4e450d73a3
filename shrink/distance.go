// Package shrink implements shrinkable values and the resumable search that
// minimizes a falsifying sample.
package shrink

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Distance is a vector-valued complexity metric. Distances are compared
// lexicographically; a shorter vector is padded with zeros.
type Distance struct {
	dims []int64
}

// MinDistance is the minimal complexity.
var MinDistance = DistanceOf(0)

// DistanceOf creates a distance from its dimensions.
// Panics if a dimension is negative.
func DistanceOf(dims ...int64) Distance {
	for _, d := range dims {
		if d < 0 {
			panic(fmt.Sprintf("shrink: distance dimensions must not be negative: %v", dims))
		}
	}
	copied := make([]int64, len(dims))
	copy(copied, dims)
	return Distance{dims: copied}
}

// DistanceOfBig creates a one-dimensional distance from the absolute value of
// n, saturated at math.MaxInt64.
func DistanceOfBig(n *big.Int) Distance {
	abs := new(big.Int).Abs(n)
	if !abs.IsInt64() {
		return DistanceOf(math.MaxInt64)
	}
	return DistanceOf(abs.Int64())
}

// ForCollection computes the distance of a container: its size followed by the
// summed distances of its elements, so fewer elements always rank smaller.
func ForCollection[E any](elements []Shrinkable[E]) Distance {
	sum := MinDistance
	for _, e := range elements {
		sum = sum.Plus(e.Distance())
	}
	return DistanceOf(int64(len(elements))).Append(sum)
}

// Combine computes the distance of a combined value: the number of parts
// followed by the elementwise sum of the parts' distances.
func Combine(distances []Distance) Distance {
	sum := MinDistance
	for _, d := range distances {
		sum = sum.Plus(d)
	}
	return DistanceOf(int64(len(distances))).Append(sum)
}

// Dimensions returns a copy of the distance vector.
func (d Distance) Dimensions() []int64 {
	copied := make([]int64, len(d.dims))
	copy(copied, d.dims)
	return copied
}

// Compare returns -1, 0 or +1 comparing d with other lexicographically.
func (d Distance) Compare(other Distance) int {
	n := max(len(d.dims), len(other.dims))
	for i := 0; i < n; i++ {
		a, b := d.at(i), other.at(i)
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

// Less reports whether d is strictly smaller than other.
func (d Distance) Less(other Distance) bool {
	return d.Compare(other) < 0
}

// Equal reports whether d and other denote the same complexity.
func (d Distance) Equal(other Distance) bool {
	return d.Compare(other) == 0
}

// IsMin reports whether every dimension is zero.
func (d Distance) IsMin() bool {
	for _, v := range d.dims {
		if v != 0 {
			return false
		}
	}
	return true
}

// Plus adds two distances dimension by dimension, saturating on overflow.
func (d Distance) Plus(other Distance) Distance {
	n := max(len(d.dims), len(other.dims))
	sum := make([]int64, n)
	for i := 0; i < n; i++ {
		sum[i] = saturatingAdd(d.at(i), other.at(i))
	}
	return Distance{dims: sum}
}

// Append concatenates two distances. Used when combining independent
// components so that no dimension of one outweighs the other.
func (d Distance) Append(other Distance) Distance {
	appended := make([]int64, 0, len(d.dims)+len(other.dims))
	appended = append(appended, d.dims...)
	appended = append(appended, other.dims...)
	return Distance{dims: appended}
}

func (d Distance) String() string {
	parts := make([]string, len(d.dims))
	for i, v := range d.dims {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "Distance[" + strings.Join(parts, ":") + "]"
}

func (d Distance) at(i int) int64 {
	if i < len(d.dims) {
		return d.dims[i]
	}
	return 0
}

func saturatingAdd(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
