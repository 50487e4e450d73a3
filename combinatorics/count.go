package combinatorics

import (
	"math"
	"math/big"
)

// Counts saturate at math.MaxInt64.

// ProductCount returns the size of the cartesian product of inputs of the
// given sizes.
func ProductCount(sizes ...int64) int64 {
	product := int64(1)
	for _, s := range sizes {
		if s == 0 {
			return 0
		}
		product = SaturatingMultiply(product, s)
	}
	return product
}

// ListCombinationsCount returns the number of tuples ListCombinations yields
// for n elements.
func ListCombinationsCount(n int64, minSize, maxSize int) int64 {
	total := int64(0)
	for size := max(minSize, 0); size <= maxSize; size++ {
		switch {
		case n == 1:
			return SaturatingAdd(total, int64(maxSize-size+1))
		case n == 0 && size > 0:
			return total
		}
		total = SaturatingAdd(total, SaturatingPow(n, size))
		if total == math.MaxInt64 {
			break
		}
	}
	return total
}

// SetCombinationsCount returns the number of combinations SetCombinations
// yields for n distinct elements.
func SetCombinationsCount(n int64, minSize, maxSize int) int64 {
	if n < int64(minSize) {
		return 0
	}
	total := int64(0)
	for size := max(minSize, 0); int64(size) <= n && size <= maxSize; size++ {
		total = SaturatingAdd(total, saturate(new(big.Int).Binomial(n, int64(size))))
	}
	return total
}

// PermutationsCount returns n!.
func PermutationsCount(n int64) int64 {
	if n > 20 {
		return math.MaxInt64
	}
	return saturate(new(big.Int).MulRange(1, n))
}

// SaturatingAdd adds two non-negative counts.
func SaturatingAdd(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// SaturatingMultiply multiplies two non-negative counts.
func SaturatingMultiply(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

// SaturatingPow returns base^exp for non-negative base.
func SaturatingPow(base int64, exp int) int64 {
	result := int64(1)
	for i := 0; i < exp; i++ {
		result = SaturatingMultiply(result, base)
		if result == math.MaxInt64 || result == 0 {
			return result
		}
	}
	return result
}

func saturate(n *big.Int) int64 {
	if !n.IsInt64() {
		return math.MaxInt64
	}
	return n.Int64()
}
