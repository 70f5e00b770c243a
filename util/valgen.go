// Some helpers using closures to generate word values
package valgen

import "math/rand"

func MakeConstGen(constant int64) func() int64 {
	return func() int64 {
		return constant
	}
}

func MakeIncreasingGen(start int64) func() int64 {
	current := start
	return func() int64 {
		current++
		return current
	}
}

// MakeRandomGen returns values in [min, max], repeatable for a given seed.
func MakeRandomGen(seed, min, max int64) func() int64 {
	r := rand.New(rand.NewSource(seed))
	return func() int64 {
		return min + r.Int63n(max-min+1)
	}
}

// Take collects the next n values of gen.
func Take(gen func() int64, n int) []int64 {
	values := make([]int64, n)
	for i := range values {
		values[i] = gen()
	}
	return values
}
