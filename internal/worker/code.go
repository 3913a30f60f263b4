package worker

import (
	"math/rand"
	"strconv"
)

const (
	minCode = 1000
	maxCode = 9999
)

// GenerateCode returns a uniformly random 4-digit pickup code in [1000, 9999].
// intn must return a value in [0, n); nil uses math/rand.
func GenerateCode(intn func(n int) int) string {
	if intn == nil {
		intn = rand.Intn
	}
	return strconv.Itoa(minCode + intn(maxCode-minCode+1))
}
