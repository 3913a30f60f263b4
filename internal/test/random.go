package test

import (
	"fmt"
	"math/rand"

	"github.com/polkiloo/driverdesk/internal/domain/model"
)

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns a pseudo-random ASCII string within the provided bounds.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen + rand.Intn(maxLen-minLen+1)
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = asciiLetters[rand.Intn(len(asciiLetters))]
	}
	return string(buf)
}

// RandomDriverID returns an identifier shaped like the store's driver ids.
func RandomDriverID() string {
	return fmt.Sprintf("drv-%s", RandomASCIIString(8, 8))
}

// Order builds a called order with the given acceptance state.
func Order(id int64, accepted bool, driverID *string) model.Order {
	return model.Order{
		ID:               id,
		Quantity:         float64(1 + rand.Intn(9)),
		Unit:             "box",
		Status:           "open",
		CalledDriver:     true,
		DriverAccepted:   accepted,
		AcceptedDriverID: driverID,
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
