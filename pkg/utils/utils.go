package utils

import (
	"os"

	"github.com/shopspring/decimal"
)

// FileExists checks if a file exists.
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists.
func DirExists(dirname string) bool {
	info, err := os.Stat(dirname)
	if os.IsNotExist(err) {
		return false
	}
	return info.IsDir()
}

// EnsureDir ensures that a directory exists, creating it if necessary.
func EnsureDir(dirname string) error {
	if DirExists(dirname) {
		return nil
	}
	return os.MkdirAll(dirname, 0755)
}

// FloorTo rounds value toward zero to the nearest multiple of increment.
// A non-positive increment returns the value unchanged.
func FloorTo(value, increment decimal.Decimal) decimal.Decimal {
	if increment.Sign() <= 0 {
		return value
	}
	steps := value.Div(increment).Truncate(0)
	return steps.Mul(increment)
}

// Contains checks if a slice contains a specific item.
func Contains[T comparable](slice []T, item T) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// Filter filters a slice based on a predicate function.
func Filter[T any](slice []T, predicate func(T) bool) []T {
	var result []T
	for _, item := range slice {
		if predicate(item) {
			result = append(result, item)
		}
	}
	return result
}
