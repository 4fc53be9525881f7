package utils

import (
	"crypto/rand"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/hashstructure"
	"github.com/oklog/ulid"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

// Ternary is a utility function that emulates a ternary operator
func Ternary(cond bool, a, b any) any {
	if cond {
		return a
	}
	return b
}

// ArrayContains checks if an element matching the condition exists in the array
// and returns its index
func ArrayContains[T any](array []T, match func(elem T) bool) (int, bool) {
	for idx, elem := range array {
		if match(elem) {
			return idx, true
		}
	}

	return -1, false
}

// ForEach runs fn sequentially over every element, stopping at the first error
func ForEach[T any](array []T, fn func(one T) error) error {
	for _, one := range array {
		if err := fn(one); err != nil {
			return err
		}
	}

	return nil
}

// MapKeys returns the keys of a map as a slice
func MapKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

// UnmarshalFile reads a JSON or YAML file into the given object; YAML is
// converted through sigs.k8s.io/yaml so both formats share json tags.
func UnmarshalFile(filePath string, dest any) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %s", filePath, err)
	}

	if err := yaml.Unmarshal(content, dest); err != nil {
		return fmt.Errorf("failed to unmarshal file %s: %s", filePath, err)
	}

	return nil
}

// IsValidSubcommand reports whether the argument names a registered subcommand
func IsValidSubcommand(available []*cobra.Command, sub string) bool {
	for _, command := range available {
		if sub == command.Use {
			return true
		}
	}
	return false
}

// ULID returns a lexicographically sortable unique ID, used to name reader threads
func ULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0)).String()
}

// GetKeysHash produces a stable hash over the record's primary key values
func GetKeysHash(record map[string]any, keys ...string) string {
	keyValues := make([]any, 0, len(keys))
	for _, key := range keys {
		keyValues = append(keyValues, record[key])
	}

	hash, err := hashstructure.Hash(keyValues, nil)
	if err != nil {
		// fall back to a plain string form; hashstructure only fails on
		// unsupported kinds which records never contain
		return strings.Join(func() []string {
			out := make([]string, 0, len(keyValues))
			for _, v := range keyValues {
				out = append(out, fmt.Sprintf("%v", v))
			}
			return out
		}(), ":")
	}

	return fmt.Sprintf("%d", hash)
}
