// Package buildutil provides small helpers for build system integration.
package buildutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrMissingOutput reports an expected output path that no generated file
// matched.
var ErrMissingOutput = errors.New("expected output not generated")

// WriteDepfile writes a Make style dependency line mapping target to its
// inputs, the format gn and ninja expect from script outputs. Input paths
// are normalized to forward slashes.
func WriteDepfile(path, target string, inputs []string) error {
	deps := make([]string, len(inputs))
	for i, input := range inputs {
		deps[i] = filepath.ToSlash(input)
	}
	line := fmt.Sprintf("%s: %s\n", target, strings.Join(deps, " "))
	if err := os.WriteFile(path, []byte(line), 0644); err != nil {
		return fmt.Errorf("writing depfile: %w", err)
	}
	return nil
}

// Touch creates path if needed and refreshes its modification time.
func Touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("touching %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		return fmt.Errorf("touching %s: %w", path, err)
	}
	return nil
}

// AssertExpected verifies that every expected path appears among the actual
// output paths.
func AssertExpected(actual, expected []string) error {
	produced := make(map[string]struct{}, len(actual))
	for _, p := range actual {
		produced[p] = struct{}{}
	}
	var missing []string
	for _, p := range expected {
		if _, ok := produced[p]; !ok {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s (generated: %s)", ErrMissingOutput,
			strings.Join(missing, ", "), strings.Join(actual, ", "))
	}
	return nil
}
