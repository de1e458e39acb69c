package words

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var alphaPattern = regexp.MustCompile(`^[a-z]+$`)

// ReadLines returns the raw lines of r.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return lines, nil
}

// ReadFile returns the raw lines of the file at path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list %s: %w", path, err)
	}
	defer f.Close()
	return ReadLines(f)
}

// Normalize trims and lowercases a token.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsAlpha reports whether s is non-empty and made only of a-z.
func IsAlpha(s string) bool {
	return alphaPattern.MatchString(s)
}

// DistinctLetters returns the number of different runes in s.
func DistinctLetters(s string) int {
	seen := make(map[rune]struct{}, len(s))
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}
