package theme

import (
	"bufio"
	"io"
	"strings"
)

// ParseKeyValue reads "key=value" lines into a map.
//
// The key is everything before the first '=' (surrounding whitespace
// trimmed) and the value is the rest of the line with a trailing '\r'
// removed. When a key repeats, the first occurrence wins. Blank lines,
// lines without '=', and lines starting with '#' are skipped.
func ParseKeyValue(r io.Reader) (map[string]string, error) {
	values := make(map[string]string)

	scanner := bufio.NewScanner(r)
	// Increase buffer size for long lines
	const maxLineSize = 1024 * 1024 // 1MB
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, seen := values[key]; seen {
			continue
		}
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return values, nil
}
