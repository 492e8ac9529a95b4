package i18n

import (
	"fmt"
	"strconv"
	"strings"
)

// Format substitutes positional placeholders ({0}, {1}, ...) in pattern with
// args. Placeholders without a matching argument are left untouched.
func Format(pattern string, args ...any) string {
	if len(args) == 0 || !strings.Contains(pattern, "{") {
		return pattern
	}
	var b strings.Builder
	b.Grow(len(pattern))
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '{' {
			b.WriteByte(pattern[i])
			continue
		}
		end := strings.IndexByte(pattern[i:], '}')
		if end < 0 {
			b.WriteString(pattern[i:])
			break
		}
		n, err := strconv.Atoi(pattern[i+1 : i+end])
		if err != nil || n < 0 || n >= len(args) {
			b.WriteByte('{')
			continue
		}
		if args[n] != nil {
			b.WriteString(fmt.Sprint(args[n]))
		}
		i += end
	}
	return b.String()
}
