package llm

// FirstJSONObject returns the first top-level balanced JSON object embedded
// in s, markdown fences and prose included. It walks the bytes with a
// brace-depth counter; a naive regex cannot do this correctly once objects
// nest. Braces inside JSON strings are ignored by tracking the in-string
// and escape state. Returns ok=false when no object closes.
func FirstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
