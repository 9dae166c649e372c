package helpers

import "strconv"

// FormatID renders a numeric entity id for keys, object paths and
// document ids.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseID parses a numeric entity id from a path or query parameter.
func ParseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
