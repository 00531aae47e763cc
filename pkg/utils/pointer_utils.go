package utils

// SafeDeref safely dereferences a string pointer and returns empty string if nil
func SafeDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// DerefOr dereferences a string pointer, returning def if nil or empty
func DerefOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
