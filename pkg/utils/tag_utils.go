package utils

// HasTag checks if a resource has a tag with the given key
func HasTag(tags map[string]string, key string) bool {
	_, ok := tags[key]
	return ok
}

// HasAnyTag returns the first of keys present on the resource
func HasAnyTag(tags map[string]string, keys []string) (string, bool) {
	for _, key := range keys {
		if HasTag(tags, key) {
			return key, true
		}
	}
	return "", false
}
