package utils

import "strings"

func StringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}

func KeyExists(m map[string]interface{}, key string) bool {
	_, ok := m[key]
	return ok
}

func GetLeadingStringInBetweenSquareBrackets(str string) (bracketString string, theRestString string) {
	var (
		start = "["
		end   = "]"
	)
	s := strings.Index(str, start)
	if s == -1 {
		return
	}

	// Assume that if the open bracket is not at index 0,
	// it's an open bracket for an array of some sort within the string rather
	// than a marker for a prepended status code (i.e. elasticsearch)
	if s > 0 {
		return "", str
	}

	s += len(start)
	e := strings.Index(str[s:], end)
	if e == -1 {
		return "", str
	}

	bracketString = str[s : s+e]
	theRestString = strings.TrimSpace(str[s+e+len(end):])
	return
}
