package platform

import (
	"errors"
	"os"
	"path/filepath"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/uwuw/pkg/core"
)

// getwd is swapped in tests to simulate an unavailable working directory.
var getwd = os.Getwd

// ResolvePath turns a user supplied file reference into an absolute path.
//
// At most one trailing whitespace character is stripped. An absolute path is
// otherwise returned unchanged; a relative one is prefixed with the working
// directory and a separator, without further cleaning.
func ResolvePath(raw string) (string, error) {
	p := trimTrailingSpace(raw)
	if p == "" {
		return "", &core.InvalidPathError{Path: raw, Err: errors.New("empty path")}
	}
	if filepath.IsAbs(p) {
		return p, nil
	}

	wd, err := getwd()
	if err != nil {
		return "", &core.InvalidPathError{Path: raw, Err: err}
	}
	if wd == "" {
		return "", &core.InvalidPathError{Path: raw, Err: errors.New("working directory unavailable")}
	}
	return wd + string(filepath.Separator) + p, nil
}

func trimTrailingSpace(s string) string {
	r, size := utf8.DecodeLastRuneInString(s)
	if size > 0 && unicode.IsSpace(r) {
		return s[:len(s)-size]
	}
	return s
}
