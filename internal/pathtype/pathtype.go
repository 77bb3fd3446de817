// Package pathtype validates and classifies bookmark targets.
//
// A bookmark path can be a URL, a local file path, or a network location,
// expressed in any of the common URI and filesystem conventions (generic
// schemes, Windows UNC/device/extended-length paths, drive letters, Unix
// absolute paths, home-relative paths). Classification is an ordered rule
// table: the first matching rule wins, because several patterns overlap
// (a standard UNC path and a device path both start with a double
// backslash).
package pathtype

import "regexp"

// Type is the classified category of a bookmark path.
type Type string

const (
	TypeURL     Type = "url"
	TypeFile    Type = "file"
	TypeNetwork Type = "network"
)

type rule struct {
	name    string
	pattern *regexp.Regexp
	result  Type
}

// classifyRules is evaluated top to bottom; order matters. Device paths and
// extended-length drive paths classify as file despite the leading \\
// because they address local resources, not remote shares.
var classifyRules = []rule{
	{"http", regexp.MustCompile(`(?i)^https?://`), TypeURL},
	{"network scheme", regexp.MustCompile(`(?i)^(ftp|ftps|ssh|sftp|smb|dav|davs|nfs)://`), TypeNetwork},
	{"file URI with host", regexp.MustCompile(`(?i)^file://[^/]`), TypeNetwork},
	{"file URI", regexp.MustCompile(`(?i)^file://`), TypeFile},
	{"standard UNC", regexp.MustCompile(`^\\\\[^?\\.]`), TypeNetwork},
	{"extended UNC", regexp.MustCompile(`(?i)^\\\\\?\\UNC\\`), TypeNetwork},
	{"device path", regexp.MustCompile(`^\\\\\.\\`), TypeFile},
	{"extended drive path", regexp.MustCompile(`^\\\\\?\\[A-Za-z]:`), TypeFile},
	{"drive letter", regexp.MustCompile(`^[A-Za-z]:[\\/]`), TypeFile},
	{"absolute or home", regexp.MustCompile(`^[/~]`), TypeFile},
	{"custom scheme", regexp.MustCompile(`(?i)^[a-z][a-z0-9+.\-]*://`), TypeURL},
}

// validPatterns is a union, not a priority list: a path is acceptable if any
// pattern matches.
var validPatterns = []*regexp.Regexp{
	// Generic URI scheme (http, https, ftp, custom app schemes)
	regexp.MustCompile(`(?i)^[a-z][a-z0-9+.\-]*://`),
	// Standard UNC: \\server\share
	regexp.MustCompile(`^\\\\[^\\?]+\\[^\\]+`),
	// Extended-length UNC: \\?\UNC\server\share
	regexp.MustCompile(`(?i)^\\\\\?\\UNC\\[^\\]+\\[^\\]+`),
	// Device path: \\.\PhysicalDrive0
	regexp.MustCompile(`^\\\\\.\\`),
	// Extended-length drive path: \\?\C:\ (for paths over 260 chars)
	regexp.MustCompile(`^\\\\\?\\[A-Za-z]:\\`),
	// Drive letter: C:\ or C:/
	regexp.MustCompile(`^[A-Za-z]:[\\/]`),
}

// Validate reports whether path is an acceptable bookmark target.
// Bare relative paths and empty strings are rejected.
func Validate(path string) bool {
	for _, p := range validPatterns {
		if p.MatchString(path) {
			return true
		}
	}
	// Unix absolute path or home directory
	return len(path) > 0 && (path[0] == '/' || path[0] == '~')
}

// Classify maps path to url, file, or network. It never fails: a path
// matching no rule defaults to file.
func Classify(path string) Type {
	for _, r := range classifyRules {
		if r.pattern.MatchString(path) {
			return r.result
		}
	}
	return TypeFile
}
