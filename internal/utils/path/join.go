package pathutils

import (
	"os"
	"strings"
)

const forwardSlashConstant = "/"

// JoinVerbatim appends name to directory with a single separator and no lexical cleaning.
// Prefixes such as `./` and segments such as `..` survive, unlike filepath.Join.
func JoinVerbatim(directory string, name string) string {
	if len(directory) == 0 {
		return name
	}
	if strings.HasSuffix(directory, forwardSlashConstant) || strings.HasSuffix(directory, string(os.PathSeparator)) {
		return directory + name
	}
	return directory + string(os.PathSeparator) + name
}

// ParentVerbatim returns everything before the last separator of path without cleaning it.
// A bare name yields `.`; the separator is kept when it is the only character before the name.
// The boolean is false for an empty path or a path ending in a separator, which names no file.
func ParentVerbatim(path string) (string, bool) {
	if len(path) == 0 {
		return "", false
	}
	separatorIndex := strings.LastIndexAny(path, forwardSlashConstant+string(os.PathSeparator))
	switch {
	case separatorIndex < 0:
		return ".", true
	case separatorIndex == len(path)-1:
		return "", false
	case separatorIndex == 0:
		return path[:1], true
	default:
		return path[:separatorIndex], true
	}
}
