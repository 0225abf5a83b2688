package config

import (
	"os"
	"os/user"
	"strings"
)

// ExpandPath resolves a leading ~ or ~/ and the ${HOME} and ${USER}
// variables in a path. ~name is left as is.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	if !strings.Contains(path, "${") {
		return path
	}
	return strings.NewReplacer("${HOME}", homeDir(), "${USER}", userName()).Replace(path)
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "~"
}

func userName() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "user"
}
