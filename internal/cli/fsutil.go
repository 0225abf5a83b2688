package cli

import (
	"os"

	"github.com/zinspect/zinspect/internal/logger"
)

func readIfExists(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// restore puts back the file read by readIfExists, removing it when it did
// not exist.
func restore(path string, data []byte, existed bool) {
	var err error
	if existed {
		err = os.WriteFile(path, data, 0o644)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		logger.Default().Warn("failed to restore %s: %v", path, err)
	}
}
