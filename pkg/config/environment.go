package config

import (
	"os"
	"os/user"
	"runtime"

	"github.com/vinisalazar/bioprov/pkg/model"
)

// CaptureEnvironment fingerprints the current process context once. The
// returned value is threaded explicitly through runs; nothing re-reads the
// process environment afterwards, so all runs of one invocation share one
// agent.
func CaptureEnvironment(libraries map[string]string) *model.Environment {
	username := "unknown"
	if u, err := user.Current(); err == nil && u.Username != "" {
		username = u.Username
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	return model.NewEnvironment(username, hostname, runtime.GOOS, libraries)
}
