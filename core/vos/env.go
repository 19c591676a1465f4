package vos

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Variables the shell and its builtins read.
const (
	EnvHome = "HOME"
	EnvPath = "PATH"
	EnvUser = "USER"
)

// VEnv holds environment variables, it mirrors the env functions of package os.
type VEnv interface {
	Unsetenv(key string) error
	Setenv(key, value string) error
	// LookupEnv reports whether key is set, its value may be empty.
	LookupEnv(key string) (string, bool)
	// Getenv returns the value of key or the empty string if it's unset.
	Getenv(key string) string
	// Environ returns a copy of the environment as "key=value" entries.
	Environ() []string
}

// CopyEnv sets every "key=value" entry of environ in dst. An entry without
// '=' sets an empty value.
func CopyEnv(dst VEnv, environ []string) error {
	for _, kv := range environ {
		key, value, _ := strings.Cut(kv, "=")
		if err := dst.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}

// MapEnv is an in-memory VEnv, the zero value is an empty environment.
type MapEnv struct {
	mu   sync.RWMutex
	vars map[string]string
}

var _ VEnv = (*MapEnv)(nil)

// NewMapEnv creates an empty environment.
func NewMapEnv() *MapEnv {
	return &MapEnv{}
}

// NewMapEnvFromEnvList creates an environment from "key=value" entries,
// dropping entries with an invalid key.
func NewMapEnvFromEnvList(environ []string) *MapEnv {
	env := NewMapEnv()
	for _, kv := range environ {
		key, value, _ := strings.Cut(kv, "=")
		_ = env.Setenv(key, value)
	}
	return env
}

func (m *MapEnv) Unsetenv(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vars, key)
	return nil
}

// Setenv rejects the keys os.Setenv rejects: empty ones and ones holding '='
// or NUL.
func (m *MapEnv) Setenv(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\x00") {
		return fmt.Errorf("setenv %q: invalid key", key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vars == nil {
		m.vars = make(map[string]string)
	}
	m.vars[key] = value
	return nil
}

func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.vars[key]
	return value, ok
}

func (m *MapEnv) Getenv(key string) string {
	value, _ := m.LookupEnv(key)
	return value
}

// Environ is sorted by key.
func (m *MapEnv) Environ() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.vars))
	for key, value := range m.vars {
		out = append(out, key+"="+value)
	}
	sort.Strings(out)
	return out
}

// hostEnv is the environment of the running process.
type hostEnv struct{}

var _ VEnv = hostEnv{}

func (hostEnv) Unsetenv(key string) error           { return os.Unsetenv(key) }
func (hostEnv) Setenv(key, value string) error      { return os.Setenv(key, value) }
func (hostEnv) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }
func (hostEnv) Getenv(key string) string            { return os.Getenv(key) }
func (hostEnv) Environ() []string                   { return os.Environ() }
