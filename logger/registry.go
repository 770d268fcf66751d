package logger

import "sync"

// named caches one component logger per client name, so every client built
// from the same Config.Name shares a logger. It is emptied when the global
// logger changes.
var named sync.Map // string -> *Logger

// Get returns the logger for the named component, derived from the global
// logger on first use.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	l, _ := named.LoadOrStore(name, GetGlobalLogger().WithComponent(name))
	return l.(*Logger)
}

func resetNamed() {
	named.Range(func(k, _ any) bool {
		named.Delete(k)
		return true
	})
}
