package system

import (
    "os"
    "path/filepath"

    clog "github.com/charmbracelet/log"
)

// Logger is the shared application logger.
// It prints to stderr with timestamps enabled; the TUI redirects it to a file
// with SetLogFile while it owns the terminal.
var Logger = clog.NewWithOptions(os.Stderr, clog.Options{
    ReportTimestamp: true,
})

// SetLogFile redirects Logger to path (appending) and returns a closer.
func SetLogFile(path string) (func() error, error) {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return nil, err
    }
    f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
    if err != nil {
        return nil, err
    }
    Logger.SetOutput(f)
    return func() error {
        Logger.SetOutput(os.Stderr)
        return f.Close()
    }, nil
}

// SetDebug toggles debug-level logging.
func SetDebug(on bool) {
    if on {
        Logger.SetLevel(clog.DebugLevel)
        return
    }
    Logger.SetLevel(clog.InfoLevel)
}
