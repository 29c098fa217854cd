package credentials

import (
	"embed"
	"io/fs"
)

// The release pipeline writes default_credentials.json into embedded/
// before compiling, so published binaries work without any setup. Source
// checkouts only carry the placeholder and the bundled source reports
// itself absent.
//
//go:embed all:embedded
var embeddedFS embed.FS

const bundledName = "embedded/default_credentials.json"

// Bundled serves the client document compiled into the binary, if any.
type Bundled struct {
	// FS overrides the compiled-in filesystem in tests.
	FS fs.FS
}

func (b Bundled) Describe() string { return "bundled default credentials" }

func (b Bundled) Load() ([]byte, error) {
	fsys := b.FS
	if fsys == nil {
		fsys = embeddedFS
	}
	data, err := fs.ReadFile(fsys, bundledName)
	if err != nil {
		return nil, ErrAbsent
	}
	return data, nil
}
