package credentials

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/michaellee1019/working-wheel/internal/logger"
)

// ErrAbsent is reported by a Source whose backing location does not exist.
// The resolver treats it as "try the next source"; every other load error
// is fatal.
var ErrAbsent = errors.New("credentials source absent")

// Source is one place a client credential document may come from.
type Source interface {
	// Describe names the source for log and error messages.
	Describe() string
	// Load returns the raw document bytes, or ErrAbsent when the source
	// has nothing to offer.
	Load() ([]byte, error)
}

// Resolved is the outcome of a successful resolution.
type Resolved struct {
	Doc    *Document
	Origin string
}

// Resolve walks sources in priority order and returns the first one that
// is present. Sources are never merged. A source that is present but
// unreadable or malformed fails the whole resolution; lower-priority
// sources must not mask it.
func Resolve(sources ...Source) (*Resolved, error) {
	for _, src := range sources {
		data, err := src.Load()
		if errors.Is(err, ErrAbsent) {
			logger.Debug("credentials source absent", "source", src.Describe())
			continue
		}
		if err != nil {
			return nil, (&ConfigError{Source: src.Describe()}).WithCause(err)
		}
		doc, err := Parse(data)
		if err != nil {
			return nil, (&ConfigError{Source: src.Describe()}).WithCause(err)
		}
		logger.Info("resolved client credentials", "source", src.Describe())
		return &Resolved{Doc: doc, Origin: src.Describe()}, nil
	}

	checked := make([]string, 0, len(sources))
	for _, src := range sources {
		checked = append(checked, src.Describe())
	}
	return nil, &NoCredentialsError{Checked: checked}
}

// File is a source backed by a file path. Strict files are user-supplied:
// a missing strict file is an error, never an absence.
type File struct {
	Path   string
	Strict bool
}

func (f File) Describe() string { return f.Path }

func (f File) Load() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) && !f.Strict {
			return nil, ErrAbsent
		}
		return nil, err
	}
	return data, nil
}

// DefaultSources builds the standard chain: the explicit path first when
// one was given, then credentials.json in workDir, then the document
// bundled into the binary if the build embedded one.
func DefaultSources(explicitPath, workDir string) []Source {
	var sources []Source
	if explicitPath != "" {
		sources = append(sources, File{Path: explicitPath, Strict: true})
	}
	sources = append(sources,
		File{Path: filepath.Join(workDir, "credentials.json")},
		Bundled{},
	)
	return sources
}
