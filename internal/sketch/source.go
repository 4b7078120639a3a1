// Package sketch materializes firmware sketch sources into staging directories
// and locates their entry files.
package sketch

// Source identifies where a sketch's code comes from. Exactly one concrete
// variant exists per sketch; catalog records and local additions are the only
// producers.
type Source interface {
	// Describe returns a short human-readable identifier for logging.
	Describe() string

	isSource()
}

// RemoteGit is a sketch hosted in a remote git repository.
type RemoteGit struct {
	URL string
}

func (s RemoteGit) Describe() string { return s.URL }
func (RemoteGit) isSource()          {}

// LocalFile is a sketch given as a single local entry source file.
type LocalFile struct {
	Path string
}

func (s LocalFile) Describe() string { return s.Path }
func (LocalFile) isSource()          {}
