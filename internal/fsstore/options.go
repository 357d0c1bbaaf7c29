package fsstore

import "os"

const (
	defaultDirPerm  = 0o700
	defaultFilePerm = 0o600
)

// FileOptions controls the permissions used when a document (and its parent
// directory) is created. Zero values fall back to owner-only permissions.
type FileOptions struct {
	DirPerm  os.FileMode
	FilePerm os.FileMode
}

func normalizeFileOptions(opts FileOptions) FileOptions {
	if opts.DirPerm == 0 {
		opts.DirPerm = defaultDirPerm
	}
	if opts.FilePerm == 0 {
		opts.FilePerm = defaultFilePerm
	}
	return opts
}
