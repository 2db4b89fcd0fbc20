package patch

import "errors"

// PreimageReader reads the previous version of a file by path. It is the
// core's only consumed collaborator besides the inflate and delta-decode
// functions.
//
// Implementations must return an error that errors.Is matches
// ErrPreimageNotFound when path does not exist, so callers can tell a
// missing preimage (a patch-level failure) apart from a transport failure.
type PreimageReader interface {
	Read(path string) ([]byte, error)
}

// PreimageReaderFunc adapts a function to a PreimageReader.
type PreimageReaderFunc func(path string) ([]byte, error)

func (f PreimageReaderFunc) Read(path string) ([]byte, error) {
	return f(path)
}

// ReadPreimage reads d's source contents through r and re-classifies a
// missing preimage as an ApplyFail, rather than surfacing the transport
// error directly: a missing preimage is a patch-level failure, not a
// transport failure. A pure addition (Status == Added with no old path)
// has no preimage to read and returns an empty buffer without consulting r.
func ReadPreimage(r PreimageReader, d *Delta) ([]byte, error) {
	if d.Status == Added && d.OldPath == "" {
		return []byte{}, nil
	}

	path := d.OldPath
	if path == "" {
		path = d.NewPath
	}

	src, err := r.Read(path)
	if err != nil {
		if errors.Is(err, ErrPreimageNotFound) {
			return nil, newApplyFail("no such preimage file: " + path)
		}
		return nil, err
	}
	return src, nil
}
