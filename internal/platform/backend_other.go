//go:build !linux && !windows

package platform

// New returns ErrUnsupported.
func New() (Backend, error) {
	return nil, ErrUnsupported
}
