//go:build !linux

package platform

// Open reports ErrUnsupported; only display enumeration through ScreenLister
// is available on this platform.
func Open(display string) (Backend, error) {
	return nil, ErrUnsupported
}
