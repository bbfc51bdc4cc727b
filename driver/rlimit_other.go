//go:build !linux

package driver

// withChildRlimits is a no-op off Linux: RLIMIT_AS has no portable
// equivalent across the other platforms this package might run on.
func withChildRlimits(start func() error) error {
	return start()
}
