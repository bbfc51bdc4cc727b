package driver

import "syscall"

// withChildRlimits narrows the calling process's CPU-time and address-space
// limits for the duration of start, so that an exec'd child inherits the
// tighter limits, then restores the driver's own limits immediately
// afterwards. This mirrors the resource.setrlimit(..., preexec_fn=...) guard
// the original web wrapper applied around the compiled binary, moved into
// the process that actually does the running.
func withChildRlimits(start func() error) error {
	const cpuSeconds = 3
	const addressSpaceBytes = 256 << 20

	var prevCPU, prevAS syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_CPU, &prevCPU); err != nil {
		return start()
	}
	if err := syscall.Getrlimit(syscall.RLIMIT_AS, &prevAS); err != nil {
		return start()
	}

	cpu := syscall.Rlimit{Cur: cpuSeconds, Max: prevCPU.Max}
	as := syscall.Rlimit{Cur: addressSpaceBytes, Max: prevAS.Max}
	syscall.Setrlimit(syscall.RLIMIT_CPU, &cpu)
	syscall.Setrlimit(syscall.RLIMIT_AS, &as)

	err := start()

	syscall.Setrlimit(syscall.RLIMIT_CPU, &prevCPU)
	syscall.Setrlimit(syscall.RLIMIT_AS, &prevAS)

	return err
}
