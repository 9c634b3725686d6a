// +build windows

package daemon

import "fmt"

// SendProbeNow is unsupported on Windows; there is no user signal to carry
// the request across processes.
func SendProbeNow(string) error {
	return fmt.Errorf("probe-now signaling is not supported on windows; the next scheduled cycle will run as configured")
}
