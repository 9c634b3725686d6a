package probes

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/user/devwatch/internal/model"
)

// checkPing runs the platform ping binary for a single echo. It is the
// platform-equivalent reachability check; raw ICMP would need privileges.
func (p *Prober) checkPing(ctx context.Context, host string) (model.Outcome, time.Duration, string) {
	// Give the child a little slack past the probe timeout so the binary's
	// own deadline fires first and we can read its output.
	runCtx, cancel := context.WithTimeout(ctx, p.timeout+time.Second)
	defer cancel()

	name, args := pingArgs(host, p.timeout)
	cmd := exec.CommandContext(runCtx, name, args...)
	hideWindow(cmd)

	start := time.Now()
	out, err := cmd.CombinedOutput()
	elapsed := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		return model.OutcomeOffline, 0, "ping timed out"
	}
	if err != nil && len(out) == 0 {
		// Could not run the binary at all.
		return model.OutcomeError, 0, err.Error()
	}

	ok, latency := parsePingOutput(string(out))
	if !ok {
		return model.OutcomeOffline, 0, firstLine(string(out))
	}
	if latency == 0 {
		latency = elapsed
	}
	return model.OutcomeOnline, latency, ""
}

var pingLatencyRe = regexp.MustCompile(`time[=<]([0-9.]+)\s*ms`)

var pingFailKeywords = []string{
	"timed out",
	"unreachable",
	"could not find host",
	"ttl expired",
	"general failure",
	"no route to host",
	"100% packet loss",
	"100.0% packet loss",
}

// parsePingOutput decides whether a single echo succeeded and extracts the
// reported round-trip time when present.
func parsePingOutput(out string) (bool, time.Duration) {
	lower := strings.ToLower(out)

	success := strings.Contains(lower, "bytes from") ||
		strings.Contains(lower, "reply from") ||
		strings.Contains(lower, "1 received") ||
		strings.Contains(lower, "1 packets received")

	for _, kw := range pingFailKeywords {
		if strings.Contains(lower, kw) {
			success = false
			break
		}
	}

	if !success {
		return false, 0
	}

	if m := pingLatencyRe.FindStringSubmatch(lower); m != nil {
		if d, err := time.ParseDuration(m[1] + "ms"); err == nil {
			return true, d
		}
	}
	return true, 0
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
