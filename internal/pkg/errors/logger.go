package errors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// trace is the diagnostic stream switched on by --verbose.
// Nothing is written while it is disabled.
type trace struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
	now     func() time.Time
}

var diag = &trace{out: os.Stderr, now: time.Now}

func (t *trace) printf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.enabled {
		return
	}
	fmt.Fprintf(t.out, "[%s] debug: %s\n", t.now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}

// SetVerbose turns diagnostic output on or off.
func SetVerbose(verbose bool) {
	diag.mu.Lock()
	defer diag.mu.Unlock()
	diag.enabled = verbose
}

// IsVerbose reports whether diagnostic output is on.
func IsVerbose() bool {
	diag.mu.Lock()
	defer diag.mu.Unlock()
	return diag.enabled
}

// SetOutput redirects diagnostic output.
func SetOutput(w io.Writer) {
	diag.mu.Lock()
	defer diag.mu.Unlock()
	diag.out = w
}

// Debug writes a diagnostic line in verbose mode.
func Debug(format string, args ...interface{}) {
	diag.printf(format, args...)
}

// LogAPIRequest records an outgoing model request. requestID pairs it
// with the matching LogAPIResponse line.
func LogAPIRequest(requestID, provider, endpoint, model string, promptBytes int) {
	diag.printf("%s request %s: endpoint=%s model=%s prompt_bytes=%d",
		provider, requestID, endpoint, model, promptBytes)
}

// LogAPIResponse records the outcome of a model request. status is 0 when
// no HTTP response arrived.
func LogAPIResponse(requestID, provider string, status, responseBytes int, elapsed time.Duration) {
	diag.printf("%s response %s: status=%d response_bytes=%d elapsed=%s",
		provider, requestID, status, responseBytes, elapsed.Round(time.Millisecond))
}

// LogCommand records an external command before it runs.
func LogCommand(name string, args ...string) {
	diag.printf("exec: %s", strings.Join(append([]string{name}, args...), " "))
}

// MaskAPIKey hides all but the last 4 characters of an API key.
func MaskAPIKey(apiKey string) string {
	if len(apiKey) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(apiKey)-4) + apiKey[len(apiKey)-4:]
}
