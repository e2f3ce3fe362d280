package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

type Notification struct {
	Title string
	Body  string
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

// ExecDesktopNotifier shells out to the platform notifier. Unsupported
// platforms are a silent no-op.
type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func (m *Model) notifyDesktop(title, body string) {
	if !m.Config.DesktopNotifications || m.notifier == nil {
		return
	}
	_ = m.notifier.Send(Notification{Title: title, Body: body})
}
