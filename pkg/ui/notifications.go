package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"wallget/pkg/orchestrate"
)

// NotificationTitle is the title of every desktop notification
const NotificationTitle = "wallget"

// NotificationSender interface for platform-specific notification implementations
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	cmd := exec.Command("notify-send", title, message)
	return cmd.Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeQuotes(message), escapeQuotes(title))
	cmd := exec.Command("osascript", "-e", script)
	return cmd.Run()
}

// WindowsNotificationSender sends notifications on Windows using PowerShell
type WindowsNotificationSender struct{}

func (w *WindowsNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`
		[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
		[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
		$xml = @"
<toast>
	<visual>
		<binding template="ToastText02">
			<text id="1">%s</text>
			<text id="2">%s</text>
		</binding>
	</visual>
</toast>
"@
		$doc = [Windows.Data.Xml.Dom.XmlDocument]::new()
		$doc.LoadXml($xml)
		$toast = [Windows.UI.Notifications.ToastNotification]::new($doc)
		[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("wallget").Show($toast)
	`, title, message)

	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	return cmd.Run()
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Notifier handles cross-platform notifications
type Notifier struct {
	sender  NotificationSender
	console *Console
}

// NewNotifier creates a new Notifier based on the current platform
func NewNotifier(console *Console) *Notifier {
	var sender NotificationSender

	switch runtime.GOOS {
	case "linux":
		sender = &LinuxNotificationSender{}
	case "darwin":
		sender = &MacOSNotificationSender{}
	case "windows":
		sender = &WindowsNotificationSender{}
	}

	return NewNotifierWithSender(console, sender)
}

// NewNotifierWithSender creates a Notifier with an explicit sender. A nil
// sender only prints to the console.
func NewNotifierWithSender(console *Console, sender NotificationSender) *Notifier {
	if console == nil {
		console = NewConsole(nil, nil)
	}
	return &Notifier{sender: sender, console: console}
}

// SendSuccess prints a success line and sends a desktop notification
func (n *Notifier) SendSuccess(title, message string) {
	n.console.PrintSuccess(fmt.Sprintf("%s: %s", title, message))
	n.send(title, message)
}

// SendError prints an error line and sends a desktop notification
func (n *Notifier) SendError(title, message string) {
	n.console.PrintError(title, message)
	n.send(title, message)
}

// RunComplete notifies about a finished run
func (n *Notifier) RunComplete(summary *orchestrate.RunSummary) {
	if summary == nil {
		return
	}

	message := fmt.Sprintf("Saved %d new wallpapers, %d already present.", summary.Saved, summary.Existed)
	if summary.HasFailures() {
		n.SendError(NotificationTitle, fmt.Sprintf("%s %d failed.", message, summary.Failed))
		return
	}
	n.SendSuccess(NotificationTitle, message)
}

func (n *Notifier) send(title, message string) {
	if n.sender == nil {
		return
	}
	// Notifications are best effort
	_ = n.sender.Send(title, message)
}
