// Package notifier delivers user-facing notifications through a companion
// tray app. The tray advertises itself with a lockfile (port|pid|secret);
// the PID is validated against the live process table before anything is
// sent so a stale lockfile can never make us POST secrets to a stranger's
// port.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/codeGROOVE-dev/retry"
	"github.com/mitchellh/go-ps"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/logger"
	"github.com/strideapp/stride/internal/models"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// Dispatcher is the autopilot's notification seam. Implementations must be
// fire-and-forget safe: a failed delivery may be logged but must not block
// scheduling.
type Dispatcher interface {
	// ScheduleApprovalPrompt tells the user a walk is waiting for approval.
	ScheduleApprovalPrompt(walk models.AutopilotWalk) error
	// ScheduleSummary reports the outcome of a scheduling run.
	ScheduleSummary(walks []models.AutopilotWalk) error
	Notify(text string) error
}

// TrayNotifier posts webhook notifications to the local tray app.
type TrayNotifier struct{}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func New() *TrayNotifier {
	return &TrayNotifier{}
}

// Detect returns the dispatcher for this machine: the tray notifier when a
// tray lockfile is present, LogDispatcher otherwise. The probe only checks
// for the lockfile; Notify still validates the process behind it per call.
func Detect() Dispatcher {
	trayConfigDir, err := TrayConfigDir()
	if err == nil {
		if _, err := os.Stat(filepath.Join(trayConfigDir, constants.NotifierLockfileName)); err == nil {
			return New()
		}
	}
	logger.Debug("stride-tray not detected, notifications go to the log")
	return LogDispatcher{}
}

func (n *TrayNotifier) Notify(text string) error {
	payload := WebhookPayload{
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	}

	return retry.Do(
		func() error {
			trayConfigDir, err := TrayConfigDir()
			if err != nil {
				return retry.Unrecoverable(err)
			}
			port, secret, err := findAndValidateTrayProcess(filepath.Join(trayConfigDir, constants.NotifierLockfileName))
			if err != nil {
				// A missing or invalid tray will not appear between attempts.
				return retry.Unrecoverable(err)
			}
			return sendNotification(port, secret, payload)
		},
		retry.Attempts(constants.NotifyMaxRetries),
		retry.Delay(constants.NotifyRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

func (n *TrayNotifier) ScheduleApprovalPrompt(walk models.AutopilotWalk) error {
	return n.Notify(approvalPromptText(walk))
}

func (n *TrayNotifier) ScheduleSummary(walks []models.AutopilotWalk) error {
	if len(walks) == 0 {
		return nil
	}
	return n.Notify(summaryText(walks))
}

// TrayConfigDir returns the configuration directory used by the tray app.
func TrayConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	// Check for settings.json to see if a custom lockfile dir is set
	settingsPath := filepath.Join(trayConfigDir, "settings.json")
	if _, err := os.Stat(settingsPath); err == nil {
		data, err := os.ReadFile(settingsPath)
		if err == nil {
			var store struct {
				Settings struct {
					LockfileDir *string `json:"lockfile_dir"`
				} `json:"settings"`
			}
			if err := json.Unmarshal(data, &store); err == nil {
				if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
					return *store.Settings.LockfileDir, nil
				}
			}
		}
	}

	return trayConfigDir, nil
}

func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", errors.New("stride-tray is not running")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := parts[0]
	if strings.TrimSpace(port) == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	// Validate port is a valid number in the valid TCP range (1-65535)
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", errors.New("stride-tray process not running")
	}

	if !strings.HasPrefix(process.Executable(), "stride-tray") {
		return "", "", fmt.Errorf("process with PID %d is not stride-tray (is %s)", pid, process.Executable())
	}

	return port, secret, nil
}

func sendNotification(port string, secret string, payload WebhookPayload) error {
	url := fmt.Sprintf("http://127.0.0.1:%s", port)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Stride-Secret", secret)

	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}

func approvalPromptText(walk models.AutopilotWalk) string {
	return fmt.Sprintf("Walk pending approval: %d min %s at %s on %s. Run 'stride autopilot review' to confirm.",
		walk.DurationMin, walkLabel(walk.Type), walk.StartTime.Format(constants.TimeFormat), walk.Date)
}

func summaryText(walks []models.AutopilotWalk) string {
	times := make([]string, len(walks))
	for i, w := range walks {
		times[i] = fmt.Sprintf("%s (%d min)", w.StartTime.Format(constants.TimeFormat), w.DurationMin)
	}
	noun := "walks"
	if len(walks) == 1 {
		noun = "walk"
	}
	return fmt.Sprintf("Autopilot scheduled %d %s for %s: %s",
		len(walks), noun, walks[0].Date, strings.Join(times, ", "))
}

func walkLabel(t models.ActivityType) string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// LogDispatcher is the fallback when no tray app is installed. Notifications
// land in the log instead of failing the caller.
type LogDispatcher struct{}

func (LogDispatcher) Notify(text string) error {
	logger.Info("notification", "text", text)
	return nil
}

func (LogDispatcher) ScheduleApprovalPrompt(walk models.AutopilotWalk) error {
	logger.Info("notification", "text", approvalPromptText(walk))
	return nil
}

func (LogDispatcher) ScheduleSummary(walks []models.AutopilotWalk) error {
	if len(walks) == 0 {
		return nil
	}
	logger.Info("notification", "text", summaryText(walks))
	return nil
}
