package logger

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// consoleFormatter renders "[time] [LEVEL] [prefix]: message".
type consoleFormatter struct {
	colors bool
}

// Format implements logrus.Formatter
func (f *consoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	level := kindOf(entry)
	if !f.colors {
		return []byte(plainLine(entry)), nil
	}
	return []byte(fmt.Sprintf("[%s] [%s%s%s] [%s]: %s\n",
		timestamp(entry.Time),
		level.Color(),
		level.String(),
		colorReset,
		prefixOf(entry),
		entry.Message,
	)), nil
}

func plainLine(entry *logrus.Entry) string {
	return fmt.Sprintf("[%s] [%s] [%s]: %s\n",
		timestamp(entry.Time),
		kindOf(entry).String(),
		prefixOf(entry),
		entry.Message,
	)
}

// fileHook appends every entry to combined.log and errors to error.log
type fileHook struct {
	mu        sync.Mutex
	logFile   *os.File
	errorFile *os.File
}

func newFileHook(dir string) *fileHook {
	h := &fileHook{}

	var err error
	h.logFile, err = os.OpenFile(filepath.Join(dir, "combined.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("Error opening combined log file: %v\n", err)
	}

	h.errorFile, err = os.OpenFile(filepath.Join(dir, "error.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("Error opening error log file: %v\n", err)
	}

	return h
}

// Levels implements logrus.Hook
func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook
func (h *fileHook) Fire(entry *logrus.Entry) error {
	line := plainLine(entry)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.logFile != nil {
		h.logFile.WriteString(line)
	}
	if kindOf(entry) <= LevelError && h.errorFile != nil {
		h.errorFile.WriteString(line)
	}
	return nil
}

// Close closes both files
func (h *fileHook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.logFile != nil {
		h.logFile.Close()
		h.logFile = nil
	}
	if h.errorFile != nil {
		h.errorFile.Close()
		h.errorFile = nil
	}
}

// webhookHook forwards entries to the Discord webhooks
type webhookHook struct {
	errorWebhookURL string
	logsWebhookURL  string
	client          *http.Client
}

func newWebhookHook(errorWebhook, logsWebhook string) *webhookHook {
	return &webhookHook{
		errorWebhookURL: errorWebhook,
		logsWebhookURL:  logsWebhook,
		client:          &http.Client{Timeout: 5 * time.Second},
	}
}

// Levels implements logrus.Hook
func (h *webhookHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook
func (h *webhookHook) Fire(entry *logrus.Entry) error {
	level := kindOf(entry)
	url := h.urlFor(level)
	if url == "" {
		return nil
	}
	go h.send(url, level, entry.Message, prefixOf(entry))
	return nil
}

// urlFor picks the error webhook for ERROR and above, the logs webhook otherwise
func (h *webhookHook) urlFor(level LogLevel) string {
	if level <= LevelError {
		return h.errorWebhookURL
	}
	return h.logsWebhookURL
}

// send posts the log message as an embed
func (h *webhookHook) send(webhookURL string, level LogLevel, message, prefix string) {
	embed := map[string]interface{}{
		"title":       fmt.Sprintf("[%s] %s", level.String(), prefix),
		"description": fmt.Sprintf("```%s```", message),
		"color":       level.DiscordColor(),
		"timestamp":   time.Now().Format(time.RFC3339),
		"footer": map[string]string{
			"text": "💫 Developed by PancyStudio | DiscMod Go",
		},
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{embed},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest("POST", webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
}
