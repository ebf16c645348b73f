package services

import (
	"encoding/json"
	"strings"

	"github.com/mailpane/core/internal/database/models"
	"gorm.io/gorm"
)

// LogService handles activity logging operations
type LogService struct {
	db       *gorm.DB
	logLevel models.LogLevel
}

// NewLogService creates a new LogService instance
func NewLogService(db *gorm.DB) *LogService {
	return &LogService{
		db:       db,
		logLevel: models.LogLevelInfo, // Default log level
	}
}

// NewLogServiceWithLevel creates a new LogService instance with specified log level
func NewLogServiceWithLevel(db *gorm.DB, level string) *LogService {
	return &LogService{
		db:       db,
		logLevel: parseLogLevel(level),
	}
}

// parseLogLevel converts a string to LogLevel
func parseLogLevel(level string) models.LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return models.LogLevelDebug
	case "INFO":
		return models.LogLevelInfo
	case "WARN", "WARNING":
		return models.LogLevelWarn
	case "ERROR":
		return models.LogLevelError
	default:
		return models.LogLevelInfo
	}
}

// shouldLog checks if a log entry should be recorded based on log level
func (s *LogService) shouldLog(level models.LogLevel) bool {
	levelPriority := map[models.LogLevel]int{
		models.LogLevelDebug: 0,
		models.LogLevelInfo:  1,
		models.LogLevelWarn:  2,
		models.LogLevelError: 3,
	}

	return levelPriority[level] >= levelPriority[s.logLevel]
}

// LogEntry represents a log entry to be created
type LogEntry struct {
	Level   models.LogLevel
	Module  models.LogModule
	Action  string
	Message string
	Details interface{} // Will be serialized to JSON
}

// Log creates a new log entry
func (s *LogService) Log(entry LogEntry) error {
	// Check if this log level should be recorded
	if !s.shouldLog(entry.Level) {
		return nil
	}

	var detailsJSON string
	if entry.Details != nil {
		bytes, err := json.Marshal(entry.Details)
		if err != nil {
			detailsJSON = "{}"
		} else {
			detailsJSON = string(bytes)
		}
	}

	log := &models.Log{
		Level:   string(entry.Level),
		Module:  string(entry.Module),
		Action:  entry.Action,
		Message: entry.Message,
		Details: detailsJSON,
	}

	return s.db.Create(log).Error
}

// LogInfo creates an INFO level log entry
func (s *LogService) LogInfo(module models.LogModule, action, message string, details interface{}) error {
	return s.Log(LogEntry{
		Level:   models.LogLevelInfo,
		Module:  module,
		Action:  action,
		Message: message,
		Details: details,
	})
}

// LogWarn creates a WARN level log entry
func (s *LogService) LogWarn(module models.LogModule, action, message string, details interface{}) error {
	return s.Log(LogEntry{
		Level:   models.LogLevelWarn,
		Module:  module,
		Action:  action,
		Message: message,
		Details: details,
	})
}

// LogError creates an ERROR level log entry
func (s *LogService) LogError(module models.LogModule, action, message string, details interface{}) error {
	return s.Log(LogEntry{
		Level:   models.LogLevelError,
		Module:  module,
		Action:  action,
		Message: message,
		Details: details,
	})
}

// EmailChangeDetails represents details for email record changes
type EmailChangeDetails struct {
	EmailID uint   `json:"email_id"`
	Subject string `json:"subject,omitempty"`
}

// LogEmailCreated logs an email creation event
func (s *LogService) LogEmailCreated(emailID uint, subject string) error {
	return s.LogInfo(models.LogModuleEmail, "create", "Email created", EmailChangeDetails{
		EmailID: emailID,
		Subject: subject,
	})
}

// LogEmailUpdated logs an email update event
func (s *LogService) LogEmailUpdated(emailID uint, subject string) error {
	return s.LogInfo(models.LogModuleEmail, "update", "Email updated", EmailChangeDetails{
		EmailID: emailID,
		Subject: subject,
	})
}

// LogEmailDeleted logs an email deletion event
func (s *LogService) LogEmailDeleted(emailID uint, subject string) error {
	return s.LogInfo(models.LogModuleEmail, "delete", "Email deleted", EmailChangeDetails{
		EmailID: emailID,
		Subject: subject,
	})
}

// APIRequestDetails represents details for API request logs
type APIRequestDetails struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	StatusCode int    `json:"status_code"`
	Duration   int64  `json:"duration_ms"`
	ClientIP   string `json:"client_ip"`
	RequestID  string `json:"request_id,omitempty"`
}

// LogAPIRequest logs an API request. Client errors log as WARN and server
// errors as ERROR.
func (s *LogService) LogAPIRequest(method, path string, statusCode int, durationMs int64, clientIP, requestID string) error {
	level := models.LogLevelInfo
	if statusCode >= 400 && statusCode < 500 {
		level = models.LogLevelWarn
	} else if statusCode >= 500 {
		level = models.LogLevelError
	}

	return s.Log(LogEntry{
		Level:   level,
		Module:  models.LogModuleAPI,
		Action:  "request",
		Message: method + " " + path,
		Details: APIRequestDetails{
			Method:     method,
			Path:       path,
			StatusCode: statusCode,
			Duration:   durationMs,
			ClientIP:   clientIP,
			RequestID:  requestID,
		},
	})
}
