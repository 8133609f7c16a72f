package constants

import "time"

const (
	AppName             = "daystreak"
	DefaultKeyringUser  = "database-connection"
	DefaultConfigPath   = "~/.config/daystreak/daystreak.db"
	DefaultSettingsFile = "config.yaml"
	Version             = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Challenge defaults
	DefaultChallengeName = "75 Day Challenge"
	DefaultDuration      = 75
	DefaultWeeklyTarget  = 3
	MinWeeklyTarget      = 1
	MaxWeeklyTarget      = 7
	DaysPerWeek          = 7

	// ProvisionalIDPrefix marks completions the store has not confirmed yet
	ProvisionalIDPrefix = "temp-"

	// Local storage constants
	LocalStoreFileName = "local.json"
	LocalLockFileName  = "local.lock"
	QueueKey           = "offline_completions_queue"
	SessionUserKey     = "session_user"
	SnapshotKey        = "challenge_snapshot"
	ConnectionEnvVar   = "DAYSTREAK_DB_CONNECTION"
	PingTimeout        = 3 * time.Second

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "daystreak-"
	BackupFileSuffix = ".db"
)

// DurationPresets are the challenge lengths offered by the setup form.
var DurationPresets = []int{21, 30, 60, 75, 90, 100}
