package constants

// Default server configuration values
const (
	DefaultServerPort            = 8080
	DefaultServerReadTimeoutSec  = 15
	DefaultServerWriteTimeoutSec = 15
	DefaultServerIdleTimeoutSec  = 60
	DefaultGracefulShutdownSec   = 30
	ServerErrorChannelSize       = 1
)

// Default retry and timeout values
const (
	DefaultProviderTimeoutSec    = 30
	DefaultProviderRetryCount    = 3
	DefaultDatabaseRetryAttempts = 3
	DefaultBackoffInitialMs      = 500
	DefaultBackoffMaxMs          = 60000
	DefaultMaxAttempts           = 5
)

// Default media upload values
const (
	DefaultMaxUploadSizeMB = 25
)

// Provider addressing
const (
	DefaultJIDSuffix = "@s.whatsapp.net"
)

// Encryption salts for key derivation. The encryption key itself always
// comes from the environment.
const (
	EncryptionSalt = "wacrm-secret-v1"
)

// Privacy settings
const (
	DefaultPhoneMaskLength = 4
)
