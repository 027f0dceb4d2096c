package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used by the push command.
var UserAgent = "Go-WV58A/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go WV-58A"
	AppID             = "com.github.tartampluch.go-wv58a"
	KeyringService    = "com.github.tartampluch.go-wv58a"
	KeyringPairingKey = "pairing-token"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	IconFile          = "icon.png"
	CLIName           = "go-wv58a"
	CLIDescription    = "Casio WV-58A style watch face with phone-pushed settings"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// FilePermPublicR is used for rendered PNG snapshots.
	FilePermPublicR fs.FileMode = 0644

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagDescDebug       = "Enable debug logging to stdout."
	FlagDescListen      = "Address the configuration server binds to."
	FlagDescPort        = "Port of the configuration server."
	FlagDescNATSURL     = "NATS server URL for configuration messages (disabled when empty)."
	FlagDescNATSSubject = "NATS subject carrying configuration messages."
	FlagDescPowerRoot   = "Root of the power supply sysfs tree."
	FlagDescOut         = "Output PNG path."
	FlagDescAt          = "Render at this RFC3339 time instead of now."
	FlagDescURL         = "Base URL of the running watch face."
	FlagDescToken       = "Pairing token shown in the watch settings window."
	FlagDescFormat      = "Date format: usa1, usa2, eng, ger or fra."
	FlagDescInvert      = "Invert the face (white on black)."
	FlagDescVibrate     = "Vibrate on the hour."
	FlagDesc24h         = "Use the 24-hour clock."
	FlagDescBattery     = "Battery percentage to draw."
	FlagDescCharging    = "Draw the charging sprite."
	FlagDescConnected   = "Draw the bluetooth mark."
	CmdDescRun          = "Show the watch face and listen for configuration messages."
	CmdDescRender       = "Render a single face to a PNG file."
	CmdDescPush         = "Send options to a running watch face."
	CmdDescVersion      = "Print version information."
	MsgVersionOutput    = "%s version %s (commit %s, built %s) %s/%s\n"
	MsgCLIError         = "Error: %v\n"
	DefaultWatchURL     = "http://127.0.0.1:18058"
)

// -----------------------------------------------------------------------------
// Persisted Preference Keys
// -----------------------------------------------------------------------------

const (
	PrefInvert        = "invert"
	PrefVibrateHourly = "vibrate_hourly"
	PrefDateFormat    = "date_format"
	PrefClock24h      = "clock_24h"
	PrefLanguage      = "language"
	PrefServerPort    = "server_port"
	PrefLastRun       = "last_run_version"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr", "de"}

// -----------------------------------------------------------------------------
// Inbound Configuration Message Keys
// -----------------------------------------------------------------------------

const (
	MsgKeyInvert        = "invert"
	MsgKeyVibrateHourly = "vibrateHourly"
	MsgKeyDateFormat    = "dateFormat"

	// Numeric aliases for the three keys, as sent by older phone clients.
	MsgKeyInvertNum        = "1"
	MsgKeyVibrateHourlyNum = "2"
	MsgKeyDateFormatNum    = "3"

	// MsgValueYes is the only value that enables a boolean setting.
	MsgValueYes = "yes"
	MsgValueNo  = "no"

	// Date format wire names.
	WireUSA1 = "usa1"
	WireUSA2 = "usa2"
	WireENG  = "eng"
	WireGER  = "ger"
	WireFRA  = "fra"
)

// -----------------------------------------------------------------------------
// Defaults
// -----------------------------------------------------------------------------

const (
	DefaultInvert        = false
	DefaultVibrateHourly = false
	DefaultDateFormat    = 1 // usa2
	DefaultClock24h      = false
	DefaultLanguage      = "en"
	DefaultPort          = "18058"
	DefaultNATSSubject   = "wv58a.config"
	DefaultPowerRoot     = "/sys/class/power_supply"
	DefaultRenderOut     = "face.png"

	// DSTCheckHour is the hour at which the DST mark is re-evaluated outside minute rollovers.
	DSTCheckHour = 4

	// BatteryFullPercent is reported when no battery is present.
	BatteryFullPercent = 100
)

// -----------------------------------------------------------------------------
// Timing
// -----------------------------------------------------------------------------

const (
	TickInterval       = 1 * time.Second
	SensorPollInterval = 5 * time.Second
	VibePulse          = 100 * time.Millisecond
	HTTPTimeout        = 10 * time.Second
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	NATSConnectTimeout = 5 * time.Second
	NATSReconnectWait  = 2 * time.Second
	RetryAfterSeconds  = "1"
	MaxConfigBodyBytes = 4 * 1024
)

// VibePattern is the on/off/on pattern fired on the hour.
var VibePattern = []time.Duration{VibePulse, VibePulse, VibePulse}

// -----------------------------------------------------------------------------
// Sensors (sysfs power supply, BlueZ over D-Bus)
// -----------------------------------------------------------------------------

const (
	SysfsType          = "type"
	SysfsCapacity      = "capacity"
	SysfsStatus        = "status"
	SysfsTypeBattery   = "Battery"
	SysfsStatusCharge  = "Charging"
	BluezBusName       = "org.bluez"
	BluezRootPath      = "/"
	BluezDeviceIface   = "org.bluez.Device1"
	BluezPropConnected = "Connected"
	DBusManagedObjects = "org.freedesktop.DBus.ObjectManager.GetManagedObjects"
)

// -----------------------------------------------------------------------------
// Face Layout (144x168 canvas)
// -----------------------------------------------------------------------------

const (
	CanvasWidth  = 144
	CanvasHeight = 168

	// Window scale used by the desktop surface.
	WindowScale = 2

	BatterySpriteWidth  = 20
	BatterySpriteHeight = 10
	BatteryLevels       = 11 // sprites 0..10, 10 means charging
	BatteryChargingIdx  = 10
)

// Layer rectangles as X, Y, W, H.
var (
	RectDate    = [4]int{2, 5, 70, 32}
	RectYear    = [4]int{82, 5, 60, 32}
	RectTime    = [4]int{2, 50, 110, 75}
	RectSeconds = [4]int{111, 55, 30, 30}
	RectAM      = [4]int{8, 50, 6, 7}
	RectPM      = [4]int{8, 59, 6, 7}
	RectBattery = [4]int{116, 90, 20, 10}
	RectDST     = [4]int{123, 52, 12, 5}
	RectWeekday = [4]int{3, 125, 84, 40}
	RectRadio   = [4]int{106, 130, 31, 33}
)

// Nearest-neighbor scale factors applied to the 7x13 base font.
const (
	TextScaleS   = 2
	TextScaleL   = 3
	TextScaleDay = 3
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle      = "win_title"
	TKeyWinSettings   = "win_settings_title"
	TKeyMenuShow      = "menu_show"
	TKeyMenuSettings  = "menu_settings"
	TKeyLblInvert     = "lbl_invert"
	TKeyLblVibrate    = "lbl_vibrate_hourly"
	TKeyLblDateFormat = "lbl_date_format"
	TKeyLblClock24h   = "lbl_clock_24h"
	TKeyLblLanguage   = "lbl_language"
	TKeyHelpLanguage  = "help_language"
	TKeyLblPort       = "lbl_port"
	TKeyHelpPort      = "help_port"
	TKeyErrPortReq    = "err_port_required"
	TKeyErrPortNum    = "err_port_numeric"
	TKeyErrPortRange  = "err_port_range"
	TKeyLblPairing    = "lbl_pairing_token"
	TKeyHelpPairing   = "help_pairing_token"
	TKeyLblDisplay    = "lbl_display"
	TKeyLblGeneral    = "lbl_general"
	TKeyBtnSave       = "btn_save"
	TKeyBtnCancel     = "btn_cancel"
	TKeyBtnResetToken = "btn_reset_token"
	TKeyLblFooter     = "lbl_footer"
	TKeyNotifVibrate  = "notif_vibrate"

	// TKeyFmtPrefix is followed by the wire name of a date format.
	TKeyFmtPrefix = "fmt_"

	// TKeyWeekdayPrefix is followed by the time.Weekday index (0 = Sunday).
	TKeyWeekdayPrefix = "weekday_"
)

// FallbackWeekdays is used when the localizer is missing or a key cannot be resolved.
var FallbackWeekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// -----------------------------------------------------------------------------
// Network
// -----------------------------------------------------------------------------

const (
	RouteConfig    = "/config"
	RouteFace      = "/face.png"
	RouteMetrics   = "/metrics"
	AddrSeparator  = ":"
	SchemeHTTP     = "http"
	SchemeHTTPS    = "https"
	AllowedGet     = "GET, HEAD"
	AllowedPost    = "POST"
	BearerPrefix   = "Bearer "
	TransportHTTP  = "http"
	TransportNATS  = "nats"
	TransportLocal = "local"
	NATSReplyAck   = "ack"
	NATSReplyNack  = "nack"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAuthorization   = "Authorization"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderMessageID       = "X-Message-ID"

	MimePNG             = "image/png"
	MimeJSON            = "application/json"
	MimeForm            = "application/x-www-form-urlencoded"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrInvalidURL      = "invalid URL structure"
	ErrCreateRequest   = "failed to create request"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrTrayUnsupported = "system tray not supported on this platform/driver"
	ErrDecodeMessage   = "failed to decode configuration message"
	ErrEncodeMessage   = "failed to encode configuration message"
	ErrEncodePNG       = "failed to encode face image"
	ErrWritePNG        = "failed to write face image"
	ErrParseTime       = "failed to parse render time"
	ErrPushRejected    = "watch rejected configuration"
	ErrPushNetwork     = "network error while pushing configuration"
	ErrNATSConnect     = "failed to connect to NATS"
	ErrNATSSubscribe   = "failed to subscribe to NATS subject"
	ErrBatteryRead     = "failed to read battery state"
	ErrLinkRead        = "failed to read bluetooth link state"
	ErrKeyringWrite    = "failed to store pairing token"
	ErrUnauthorized    = "unauthorized configuration message"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Face initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgBadRequest   = "Malformed configuration message"
	HTTPMsgUnauthorized = "Unauthorized"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application stopped gracefully"
	MsgCtxCancel      = "Context cancelled, shutting down UI"
	MsgCurrentConfig  = "Current configuration"
	MsgConfigApplied  = "Configuration message applied"
	MsgConfigKey      = "Configuration key received"
	MsgConfigUnknown  = "Ignoring unknown configuration key"
	MsgMessageDropped = "Configuration message dropped"
	MsgTickerStart    = "Tick loop started"
	MsgTickerStop     = "Tick loop stopping due to context cancellation"
	MsgVibrate        = "Hourly vibration"
	MsgBatteryChanged = "Battery state changed"
	MsgLinkChanged    = "Bluetooth link state changed"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgFaceUpdated    = "Face snapshot updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgPushAck        = "Options sent to watch successfully"
	MsgPushNack       = "Options not sent to watch"
	MsgRendered       = "Face rendered"
	MsgNATSListening  = "NATS bridge subscribed"
	MsgNATSClosed     = "NATS bridge closed"
	MsgTokenCreated   = "Generated new pairing token"
	MsgAuthDisabled   = "Pairing token unavailable, configuration endpoint is open"
	MsgSettingsOpen   = "Opening settings window"
	MsgSettingsFocus  = "Settings window already open, requesting focus"
	MsgSettingsSave   = "Saving preferences"
	MsgPortBusy       = "Port %s is busy, configuration over HTTP is unavailable."
	TitleStartupError = "Go WV-58A: startup error"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyValue     = "value"
	LogKeyAddr      = "addr"
	LogKeyInvert    = "inv"
	LogKeyVibrate   = "vibr"
	LogKeyDateFmt   = "datefmt"
	LogKeyApplied   = "applied"
	LogKeyTransport = "transport"
	LogKeyMessageID = "message_id"
	LogKeyReason    = "reason"
	LogKeyPercent   = "percent"
	LogKeyCharging  = "charging"
	LogKeyConnected = "connected"
	LogKeyPattern   = "pattern"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeySubject   = "subject"
	LogKeyTime      = "time"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI       = "ui"
	CompUISet    = "ui_settings"
	CompSettings = "settings"
	CompServer   = "server"
	CompPusher   = "pusher"
	CompTicker   = "ticker"
	CompSensor   = "sensor"
	CompHaptics  = "haptics"
	CompBridge   = "bridge"
	CompMain     = "main"
	CompI18n     = "i18n"
	CompRender   = "render"
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricsNamespace = "wv58a"
	ResultApplied    = "applied"
	ResultDropped    = "dropped"
	ResultRejected   = "rejected"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth = 420
	LayoutColumnsDouble = 2
	MinPort             = 1
	MaxPort             = 65535
)
