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

// UserAgent identifies the HTTP client used to download blackout feeds.
var UserAgent = "Go-Calnav/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Calnav"
	AppID             = "com.github.tartampluch.go-calnav"
	KeyringService    = "com.github.tartampluch.go-calnav"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "calnav.log"
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

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion   = "version"
	FlagDebug     = "debug"
	FlagCalendar  = "calendar"
	FlagView      = "view"
	FlagDate      = "date"
	FlagLang      = "lang"
	FlagWeeks     = "weeks"
	FlagFirstDay  = "first-day"
	FlagRTL       = "rtl"
	FlagBlackout  = "blackout"
	FlagFeedUser  = "feed-user"
	FlagServe     = "serve"
	FlagPort      = "port"
	FlagInterval  = "refresh"
	FlagMin       = "min"
	FlagMax       = "max"
	FlagNoPast    = "no-past"
	FlagKey       = "key"
	FlagDescVer   = "Show application version and exit"
	FlagDescDebug = "Enable debug logging to stdout"
	FlagDescCal   = "Calendar system (gregorian, hijri, persian, thaibuddhist, taiwan, umalqura, korean)"
	FlagDescView  = "Calendar view (month, year, decade, century)"
	FlagDescDate  = "Display date in YYYY-MM-DD format (defaults to today)"
	FlagDescLang  = "Label language (BCP 47 tag)"
	FlagDescWeeks = "Number of visible weeks in month view (1-6)"
	FlagDescFirst = "First day of week (0=Sunday ... 6=Saturday)"
	FlagDescRTL   = "Mirror left/right key navigation"
	FlagDescBlack = "Blackout dates source: path to a .ics file or http(s) URL"
	FlagDescUser  = "User name for the blackout feed (password is read from the OS keyring)"
	FlagDescServe = "Serve view snapshots over HTTP instead of printing"
	FlagDescPort  = "HTTP port for -serve"
	FlagDescInt   = "Blackout feed refresh interval in minutes"
	FlagDescMin   = "Minimum selectable date (YYYY-MM-DD)"
	FlagDescMax   = "Maximum selectable date (YYYY-MM-DD)"
	FlagDescPast  = "Disable dates before today"
	FlagDescKey   = "Apply a key press (left, right, up, down) to the display date before printing"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Default Values & Engine Tunables
// -----------------------------------------------------------------------------

const (
	DefaultPort          = "18081"
	DefaultRefreshMin    = 60
	DefaultLanguage      = "en"
	DefaultVisibleWeeks  = 6
	MinVisibleWeeks      = 1
	MaxVisibleWeeks      = 6
	DaysPerWeek          = 7
	VisibleBucketCount   = 12 // cells in Year, Decade and Century views
	BucketsPerViewPeriod = 10 // in-period cells in Decade and Century views
	MonthsPerYear        = 12
	DisabledInterval     = 0 // refresh interval that disables the worker

	SourceModeWeb   = "web"
	SourceModeLocal = "local"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyHeaderMonth    = "header_month"     // Requires Month, Year
	TKeyRange          = "label_range"      // Requires Start, End
	TKeyDescMonthDay   = "desc_month_day"   // Requires Weekday, Day, Month, Year
	TKeyDescYearMonth  = "desc_year_month"  // Requires Month, Year
	TKeyPrefixMonth    = "month_"           // + family + "_" + month number
	TKeyPrefixMonthAbb = "month_abbr_"      // + family + "_" + month number
	TKeyPrefixWeekday  = "weekday_"         // + weekday number (0=Sunday)
	TKeyPrefixWeekAbb  = "weekday_abbr_"    // + weekday number (0=Sunday)
	TKeyWeekColumn     = "label_week"       // Column header for week numbers
	TKeyNavNext        = "label_nav_next"   // Next navigation affordance
	TKeyNavPrevious    = "label_nav_prev"   // Previous navigation affordance
	TKeyCalendarPrefix = "calendar_name_"   // + identifier name
	TKeyViewPrefix     = "view_name_"       // + view name
)

// Calendar families select month-name tables.
const (
	FamilyGregorian = "gregorian"
	FamilyHijri     = "hijri"
	FamilyPersian   = "persian"
)

// -----------------------------------------------------------------------------
// Date Formats & Limits
// -----------------------------------------------------------------------------

const (
	DateFormatISO = "2006-01-02"
	MinPort       = 1
	MaxPort       = 65535

	// MaxBlackoutDays caps the days a single event may black out.
	MaxBlackoutDays = 366

	// Recurring events are expanded this many years around today.
	RecurrenceYearsBack  = 1
	RecurrenceYearsAhead = 2
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteView           = "/view"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Query Parameters
// -----------------------------------------------------------------------------

const (
	QueryCalendar  = "calendar"
	QueryView      = "view"
	QueryDate      = "date"
	QueryToday     = "today"
	QueryMin       = "min"
	QueryMax       = "max"
	QueryLang      = "lang"
	QueryMode      = "mode"
	QueryDirection = "direction"
	QueryStart     = "start"
	QueryEnd       = "end"
	QueryWeeks     = "weeks"
	QueryFirstDay  = "first"
	QueryPast      = "past"
	QueryNav       = "nav"
	QueryLeading   = "leading"
	QueryRTL       = "rtl"
	QueryKey       = "key"
	QuerySwitch    = "switch"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType  = "Content-Type"
	HeaderCacheControl = "Cache-Control"
	HeaderETag         = "ETag"
	HeaderRetryAfter   = "Retry-After"
	HeaderAllow        = "Allow"
	HeaderXContentType = "X-Content-Type-Options"
	HeaderUserAgent    = "User-Agent"
	HeaderIfNoneMatch  = "If-None-Match"
	HeaderAccept       = "Accept"

	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	MimeCalendar        = "text/calendar"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty  = "configuration error: local path is empty"
	ErrWebURLEmpty     = "configuration error: web URL is empty"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrModeUnsupport   = "configuration error: unsupported source mode"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrPortInvalid     = "port must be a number between 1 and 65535"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrICalParse       = "failed to parse iCalendar stream"
	ErrBlackoutLoad    = "failed to load blackout dates"
	ErrDateParse       = "unable to parse date"
	ErrQueryParam      = "invalid query parameter"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrEncodeResp      = "failed to encode response"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrKeyringLookup   = "failed to read feed password from keyring"
	ErrUnknownKey      = "unknown navigation key"
	ErrUnknownView     = "unknown calendar view"
	ErrUnknownMode     = "unknown selection mode"
	ErrUnknownDir      = "unknown range selection direction"
	ErrRangeNoStart    = "range end given without a start"
	ErrWeekday         = "first day of week must be between 0 and 6"
	ErrRequestCreate   = "failed to create request"
	ErrNetwork         = "network error during fetch"
	ErrHTTPStatus      = "server returned unexpected status"
	ErrSourceOpen      = "failed to open blackout source"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Blackout dates initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgBadRequest   = "Bad Request"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgCalendarFallback = "Unknown calendar identifier, using default"
	MsgLoadStarted      = "Blackout load started"
	MsgLoadFinished     = "Blackout load finished"
	MsgLoadFailed       = "Blackout load failed, keeping previous dates"
	MsgSkippedEvent     = "Skipping event without usable start date"
	MsgWorkerStart      = "Background worker started"
	MsgWorkerStop       = "Worker stopping due to context cancellation"
	MsgAppStop          = "Application stopped gracefully"
	MsgAppStarting      = "Starting application"
	MsgServerListen     = "HTTP server listening"
	MsgServerStop       = "Shutting down HTTP server..."
	MsgBlackoutUpdated  = "Blackout dates updated"
	MsgSnapshotServed   = "View snapshot served"
	MsgLocaleSkip       = "Skipping non-locale file"
	MsgLocaleBadName    = "Skipping malformed locale filename"
	MsgLocaleLoaded     = "Locale loaded successfully"
	MsgTransMissing     = "Missing translation key"
	MsgPassFail         = "Password retrieval failed (might be empty)"
	MsgLogWarning       = "Warning: %s at %s: %v\n"
	MsgFetchStart       = "Initiating blackout feed download"
	MsgFetchBadStatus   = "Server returned error status"
	MsgFetchDownloading = "Blackout feed downloading"
	MsgFetchMediaType   = "Feed is not served as text/calendar"
	MsgRecurrenceFail   = "Skipping unparseable recurrence rule"
	MsgEventTruncated   = "Event span truncated"
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
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeyCalendar  = "calendar"
	LogKeyView      = "view"
	LogKeyDate      = "date"
	LogKeyCount     = "count"
	LogKeyEvents    = "events"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"
	LogKeyLength    = "content_length"
	LogKeyMediaType = "media_type"
	LogKeyUID       = "uid"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyBuilt   = "built"
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
	CompEngine   = "engine"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompBlackout = "blackout"
	CompWorker   = "worker"
	CompMain     = "main"
	CompI18n     = "i18n"
)
