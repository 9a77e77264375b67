package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Formatting errors
	ErrBadStyleClass ErrorCode = "style_class_not_found"
	ErrBadUnitPrefix ErrorCode = "bad_unit_prefix"
	ErrParseStyle    ErrorCode = "parse_style_failed"

	// Monitor errors
	ErrBadTipType     ErrorCode = "bad_tip_type"
	ErrUnknownSegment ErrorCode = "unknown_segment"
	ErrSenseFailed    ErrorCode = "sense_failed"
	ErrStateFile      ErrorCode = "state_file_failed"
	ErrSocketListen   ErrorCode = "socket_listen_failed"
	ErrSocketComm     ErrorCode = "socket_comm_failed"

	// Cache errors
	ErrCacheInit  ErrorCode = "cache_init_failed"
	ErrCacheStore ErrorCode = "cache_store_failed"
	ErrCacheLoad  ErrorCode = "cache_load_failed"
	ErrCacheClose ErrorCode = "cache_close_failed"

	// Collector errors
	ErrCollectFailed ErrorCode = "collect_failed"
	ErrInitGPU       ErrorCode = "init_gpu_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrInvalidConfig:   "Invalid configuration",
	ErrBindFlags:       "Failed to bind flags",
	ErrReadConfig:      "Failed to read configuration",
	ErrInvalidLogLevel: "Invalid log level",
	ErrBadStyleClass:   "Style class not recognized",
	ErrBadUnitPrefix:   "Non-standard unit prefix not recognized",
	ErrParseStyle:      "Failed to parse style sheet",
	ErrBadTipType:      "Tooltip type not recognized",
	ErrUnknownSegment:  "Unknown monitor segment",
	ErrSenseFailed:     "Monitoring cycle failed",
	ErrStateFile:       "Failed to access tip state file",
	ErrSocketListen:    "Failed to listen on segment socket",
	ErrSocketComm:      "Failed to communicate with segment socket",
	ErrCacheInit:       "Failed to initialize last-value cache",
	ErrCacheStore:      "Failed to store last-value snapshot",
	ErrCacheLoad:       "Failed to load last-value snapshot",
	ErrCacheClose:      "Failed to close last-value cache",
	ErrCollectFailed:   "Failed to collect system values",
	ErrInitGPU:         "Failed to initialize GPU",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
