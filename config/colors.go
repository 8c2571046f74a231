package config

// ANSI colours for log prefixes.
const (
	ColorReset   = "\033[0m"
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorWhite   = "\033[37m"
)

// PlayerColors cycles through colours for per-player loggers.
var PlayerColors = []string{ColorBlue, ColorMagenta, ColorYellow, ColorCyan, ColorWhite}
