package config

// Layout constants.
const (
	// CompactModeThreshold triggers compact rendering below this width.
	CompactModeThreshold = 80

	// ProgressWidth is the width of a row's progress bar.
	ProgressWidth = 20

	// CompactProgressWidth is used below CompactModeThreshold.
	CompactProgressWidth = 10

	// MinNameWidth is the minimum width for task names.
	MinNameWidth = 16

	// StateColumnWidth pads the state column.
	StateColumnWidth = 10
)

// Display limits.
const (
	// MaxVisibleTasks limits rows shown per list.
	MaxVisibleTasks = 15

	// TruncationSuffix appended to truncated strings.
	TruncationSuffix = "..."
)
