package timer

import "fmt"

// FormatTime renders a second count as MM:SS. Minutes are not wrapped at
// 60 and grow past two digits for large inputs.
func FormatTime(seconds int) string {
	seconds = max(seconds, 0)
	minutes := seconds / 60
	remainder := seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, remainder)
}
