package reporter

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize formats a byte count using 1024-based units with two decimals
// ("0.00 B", "1.50 KB", "2.00 GB"). Anything past TB is shown in PB.
func FormatSize(size float64) string {
	for _, unit := range sizeUnits {
		if size < 1024.0 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.2f PB", size)
}

// FormatBytes is FormatSize for integer byte counts
func FormatBytes(bytes int64) string {
	return FormatSize(float64(bytes))
}
