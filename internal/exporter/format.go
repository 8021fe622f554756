package exporter

import "fmt"

// formatFloat formats a score with exactly 2 decimal places so values like
// 13.4 appear as 13.40 in the download.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
