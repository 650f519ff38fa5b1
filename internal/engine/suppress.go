package engine

import "github.com/good-yellow-bee/alertrelay/internal/models"

// Suppressed reports whether any of the given maintenance windows matches the
// alert. The slice is expected to be pre-filtered to windows that are enabled
// and whose time bound includes "now"; the storage layer does that filtering.
func Suppressed(alert *models.AlertEvent, windows []models.MaintenanceWindow) bool {
	for i := range windows {
		if WindowMatches(alert, &windows[i]) {
			return true
		}
	}
	return false
}
