package service

// paginate returns the window of items selected by offset and limit.
// A negative offset is treated as zero, an offset past the end yields
// an empty slice, and a limit <= 0 means no limit.
func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
