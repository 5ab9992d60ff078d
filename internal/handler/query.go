package handler

import (
	"fmt"
	"net/http"
	"strconv"
)

// parsePageQuery reads the optional offset and limit query parameters.
// Both default to 0, which means "from the start" and "no limit".
func parsePageQuery(r *http.Request) (offset, limit int, err error) {
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			return 0, 0, fmt.Errorf("limit must be a non-negative integer")
		}
	}
	return offset, limit, nil
}
