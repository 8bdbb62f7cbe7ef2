package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
)

func ParseQueryBool(r *http.Request, key string, defaultVal bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a boolean").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParsePathID parses a positive int64 path parameter.
func ParsePathID(raw string, field string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a positive integer").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}
