package handler

import (
	"net/http"
	"strconv"

	"farumasi-backend/pkg/response"

	"github.com/gorilla/mux"
)

// pathID reads a positive integer path variable
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// pageParams reads limit/offset from the query string. Zero means "use the default".
func pageParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func pageMeta(limit, offset, count int, total int64) *response.Meta {
	return &response.Meta{
		Limit:  limit,
		Offset: offset,
		Count:  count,
		Total:  total,
	}
}
