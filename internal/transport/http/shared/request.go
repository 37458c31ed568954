package shared

import (
	"net/http"

	"hrconsole/internal/requestctx"
)

func RequestID(r *http.Request) string {
	return requestctx.GetRequestID(r.Context())
}
