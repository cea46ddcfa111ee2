package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// SerializeLedgerAccess gives the in-memory ledger a single-writer discipline:
// safe methods share the read lock, every other method holds the write lock
// for the whole request.
func SerializeLedgerAccess(mu *sync.RWMutex) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			mu.RLock()
			defer mu.RUnlock()
		default:
			mu.Lock()
			defer mu.Unlock()
		}
		c.Next()
	}
}
