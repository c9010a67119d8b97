package handlers

import (
	"net/http"

	"github.com/5w1tchy/ai-books-api/internal/api/httpx"
)

// GET /
func RootHandler(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, map[string]string{"message": "AI Books API"})
}
