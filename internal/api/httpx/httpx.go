package httpx

import (
	"encoding/json"
	"net/http"
)

// Every response is a JSON object with a message field; successful payloads
// add data (single record) or blogs + currentPage/totalPages (paginated).

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]any{"message": msg})
}

func WriteData(w http.ResponseWriter, status int, msg string, data any) {
	WriteJSON(w, status, map[string]any{"message": msg, "data": data})
}

func WritePage(w http.ResponseWriter, status int, msg string, blogs any, currentPage, totalPages int) {
	body := map[string]any{
		"message":     msg,
		"currentPage": currentPage,
		"totalPages":  totalPages,
	}
	if blogs != nil {
		body["blogs"] = blogs
	}
	WriteJSON(w, status, body)
}

func WriteValidation(w http.ResponseWriter, errs any) {
	WriteJSON(w, http.StatusBadRequest, map[string]any{
		"message": "Validation failed",
		"errors":  errs,
	})
}
