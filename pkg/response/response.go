package response

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint answers with
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(w http.ResponseWriter, statusCode int, message string, data interface{}, meta *Meta) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

func Error(w http.ResponseWriter, statusCode int, message string, err interface{}) {
	JSON(w, statusCode, Response{
		Success: false,
		Message: message,
		Error:   err,
	})
}

// ValidationError carries the field -> message map from the validator
func ValidationError(w http.ResponseWriter, errors interface{}) {
	Error(w, http.StatusBadRequest, "Validation failed", errors)
}

func BadRequest(w http.ResponseWriter, message string) {
	fail(w, http.StatusBadRequest, message)
}

func Conflict(w http.ResponseWriter, message string) {
	fail(w, http.StatusConflict, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	fail(w, http.StatusUnauthorized, message)
}

func NotFound(w http.ResponseWriter, message string) {
	fail(w, http.StatusNotFound, message)
}

// InternalServerError never carries error detail; callers log it instead
func InternalServerError(w http.ResponseWriter, message string) {
	fail(w, http.StatusInternalServerError, message)
}

func fail(w http.ResponseWriter, statusCode int, message string) {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	Error(w, statusCode, message, nil)
}
