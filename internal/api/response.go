package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

type statusCoder interface {
	StatusCode() int
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"error": msg, "code": status})
}

// writeErr maps err to a status. Errors carrying StatusCode() choose their own;
// anything else is a 500.
func writeErr(w http.ResponseWriter, err error) {
	var sc statusCoder
	if errors.As(err, &sc) {
		writeError(w, sc.StatusCode(), err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errInvalid(key)
	}
	return n, nil
}

func queryFloat(r *http.Request, key string, def float64) (float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errInvalid(key)
	}
	return f, nil
}

func errInvalid(key string) error {
	return errors.New("invalid " + key)
}
