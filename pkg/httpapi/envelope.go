package httpapi

import "net/http"

// Envelope is the success shape: {"success": true, "<key>": payload}.
func Envelope(key string, payload any) map[string]any {
	out := map[string]any{"success": true}
	if key != "" {
		out[key] = payload
	}
	return out
}

func WriteEnvelope(w http.ResponseWriter, status int, key string, payload any) error {
	return WriteJSON(w, status, Envelope(key, payload))
}

// WriteUnsuccessful writes a 2xx body flagged success:false, which the API
// uses for soft failures such as a refused delete.
func WriteUnsuccessful(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, &ErrorEnvelope{Success: false, Message: message})
}
