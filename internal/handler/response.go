package handler

// Response is the uniform success envelope for API responses.
//
//	{"success":true,"message":"...","data":{...}}
//
// Message and Data are omitted when empty so list endpoints can
// return `{success, data}` and action endpoints `{success, message}`.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
