package models

// Result is the outcome of an operation whose failures are expected validation
// rejections rather than errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Fail builds a failed Result
func Fail(message string) Result {
	return Result{Success: false, Message: message}
}

// OK builds a successful Result
func OK(message string) Result {
	return Result{Success: true, Message: message}
}
