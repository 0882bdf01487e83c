package game

// Result is the outcome of an operation as reported to cashiers,
// displays and the admin console. Failures never escape as panics;
// they are folded into Success=false with the error text.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// NewResult folds an operation's return values into a Result.
func NewResult(message string, data any, err error) Result {
	if err != nil {
		return Result{Success: false, Message: err.Error(), Data: data}
	}
	return Result{Success: true, Message: message, Data: data}
}
