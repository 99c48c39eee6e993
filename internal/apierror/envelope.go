package apierror

// Envelope is the canonical body of every API response.
type Envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func OK(data any) Envelope { return Envelope{Success: true, Data: data} }

func Fail(msg string) Envelope { return Envelope{Success: false, Error: msg} }

// FailValidation wraps per-field rule failures.
func FailValidation(fields map[string]string) Envelope {
	return Envelope{Success: false, Error: "Datos de entrada inválidos", Fields: fields}
}
