package dto

// Employee payloads keep the uppercase keys the kiosk and admin pages send.

type CrearEmpleadoRequest struct {
	DNI    string `json:"DNI"    validate:"required,dni"`
	Nombre string `json:"NOMBRE" validate:"required,min=1,max=200"`
	Cargo  string `json:"CARGO"  validate:"required,min=1,max=100"`
	Area   string `json:"AREA"   validate:"required,min=1,max=100"`
}

type ActualizarEmpleadoRequest struct {
	Nombre string `json:"NOMBRE" validate:"required,min=1,max=200"`
	Cargo  string `json:"CARGO"  validate:"required,min=1,max=100"`
	Area   string `json:"AREA"   validate:"required,min=1,max=100"`
}

type EmpleadoResponse struct {
	DNI           string `json:"DNI"`
	Nombre        string `json:"NOMBRE"`
	Cargo         string `json:"CARGO"`
	Area          string `json:"AREA"`
	FechaRegistro string `json:"FECHA_REGISTRO,omitempty"`
}
