package dto

type RegistrarAsistenciaRequest struct {
	DNI    string   `json:"dni"    validate:"required,dni"`
	Nombre string   `json:"nombre" validate:"required,min=1,max=200"`
	Cargo  string   `json:"cargo"  validate:"max=100"`
	Tipo   string   `json:"tipo"   validate:"required,oneof=ENTRADA SALIDA"`
	Fecha  string   `json:"date"   validate:"required,fecha"`
	Hora   string   `json:"time"   validate:"required,min=1,max=20"`
	Punto  *string  `json:"punto"  validate:"omitempty,max=100"`
	Lat    *float64 `json:"lat"    validate:"omitempty,latitude"`
	Lng    *float64 `json:"lng"    validate:"omitempty,longitude"`
}

type AsistenciaResponse struct {
	ID        string   `json:"id"`
	DNI       string   `json:"dni"`
	Nombre    string   `json:"nombre"`
	Cargo     string   `json:"cargo"`
	Tipo      string   `json:"tipo"`
	Fecha     string   `json:"date"`
	Hora      string   `json:"time"`
	Punto     *string  `json:"punto"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Timestamp string   `json:"timestamp"`
}
