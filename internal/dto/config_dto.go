package dto

// PuntoRequest: radio and activo default to 150 / true when omitted.
type PuntoRequest struct {
	ID     string   `json:"id"     validate:"required,min=1,max=100"`
	Nombre string   `json:"nombre" validate:"required,min=1,max=200"`
	Lat    *float64 `json:"lat"    validate:"required,latitude"`
	Lng    *float64 `json:"lng"    validate:"required,longitude"`
	Radio  *int     `json:"radio"  validate:"omitempty,gt=0"`
	Activo *bool    `json:"activo"`
}

type PuntoResponse struct {
	ID     string  `json:"id"`
	Nombre string  `json:"nombre"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Radio  int     `json:"radio"`
	Activo bool    `json:"activo"`
}

type PuntosGuardadosResponse struct {
	Count int `json:"count"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Redis     string `json:"redis"`

	// DLQ is the number of failed sync jobs parked in Redis.
	DLQ *int64 `json:"dlq,omitempty"`

	// UltimaFallaSync is the newest parked failure, without its error text.
	UltimaFallaSync *FallaSyncResumen `json:"ultima_falla_sync,omitempty"`
}

type FallaSyncResumen struct {
	Tabla   string `json:"tabla"`
	FallaEn string `json:"falla_en"`
}
