package dto

// Tipos de reporte disponibles en la herramienta generate_report.
const (
	ReportStockSummary    = "stock_summary"
	ReportMovementHistory = "movement_history"
)

// GenerateReportRequest parámetros de la herramienta generate_report.
type GenerateReportRequest struct {
	Report      string `json:"report" jsonschema:"enum=stock_summary,enum=movement_history,description=Tipo de reporte"`
	Store       string `json:"store,omitempty" jsonschema:"description=Limitar al almacén indicado"`
	Direction   string `json:"direction,omitempty" jsonschema:"enum=IN,enum=OUT,description=Solo para movement_history"`
	Description string `json:"description,omitempty" jsonschema:"description=Texto adicional bajo el título"`
}

// GenerateReportResponse documento generado, codificado en base64.
type GenerateReportResponse struct {
	Filename      string `json:"filename"`
	Pages         int    `json:"pages"`
	ContentBase64 string `json:"content_base64"`
}
