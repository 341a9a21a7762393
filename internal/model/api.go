package model

// DownloadFilename is the fixed attachment name for generated workbooks.
const DownloadFilename = "meal-plan.xlsx"

// XLSXContentType is the MIME type for .xlsx workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GenerateResponse is the success body of POST /generate.
type GenerateResponse struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
