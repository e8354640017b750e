package helpers

// ApiResponse is the envelope every endpoint answers with. Error responses may carry
// a machine-readable Code the frontend maps to localized copy.
type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	*Page
}

// Page is flattened into list responses.
type Page struct {
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
	Total int `json:"total"`
}

func SuccessResponse(data interface{}, message string) ApiResponse {
	return ApiResponse{Success: true, Data: data, Message: message}
}

func ErrorResponse(err string) ApiResponse {
	return CodedErrorResponse("", err)
}

func CodedErrorResponse(code, err string) ApiResponse {
	return ApiResponse{Code: code, Error: err}
}

func PaginatedResponse(data interface{}, page, limit, total int) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Page:    &Page{Page: page, Limit: limit, Total: total},
	}
}
