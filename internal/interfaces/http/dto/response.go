package dto

// Response is the envelope every budget endpoint answers with
type Response struct {
	Success bool          `json:"success"`
	Errors  []ErrorDetail `json:"errors"`
	Data    any           `json:"data"`
}

// ErrorDetail represents a single error entry in the envelope
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates a failure response carrying one prefixed error code
func NewErrorResponse(kind, message string) Response {
	return Response{
		Success: false,
		Errors: []ErrorDetail{{
			Code:    ErrorCode(kind),
			Message: message,
		}},
	}
}
