package apimodels

import "time"

type Response struct {
	Status    string      `json:"status"`              // resultado: error/success
	Code      string      `json:"code,omitempty"`      // código estable del error
	Message   string      `json:"message,omitempty"`   // mensaje del error
	Timestamp string      `json:"timestamp,omitempty"` // momento del error, RFC3339
	Data      interface{} `json:"data,omitempty"`      // datos de la respuesta
}

type ScrollerResponse struct {
	Response
	RowCount int64 `json:"row_count"` // total de registros según el filtro
}

func NewError(code, message string) Response {
	return Response{
		Status:    "error",
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

type Pagination struct {
	Limit int `json:"limit" query:"limit"` // registros por página
	Page  int `json:"page" query:"page"`   // página (1,2,3..)
}

func (r Pagination) GetPage() (page, limit int) {
	page = 1
	limit = 10
	if r.Page > 0 {
		page = r.Page
	}
	if r.Limit > 0 {
		limit = r.Limit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func (r Pagination) Offset() int {
	page, limit := r.GetPage()
	return (page - 1) * limit
}

func NewScrollerResponse(data interface{}, rowCount int64) ScrollerResponse {
	return ScrollerResponse{
		Response: Response{
			Status: "success",
			Data:   data,
		},
		RowCount: rowCount,
	}
}
