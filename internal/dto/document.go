package dto

// VacationPDFRequest 生成假期申请 PDF
type VacationPDFRequest struct {
	RequestID string `json:"request_id" binding:"required"`
	Status    string `json:"status"     binding:"required,oneof=approved rejected"`
}

// VacationPDFResponse 假期申请 PDF 结果
type VacationPDFResponse struct {
	FilePath string `json:"file_path"`
	Message  string `json:"message"`
}

// ContractRequest 生成劳动合同 PDF
type ContractRequest struct {
	ContractID string `json:"contract_id" binding:"required"`
}

// ContractResponse 劳动合同 PDF 结果
type ContractResponse struct {
	Success bool   `json:"success"`
	FileURL string `json:"file_url"`
	Message string `json:"message"`
}
