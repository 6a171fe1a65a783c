package dto

// CompanyRequest represents the API request for creating a company
type CompanyRequest struct {
	ID             uint64 `json:"id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	OpeningBalance string `json:"openingBalance"`
}

// BalanceResponse represents the API response for a company's balance
type BalanceResponse struct {
	CompanyID  uint64 `json:"companyId"`
	Name       string `json:"name"`
	Balance    string `json:"balance"`
	EntryCount uint64 `json:"entryCount"`
}
