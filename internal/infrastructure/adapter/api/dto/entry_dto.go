package dto

// EntryRequest represents the API request for recording a ledger entry
type EntryRequest struct {
	Reference string `json:"reference" binding:"required"`
	Direction string `json:"direction" binding:"required,oneof=debit credit"`
	Amount    string `json:"amount" binding:"required"`
	Memo      string `json:"memo"`
}

// EntryResponse represents the API response for a recorded ledger entry
type EntryResponse struct {
	EntryID       string `json:"entryId"`
	CompanyID     uint64 `json:"companyId"`
	Reference     string `json:"reference"`
	Direction     string `json:"direction"`
	Amount        string `json:"amount"`
	Memo          string `json:"memo,omitempty"`
	ResultBalance string `json:"resultBalance,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// EntryListResponse represents the API response for a list of entries
type EntryListResponse struct {
	CompanyID uint64          `json:"companyId"`
	Entries   []EntryResponse `json:"entries"`
}
