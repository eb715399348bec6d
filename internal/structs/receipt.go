package structs

type Receipt struct {
	Id         string  `json:"id"`
	Reference  string  `json:"reference"`
	BookingId  string  `json:"booking_id"`
	Amount     float64 `json:"amount"`
	TemplateId *string `json:"template_id,omitempty"`
	IssuedAt   string  `json:"issued_at"`
}

// ReceiptDetails is the full payload of the receipt screen: the receipt,
// its booking, the rendering template and a QR image for verification.
type ReceiptDetails struct {
	Receipt       Receipt         `json:"receipt"`
	Booking       Booking         `json:"booking"`
	Template      ReceiptTemplate `json:"template"`
	AmountPretty  string          `json:"amount_pretty"`
	QRCodeBase64  string          `json:"qr_code_base64"`
	VerifyPageURL string          `json:"verify_page_url"`
}

type ReceiptTemplate struct {
	Id        string  `json:"id"`
	BranchId  *string `json:"branch_id,omitempty"`
	Name      string  `json:"name"`
	Header    string  `json:"header"`
	Footer    string  `json:"footer"`
	IsDefault bool    `json:"is_default"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type CreateReceiptTemplate struct {
	BranchId  *string `json:"branch_id"`
	Name      string  `json:"name"`
	Header    string  `json:"header"`
	Footer    string  `json:"footer"`
	IsDefault bool    `json:"is_default"`
}

type PatchReceiptTemplate struct {
	Id        string  `json:"id"`
	Name      *string `json:"name"`
	Header    *string `json:"header"`
	Footer    *string `json:"footer"`
	IsDefault *bool   `json:"is_default"`
}

type GetListReceiptRequest struct {
	Offset   int64   `json:"offset"`
	Limit    int64   `json:"limit"`
	Search   string  `json:"search"`
	BranchId *string `json:"branch_id"`
}

type GetListReceiptResponse struct {
	Count    int64     `json:"count"`
	Receipts []Receipt `json:"receipts"`
}
