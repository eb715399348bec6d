package structs

type FAQ struct {
	Id           string  `json:"id"`
	Question     string  `json:"question"`
	Answer       string  `json:"answer"`
	Category     string  `json:"category"`
	DisplayOrder int64   `json:"display_order"`
	IsActive     bool    `json:"is_active"`
	BranchId     *string `json:"branch_id,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type CreateFAQ struct {
	Question     string  `json:"question"`
	Answer       string  `json:"answer"`
	Category     string  `json:"category"`
	DisplayOrder int64   `json:"display_order"`
	BranchId     *string `json:"branch_id"`
}

type PatchFAQ struct {
	Id           string  `json:"id"`
	Question     *string `json:"question"`
	Answer       *string `json:"answer"`
	Category     *string `json:"category"`
	DisplayOrder *int64  `json:"display_order"`
	IsActive     *bool   `json:"is_active"`
}

type GetListFAQRequest struct {
	Offset     int64   `json:"offset"`
	Limit      int64   `json:"limit"`
	Category   string  `json:"category"`
	BranchId   *string `json:"branch_id"`
	OnlyActive bool    `json:"only_active"`
}

type GetListFAQResponse struct {
	Count int64 `json:"count"`
	FAQs  []FAQ `json:"faqs"`
}

type Review struct {
	Id         string  `json:"id"`
	UserId     *string `json:"user_id,omitempty"`
	AuthorName string  `json:"author_name"`
	Rating     int64   `json:"rating"`
	Comment    string  `json:"comment"`
	IsApproved bool    `json:"is_approved"`
	BranchId   *string `json:"branch_id,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type CreateReview struct {
	UserId     *string `json:"user_id"`
	AuthorName string  `json:"author_name"`
	Rating     int64   `json:"rating"`
	Comment    string  `json:"comment"`
	BranchId   *string `json:"branch_id"`
}

type GetListReviewRequest struct {
	Offset       int64   `json:"offset"`
	Limit        int64   `json:"limit"`
	BranchId     *string `json:"branch_id"`
	OnlyApproved bool    `json:"only_approved"`
}

type GetListReviewResponse struct {
	Count   int64    `json:"count"`
	Reviews []Review `json:"reviews"`
}
