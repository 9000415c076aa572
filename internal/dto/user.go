package dto

type ListUsersQuery struct {
	Page        int
	Limit       int
	Search      string
	AccountType string
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type ListUsersResponse struct {
	Users      []PublicUser `json:"users"`
	Pagination Pagination   `json:"pagination"`
}

// AdminUpdateUserRequest is the admin/self edit surface; accountType changes
// are applied only when the caller is an admin.
type AdminUpdateUserRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	AccountType *string `json:"accountType,omitempty"`
}

type UserStats struct {
	TotalUsers         int64 `json:"totalUsers"`
	IndividualUsers    int64 `json:"individualUsers"`
	BusinessUsers      int64 `json:"businessUsers"`
	VerifiedUsers      int64 `json:"verifiedUsers"`
	NewUsersLast30Days int64 `json:"newUsersLast30Days"`
}

type UserStatsResponse struct {
	Stats UserStats `json:"stats"`
}
