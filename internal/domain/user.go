package domain

import "time"

type AccountType string

const (
	AccountIndividual AccountType = "individual"
	AccountBusiness   AccountType = "business"
)

func (t AccountType) Valid() bool {
	return t == AccountIndividual || t == AccountBusiness
}

type User struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Name          string      `gorm:"type:varchar(50);not null" json:"name"`
	Email         string      `gorm:"type:varchar(128);uniqueIndex:ux_users_email;not null" json:"email"`
	Phone         string      `gorm:"type:varchar(32)" json:"phone"`
	Address       string      `gorm:"type:text" json:"address"`
	AccountType   AccountType `gorm:"type:varchar(16);not null;default:individual" json:"accountType"`
	Password      string      `gorm:"type:varchar(100);not null" json:"-"`
	EmailVerified bool        `gorm:"not null;default:false" json:"emailVerified"`
	IsDeleted     bool        `gorm:"not null;default:false" json:"-"`
	CreatedAt     time.Time   `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time   `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// PasswordHistory retains prior password digests so changes can reject reuse.
// Rows beyond the retention bound are pruned on insert.
type PasswordHistory struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index:ix_pwhistory_user;not null"`
	Digest    string    `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (PasswordHistory) TableName() string { return "password_history" }

// Identity is the resolved caller attached to authenticated requests.
type Identity struct {
	ID          uint
	AccountType AccountType
	IsDeleted   bool
}

func (i Identity) IsAdmin() bool { return i.AccountType == AccountBusiness }
