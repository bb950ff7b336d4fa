package models

// Account representa uma conta bancária.
// Contas nunca são apagadas: desabilite (Enabled=false) ao invés de deletar.
type Account struct {
	Number      string `gorm:"primary_key" json:"number" form:"number"`
	ManagerUser int64  `gorm:"not null;index" json:"manager_user" form:"manager_user"`
	Name        string `gorm:"not null" json:"name" form:"name"`

	Country             string `gorm:"not null;size:2" json:"country" form:"country"`
	CountryPersonalID   string `json:"country_personal_id" form:"country_personal_id"`
	CountryCommercialID string `gorm:"not null" json:"country_commercial_id" form:"country_commercial_id"`

	IsCompany bool `json:"is_company" form:"is_company"`

	// Invariante: CurrentAmount >= MinAmount após toda transação commitada.
	CurrentAmount float64 `gorm:"not null;default:0" json:"current_amount" form:"current_amount"`
	MinAmount     float64 `gorm:"not null;default:0" json:"min_amount" form:"min_amount"`

	Enabled bool `gorm:"not null;default:true" json:"enabled" form:"enabled"`
}

func (Account) TableName() string {
	return "accounts"
}

func (account Account) MissingFields() string {
	if account.Number == "" {
		return "number"
	} else if account.Name == "" {
		return "name"
	} else if account.Country == "" {
		return "country"
	} else if account.CountryCommercialID == "" {
		return "country_commercial_id"
	}
	return ""
}
