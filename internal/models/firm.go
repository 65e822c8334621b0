package models

type Firm struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	SubscriptionStatus string `json:"subscription_status"`
	IsActive           bool   `json:"is_active"`
	CreatedAt          string `json:"created_at"`
}

// FirmUpdate carries the fields editable from the settings page.
type FirmUpdate struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
