package models

import "sort"

type Submission struct {
	ID              string         `json:"id"`
	FormID          string         `json:"form_id"`
	ClientID        string         `json:"client_id"`
	FormData        map[string]any `json:"form_data"`
	SignatureStatus string         `json:"signature_status"`
	PaymentStatus   string         `json:"payment_status"`
	PaymentAmount   string         `json:"payment_amount"`
	Status          string         `json:"status"`
	SignedAt        string         `json:"signed_at"`
	PaidAt          string         `json:"paid_at"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at"`

	// Set only on the public submit response.
	SignatureURL string `json:"signature_url"`
	PaymentURL   string `json:"payment_url"`
	NextStep     string `json:"next_step"`
}

// Value returns form_data[key] as a string, or "" when absent.
func (s *Submission) Value(key string) string {
	v, ok := s.FormData[key]
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return FormatValue(v)
}

// DataKeys returns form_data keys in sorted order.
func (s *Submission) DataKeys() []string {
	keys := make([]string, 0, len(s.FormData))
	for k := range s.FormData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type SubmissionList struct {
	Items []Submission `json:"items"`
	Total int          `json:"total"`
}

type SubmissionFilter struct {
	FormID   string
	ClientID string
	Skip     int
	Limit    int
}

type PublicSubmitInput struct {
	FormData map[string]any `json:"form_data"`
}

type SignatureInput struct {
	SignatureName string `json:"signature_name"`
	SignatureDate string `json:"signature_date"`
}

type SignResult struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	SubmissionID string `json:"submission_id"`
	NextStep     string `json:"next_step"`
}

type PayResult struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	SubmissionID  string `json:"submission_id"`
	PaymentStatus string `json:"payment_status"`
}
