package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/divan/num2words"

	"github.com/lexflow/lexflow-web/internal/models"
)

// Agreement is the view of a signed retainer agreement.
type Agreement struct {
	SubmissionID  string
	Reference     string
	SignatureName string
	SignedAt      string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Amount        string
	AmountWords   string
}

func NewAgreement(s *models.Submission) Agreement {
	a := Agreement{
		SubmissionID:  s.ID,
		Reference:     reference(s.ID),
		SignatureName: s.Value("signature_name"),
		SignedAt:      FormatDate(s.SignedAt),
		FirstName:     s.Value("first_name"),
		LastName:      s.Value("last_name"),
		Email:         s.Value("email"),
		Phone:         s.Value("phone"),
		Amount:        s.PaymentAmount,
	}
	if words, err := AmountInWords(s.PaymentAmount); err == nil {
		a.AmountWords = words
	}
	return a
}

func reference(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// maxDollars is the largest amount num2words can spell; it stops at
// billions.
const maxDollars = 999_999_999_999

// AmountInWords spells a decimal dollar amount the way it is written on a
// cheque: "five hundred and 00/100 dollars".
func AmountInWords(amount string) (string, error) {
	amount = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(amount), "$"))
	if amount == "" {
		return "", fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(amount, ",", ""), 64)
	if err != nil {
		return "", fmt.Errorf("amount %q: %w", amount, err)
	}
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return "", fmt.Errorf("amount %q: not a number", amount)
	case v < 0:
		return "", fmt.Errorf("amount %q: negative", amount)
	case v >= maxDollars+1:
		return "", fmt.Errorf("amount %q: too large", amount)
	}
	cents := int(math.Round(v * 100))
	if cents/100 > maxDollars {
		return "", fmt.Errorf("amount %q: too large", amount)
	}
	return fmt.Sprintf("%s and %02d/100 dollars", num2words.Convert(cents/100), cents%100), nil
}

// FormatDate renders a backend timestamp as "Jan 2, 2006". Values that do
// not parse are returned as given.
func FormatDate(ts string) string {
	if ts == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return ts
}
