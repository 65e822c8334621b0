package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Client struct {
	ID         string         `json:"id"`
	FirmID     string         `json:"firm_id"`
	Email      string         `json:"email"`
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	Phone      string         `json:"phone"`
	IntakeData map[string]any `json:"intake_data"`
	Status     string         `json:"status"`
	CreatedAt  string         `json:"created_at"`
}

func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type ClientList struct {
	Items []Client `json:"items"`
	Total int      `json:"total"`
}

// FormatValue renders a free-form JSON value for display.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}
