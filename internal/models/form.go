package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Property is one field of an intake form's fields_schema.
type Property struct {
	Type   string `json:"type"`
	Title  string `json:"title,omitempty"`
	Format string `json:"format,omitempty"`
}

// FieldsSchema is the JSON-schema-like description of a public intake form.
// Property order is kept as received so the public form renders fields in
// the order the attorney defined them.
type FieldsSchema struct {
	Type       string
	Properties map[string]Property
	Order      []string
	Required   []string
}

func (s *FieldsSchema) Add(name string, p Property) {
	if s.Properties == nil {
		s.Properties = map[string]Property{}
	}
	if _, ok := s.Properties[name]; !ok {
		s.Order = append(s.Order, name)
	}
	s.Properties[name] = p
}

func (s FieldsSchema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

func (s FieldsSchema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	typ := s.Type
	if typ == "" {
		typ = "object"
	}
	buf.WriteString(`{"type":`)
	t, _ := json.Marshal(typ)
	buf.Write(t)

	buf.WriteString(`,"properties":{`)
	for i, name := range s.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.Properties[name])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteString(`},"required":`)
	required := s.Required
	if required == nil {
		required = []string{}
	}
	r, err := json.Marshal(required)
	if err != nil {
		return nil, err
	}
	buf.Write(r)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *FieldsSchema) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type       string          `json:"type"`
		Properties json.RawMessage `json:"properties"`
		Required   []string        `json:"required"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("fields_schema: %w", err)
	}
	*s = FieldsSchema{Type: raw.Type, Required: raw.Required}
	if len(raw.Properties) == 0 || string(raw.Properties) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Properties))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("fields_schema properties: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("fields_schema properties: expected object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("fields_schema properties: %w", err)
		}
		name, _ := tok.(string)
		var p Property
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("fields_schema property %q: %w", name, err)
		}
		s.Add(name, p)
	}
	return nil
}

type IntakeForm struct {
	ID                  string       `json:"id"`
	FirmID              string       `json:"firm_id"`
	Name                string       `json:"name"`
	Description         string       `json:"description"`
	FieldsSchema        FieldsSchema `json:"fields_schema"`
	RetainerAmount      string       `json:"retainer_amount"`
	PaymentRequired     bool         `json:"payment_required"`
	RetainerTemplateURL string       `json:"retainer_template_url"`
	IsActive            bool         `json:"is_active"`
	CreatedAt           string       `json:"created_at"`
	UpdatedAt           string       `json:"updated_at"`
}

// FormInput is the create body for an intake form.
type FormInput struct {
	Name            string       `json:"name"`
	Description     string       `json:"description,omitempty"`
	FieldsSchema    FieldsSchema `json:"fields_schema"`
	RetainerAmount  string       `json:"retainer_amount,omitempty"`
	PaymentRequired bool         `json:"payment_required"`
}

// FormUpdate is a partial update; nil fields are left untouched by the backend.
type FormUpdate struct {
	Name            *string       `json:"name,omitempty"`
	Description     *string       `json:"description,omitempty"`
	FieldsSchema    *FieldsSchema `json:"fields_schema,omitempty"`
	RetainerAmount  *string       `json:"retainer_amount,omitempty"`
	PaymentRequired *bool         `json:"payment_required,omitempty"`
	IsActive        *bool         `json:"is_active,omitempty"`
}
