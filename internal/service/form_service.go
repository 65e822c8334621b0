package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/repository"
)

var (
	ErrFormNameRequired = errors.New("form name is required")
	ErrNoFields         = errors.New("at least one field is required")
	ErrEmptyFieldName   = errors.New("field name is required")
	ErrDuplicateField   = errors.New("duplicate field name")
)

// FieldTypes are the input types offered by the form builder.
var FieldTypes = []string{"text", "email", "tel", "number", "date", "textarea"}

// Field is one row of the form builder.
type Field struct {
	Name     string
	Label    string
	Type     string
	Required bool
}

// DefaultFields seeds a new form.
func DefaultFields() []Field {
	return []Field{
		{Name: "first_name", Label: "First Name", Type: "text", Required: true},
		{Name: "last_name", Label: "Last Name", Type: "text", Required: true},
		{Name: "email", Label: "Email Address", Type: "email", Required: true},
		{Name: "phone", Label: "Phone Number", Type: "tel"},
		{Name: "case_type", Label: "Type of Case", Type: "text", Required: true},
	}
}

// ValidateFields rejects empty and duplicate field names.
func ValidateFields(fields []Field) error {
	if len(fields) == 0 {
		return ErrNoFields
	}
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Errorf("field %d: %w", i+1, ErrEmptyFieldName)
		}
		if seen[name] {
			return fmt.Errorf("%q: %w", name, ErrDuplicateField)
		}
		seen[name] = true
	}
	return nil
}

// BuildSchema serialises builder fields into a fields_schema. Number fields
// get type "number", everything else "string"; the input type rides along
// in format so the public page can pick the right control.
func BuildSchema(fields []Field) models.FieldsSchema {
	schema := models.FieldsSchema{Type: "object", Required: []string{}}
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		p := models.Property{Type: "string", Title: strings.TrimSpace(f.Label)}
		switch f.Type {
		case "number":
			p.Type = "number"
		case "email", "tel", "date", "textarea":
			p.Format = f.Type
		}
		schema.Add(name, p)
		if f.Required {
			schema.Required = append(schema.Required, name)
		}
	}
	return schema
}

// FieldsFromSchema is the inverse of BuildSchema, used to seed the edit page.
func FieldsFromSchema(schema models.FieldsSchema) []Field {
	fields := make([]Field, 0, len(schema.Order))
	for _, name := range schema.Order {
		p := schema.Properties[name]
		label := p.Title
		if label == "" {
			label = name
		}
		fields = append(fields, Field{
			Name:     name,
			Label:    label,
			Type:     InputType(p),
			Required: schema.IsRequired(name),
		})
	}
	return fields
}

// InputType maps a schema property to an HTML input type.
func InputType(p models.Property) string {
	tag := p.Format
	if tag == "" {
		tag = p.Type
	}
	switch tag {
	case "email":
		return "email"
	case "tel", "phone":
		return "tel"
	case "number", "integer":
		return "number"
	case "textarea":
		return "textarea"
	case "date":
		return "date"
	default:
		return "text"
	}
}

// PublicLink is the URL a client opens to fill out form id.
func PublicLink(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/intake/" + id
}

// FormDraft is what the builder page posts.
type FormDraft struct {
	Name            string
	Description     string
	RetainerAmount  string
	PaymentRequired bool
	Fields          []Field
}

func (d FormDraft) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrFormNameRequired
	}
	return ValidateFields(d.Fields)
}

type FormDetail struct {
	Form            *models.IntakeForm
	SubmissionCount int
}

type FormService struct {
	forms *repository.FormRepo
	subs  *repository.SubmissionRepo
}

func NewFormService(forms *repository.FormRepo, subs *repository.SubmissionRepo) *FormService {
	return &FormService{forms: forms, subs: subs}
}

func (s *FormService) List(ctx context.Context) ([]models.IntakeForm, error) {
	return s.forms.FindAll(ctx)
}

func (s *FormService) Get(ctx context.Context, id string) (*models.IntakeForm, error) {
	form, err := s.forms.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "form")
	}
	return form, nil
}

// Detail loads a form and counts its submissions in parallel.
func (s *FormService) Detail(ctx context.Context, id string) (*FormDetail, error) {
	var (
		form *models.IntakeForm
		subs []models.Submission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		form, err = s.forms.FindByID(gctx, id)
		return notFound(err, "form")
	})
	g.Go(func() error {
		var err error
		subs, err = allSubmissions(gctx, s.subs, models.SubmissionFilter{FormID: id})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &FormDetail{Form: form, SubmissionCount: len(forForm(subs, id))}, nil
}

func (s *FormService) Create(ctx context.Context, d FormDraft) (*models.IntakeForm, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	return s.forms.Create(ctx, models.FormInput{
		Name:            strings.TrimSpace(d.Name),
		Description:     d.Description,
		FieldsSchema:    BuildSchema(d.Fields),
		RetainerAmount:  strings.TrimSpace(d.RetainerAmount),
		PaymentRequired: d.PaymentRequired,
	})
}

func (s *FormService) Update(ctx context.Context, id string, d FormDraft) (*models.IntakeForm, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(d.Name)
	amount := strings.TrimSpace(d.RetainerAmount)
	schema := BuildSchema(d.Fields)
	form, err := s.forms.Update(ctx, id, models.FormUpdate{
		Name:            &name,
		Description:     &d.Description,
		FieldsSchema:    &schema,
		RetainerAmount:  &amount,
		PaymentRequired: &d.PaymentRequired,
	})
	if err != nil {
		return nil, notFound(err, "form")
	}
	return form, nil
}

// ToggleActive flips is_active on the backend. On success the returned copy
// differs from form only in IsActive; on failure form is returned as is.
func (s *FormService) ToggleActive(ctx context.Context, form *models.IntakeForm) (*models.IntakeForm, error) {
	next := !form.IsActive
	if _, err := s.forms.Update(ctx, form.ID, models.FormUpdate{IsActive: &next}); err != nil {
		return form, err
	}
	updated := *form
	updated.IsActive = next
	return &updated, nil
}

func (s *FormService) Delete(ctx context.Context, id string) error {
	return notFound(s.forms.Delete(ctx, id), "form")
}
