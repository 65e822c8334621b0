package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/repository"
)

// Input is one rendered control of the public intake form.
type Input struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Required    bool
	Value       string
}

// RenderFields returns one input per schema property, in schema order.
func RenderFields(form *models.IntakeForm) []Input {
	schema := form.FieldsSchema
	inputs := make([]Input, 0, len(schema.Order))
	for _, name := range schema.Order {
		p := schema.Properties[name]
		label := p.Title
		if label == "" {
			label = name
		}
		in := Input{
			Name:     name,
			Label:    label,
			Type:     InputType(p),
			Required: schema.IsRequired(name),
		}
		switch in.Type {
		case "email":
			in.Placeholder = "your.email@example.com"
		case "tel":
			in.Placeholder = "+1 555 123 4567"
		case "date":
		default:
			in.Placeholder = "Enter " + strings.ToLower(label)
		}
		inputs = append(inputs, in)
	}
	return inputs
}

// Destination says where the browser goes after a public submit.
type Destination int

const (
	// DestLocal shows the inline thank-you view.
	DestLocal Destination = iota
	DestSignature
	DestPayment
	DestSuccess
)

type Outcome struct {
	Dest     Destination
	Redirect string
}

// Route picks the post-submit destination from the backend's workflow
// fields.
func Route(res *models.Submission) Outcome {
	switch {
	case res.NextStep == "signature" && res.SignatureURL != "":
		return Outcome{Dest: DestSignature, Redirect: res.SignatureURL}
	case res.NextStep == "payment" && res.PaymentURL != "":
		return Outcome{Dest: DestPayment, Redirect: res.PaymentURL}
	case res.ID != "":
		return Outcome{Dest: DestSuccess, Redirect: SuccessURL(res.ID)}
	default:
		return Outcome{Dest: DestLocal}
	}
}

// SuccessURL is the client-facing confirmation page for a submission.
func SuccessURL(submissionID string) string {
	return "/intake/success?submission_id=" + url.QueryEscape(submissionID)
}

// Step is one line of the checklist on the intake success page.
type Step struct {
	Title       string
	Description string
	Status      string
}

// NextSteps builds the success page checklist. The review step is always
// last.
func NextSteps(s *models.Submission) []Step {
	if s == nil {
		return nil
	}
	var steps []Step
	switch s.SignatureStatus {
	case "pending":
		steps = append(steps, Step{"Document Signature", "Retainer agreement signature pending", "pending"})
	case "sent", "delivered":
		steps = append(steps, Step{"Document Signature", "Signature request sent - check your email", "in_progress"})
	case "signed":
		steps = append(steps, Step{"Document Signed", "Retainer agreement has been signed", "completed"})
	}
	switch {
	case s.PaymentStatus == "pending" && s.PaymentAmount != "":
		steps = append(steps, Step{"Payment Required", "Retainer payment of $" + s.PaymentAmount, "pending"})
	case s.PaymentStatus == "succeeded":
		steps = append(steps, Step{"Payment Completed", "Retainer payment has been processed", "completed"})
	}
	review := Step{"Under Review", "Our team is reviewing your submission", "in_progress"}
	if s.Status == "completed" {
		review.Status = "completed"
	}
	return append(steps, review)
}

type IntakeService struct {
	forms *repository.FormRepo
	subs  *repository.SubmissionRepo
}

func NewIntakeService(forms *repository.FormRepo, subs *repository.SubmissionRepo) *IntakeService {
	return &IntakeService{forms: forms, subs: subs}
}

// Form loads an active form for the public page.
func (s *IntakeService) Form(ctx context.Context, id string) (*models.IntakeForm, error) {
	form, err := s.forms.FindPublic(ctx, id)
	if err != nil {
		return nil, notFound(err, "form")
	}
	return form, nil
}

// Submit posts the values of the rendered inputs and routes the result.
// Only keys that match an input and were filled in are sent.
func (s *IntakeService) Submit(ctx context.Context, form *models.IntakeForm, values url.Values) (Outcome, error) {
	data := make(map[string]any, len(form.FieldsSchema.Order))
	for _, in := range RenderFields(form) {
		if v := strings.TrimSpace(values.Get(in.Name)); v != "" {
			data[in.Name] = v
		}
	}
	res, err := s.subs.Submit(ctx, form.ID, data)
	if err != nil {
		return Outcome{}, err
	}
	return Route(res), nil
}

// Submission loads a submission for the public status pages.
func (s *IntakeService) Submission(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := s.subs.FindPublic(ctx, id)
	if err != nil {
		return nil, notFound(err, "submission")
	}
	return sub, nil
}
