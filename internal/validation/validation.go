// Package validation runs the local pre-flight checks of the form inputs.
// Failures never reach the gateway.
package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/spigell/resume-ai/internal/ai"
)

const (
	MsgMissingDocument       = "Please upload a resume first."
	MsgMissingJobDescription = "Please enter a job description."
	MsgBuilderRequired       = "Please fill in at least Name, Target Role, and Experience."
	MsgRoleRequired          = "Job Role is required."
	MsgEmptyChatMessage      = "Please enter a message."
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		mustRegister(validate, "notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		mustRegister(validate, "experience_level", oneOf(ai.ExperienceLevels))
		mustRegister(validate, "work_mode", oneOf(ai.WorkModes))
		mustRegister(validate, "salary_range", oneOf(ai.SalaryRanges))
		mustRegister(validate, "company_size", oneOf(ai.CompanySizes))
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}

// Analysis checks a general (match=false) or job-fit (match=true) request.
func Analysis(req ai.AnalysisRequest, match bool) error {
	if req.Document == nil || len(req.Document.Data) == 0 {
		return ai.Validation(MsgMissingDocument)
	}
	if match && strings.TrimSpace(req.JobDescription) == "" {
		return ai.Validation(MsgMissingJobDescription)
	}
	return nil
}

// ResumeInput requires name, target role and experience notes.
func ResumeInput(in ai.ResumeBuilderInput) error {
	if err := instance().Struct(in); err != nil {
		return translate(err, func(validator.FieldError) string { return MsgBuilderRequired })
	}
	return nil
}

// JobSearch requires a role and known values for the enumerated filters.
func JobSearch(p ai.JobSearchParams) error {
	if err := instance().Struct(p); err != nil {
		return translate(err, func(fe validator.FieldError) string {
			if fe.Field() == "Role" {
				return MsgRoleRequired
			}
			return fmt.Sprintf("Unsupported %s: %q.", fieldLabel(fe.Field()), fe.Value())
		})
	}
	return nil
}

// ChatText rejects blank chat input.
func ChatText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ai.Validation(MsgEmptyChatMessage)
	}
	return nil
}

func translate(err error, message func(validator.FieldError) string) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ai.Error{Kind: ai.KindValidation, Message: message(fieldErrs[0]), Err: err}
	}
	return &ai.Error{Kind: ai.KindValidation, Message: ai.KindValidation.UserMessage(""), Err: err}
}

func fieldLabel(field string) string {
	switch field {
	case "ExperienceLevel":
		return "experience level"
	case "WorkMode":
		return "work mode"
	case "SalaryRange":
		return "salary range"
	case "CompanySize":
		return "company size"
	default:
		return strings.ToLower(field)
	}
}
