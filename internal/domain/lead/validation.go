package lead

import (
	"encoding/json"
	"slices"
	"strings"

	govalidator "github.com/go-playground/validator/v10"

	"leadintake/internal/pkg/validator"
)

func init() {
	validator.RegisterValidation("visa_category", func(fl govalidator.FieldLevel) bool {
		return slices.Contains(VisaCategories, fl.Field().String())
	})
}

// ValidateSubmission checks the intake form and returns one message per
// failing field, or nil. It trims text fields and de-duplicates visa
// categories in place so the stored lead matches what was validated.
func ValidateSubmission(req *SubmitLeadRequest) map[string]string {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.Citizenship = strings.TrimSpace(req.Citizenship)
	req.Website = strings.TrimSpace(req.Website)
	req.HelpText = strings.TrimSpace(req.HelpText)
	req.VisaCategories = dedupe(req.VisaCategories)

	errs := validator.Validate(req)
	if errs == nil {
		return nil
	}
	if _, ok := errs["visaCategories"]; ok {
		if len(req.VisaCategories) == 0 {
			errs["visaCategories"] = "Select at least one visa category"
		} else {
			errs["visaCategories"] = "Unknown visa category; choose from: " + strings.Join(VisaCategories, ", ")
		}
	}
	if _, ok := errs["resume"]; ok {
		errs["resume"] = "Please attach your resume"
	}
	return errs
}

// ParseVisaCategories reads the form value(s). The original client sends a
// single JSON-encoded array; plain repeated values are accepted as well.
func ParseVisaCategories(values []string) ([]string, error) {
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var out []string
		if err := json.Unmarshal([]byte(values[0]), &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
