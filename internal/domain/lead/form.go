package lead

// FormField describes one input of the public intake form.
type FormField struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"` // text, email, url, file, checkboxes, textarea
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	Accept      string   `json:"accept,omitempty"`
}

// FormSection groups fields under a heading.
type FormSection struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Fields      []FormField `json:"fields"`
}

// FormSchema is the client-facing description of the intake form. The
// required flags mirror the validate tags on SubmitLeadRequest.
var FormSchema = []FormSection{
	{
		ID:          "personal",
		Title:       "Want to understand your visa options?",
		Description: "Submit the form below and our team of experienced attorneys will review your information and send a preliminary assessment of your case based on your goals.",
		Fields: []FormField{
			{Name: "firstName", Label: "First Name", Type: "text", Required: true},
			{Name: "lastName", Label: "Last Name", Type: "text", Required: true},
			{Name: "email", Label: "Email", Type: "email", Required: true},
			{Name: "citizenship", Label: "Country of Citizenship", Type: "text", Required: true},
			{Name: "website", Label: "LinkedIn / Personal Website URL", Type: "url"},
			{Name: "resume", Label: "Resume / CV", Type: "file", Required: true, Accept: ".pdf,.doc,.docx,.odt,.rtf,.txt"},
		},
	},
	{
		ID:    "visa",
		Title: "Visa categories of interest?",
		Fields: []FormField{
			{Name: "visaCategories", Label: "Visa categories", Type: "checkboxes", Required: true, Options: VisaCategories},
		},
	},
	{
		ID:    "help",
		Title: "How can we help you?",
		Fields: []FormField{
			{
				Name:        "helpText",
				Label:       "How can we help you?",
				Type:        "textarea",
				Required:    true,
				Placeholder: "What is your current status and when does it expire? What is your past immigration history? Are you looking for long-term permanent residency or short-term employment visa or both? Are there any timeline considerations?",
			},
		},
	},
}
