package wizard

import (
	"strings"
	"testing"
)

func completeForm() FormData {
	return FormData{
		FullName:     "Amina Otieno",
		Organization: "Coastal Health Initiative",
		Role:         "Programme Director",
		Email:        "amina@coastalhealth.org",
		Phone:        "712345678",
		CountryCode:  "+254",
		Services:     []string{"Research & Insights"},
		Description:  "We need a baseline study for our maternal health programme.",
		Budget:       "$5,000 - $20,000",
		Timeframe:    "1 - 3 months",
		Consent:      true,
	}
}

func TestStepValidRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		step   int
		mutate func(f *FormData)
	}{
		{"missing name", StepName, func(f *FormData) { f.FullName = "   " }},
		{"missing organization", StepOrganization, func(f *FormData) { f.Organization = "" }},
		{"missing email", StepContact, func(f *FormData) { f.Email = "" }},
		{"malformed email", StepContact, func(f *FormData) { f.Email = "not-an-email" }},
		{"missing phone", StepContact, func(f *FormData) { f.Phone = "" }},
		{"no services", StepProject, func(f *FormData) { f.Services = nil }},
		{"blank description", StepProject, func(f *FormData) { f.Description = " " }},
		{"missing timeframe", StepTimeframe, func(f *FormData) { f.Timeframe = "" }},
		{"no consent", StepReview, func(f *FormData) { f.Consent = false }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := completeForm()
			if !StepValid(form, tc.step) {
				t.Fatalf("complete form should pass step %d", tc.step)
			}
			tc.mutate(&form)
			if StepValid(form, tc.step) {
				t.Fatalf("step %d should fail after %s", tc.step, tc.name)
			}
			if len(StepErrors(form, tc.step)) == 0 {
				t.Fatalf("expected field errors for step %d", tc.step)
			}
		})
	}
}

func TestStepValidAllStepsOnCompleteForm(t *testing.T) {
	form := completeForm()
	for step := FirstStep; step <= FinalStep; step++ {
		if !StepValid(form, step) {
			t.Fatalf("step %d should be valid, errors: %v", step, StepErrors(form, step))
		}
	}
	if StepValid(form, FinalStep+1) {
		t.Fatalf("out-of-range step should never be valid")
	}
}

func TestStepValidOtherServiceNotRequired(t *testing.T) {
	form := completeForm()
	form.Services = []string{ServiceOther}
	form.OtherService = ""
	if !StepValid(form, StepProject) {
		t.Fatalf("selecting Other without naming the service should still pass step %d", StepProject)
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "jane.doe@firm.example.com", "x+tag@y.org"}
	for _, e := range valid {
		if !ValidEmail(e) {
			t.Errorf("expected %q to be valid", e)
		}
	}
	invalid := []string{"", "plain", "a@b", "@b.co", "a @b.co"}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Errorf("expected %q to be invalid", e)
		}
	}
}

func TestUpdateRequestApplyPartial(t *testing.T) {
	form := completeForm()
	role := "Advisor"
	req := UpdateRequest{Role: &role}
	if errs := req.Apply(&form); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if form.Role != "Advisor" {
		t.Fatalf("role not applied, got %q", form.Role)
	}
	if form.FullName != "Amina Otieno" {
		t.Fatalf("unset fields must be untouched, name became %q", form.FullName)
	}
}

func TestUpdateRequestApplyRejectsUnknownEnums(t *testing.T) {
	form := completeForm()
	badService := []string{"Astrology"}
	badBudget := "One million"
	badTimeframe := "Yesterday"
	req := UpdateRequest{
		Services:  &badService,
		Budget:    &badBudget,
		Timeframe: &badTimeframe,
	}
	errs := req.Apply(&form)
	for _, field := range []string{"services", "budget", "timeframe"} {
		if errs[field] == "" {
			t.Errorf("expected an error for %s", field)
		}
	}
	if form.Services[0] != "Research & Insights" || form.Budget != "$5,000 - $20,000" {
		t.Fatalf("rejected values must not be applied: %v %q", form.Services, form.Budget)
	}
}

func TestUpdateRequestApplyDescriptionBound(t *testing.T) {
	form := completeForm()
	long := strings.Repeat("x", MaxDescriptionLen+1)
	req := UpdateRequest{Description: &long}
	if errs := req.Apply(&form); errs["description"] == "" {
		t.Fatalf("overlong description should be rejected")
	}
	if len(form.Description) > MaxDescriptionLen {
		t.Fatalf("overlong description was applied")
	}

	exact := strings.Repeat("y", MaxDescriptionLen)
	req = UpdateRequest{Description: &exact}
	if errs := req.Apply(&form); len(errs) != 0 {
		t.Fatalf("description at the bound should be accepted: %v", errs)
	}
}

func TestValidateAttachment(t *testing.T) {
	if err := ValidateAttachment("proposal.pdf", 10<<20, "application/pdf"); err != nil {
		t.Fatalf("10MB pdf should be accepted: %v", err)
	}
	if err := ValidateAttachment("brief.docx", 1<<20, ""); err != nil {
		t.Fatalf("docx without content type should be accepted: %v", err)
	}
	if err := ValidateAttachment("proposal.pdf", 25<<20, "application/pdf"); err != ErrAttachmentTooLarge {
		t.Fatalf("25MB file should be rejected as too large, got %v", err)
	}
	if err := ValidateAttachment("photo.png", 1<<10, "image/png"); err != ErrAttachmentType {
		t.Fatalf("png should be rejected by type, got %v", err)
	}
	if err := ValidateAttachment("empty.pdf", 0, "application/pdf"); err != ErrAttachmentEmpty {
		t.Fatalf("empty file should be rejected, got %v", err)
	}
}
