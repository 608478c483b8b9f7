// Package validation holds the apply form rules.
package validation

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/fadilmartias/job-board/internal/dto"
	"github.com/fadilmartias/job-board/internal/model"
	"github.com/fadilmartias/job-board/internal/util"
	"github.com/go-playground/validator/v10"
)

// Accepted resume content types.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDoc  = "application/msword"
	ContentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// integerLiteral admits no sign, so a matching value is never negative.
var integerLiteral = regexp.MustCompile(`^\d+$`)

var fieldMessages = map[string]string{
	"experience": "Experience must be a number",
	"skills":     "Skills are required",
	"education":  "Education is required",
	"resume":     "Resume must be in PDF or Word format",
}

// ApplyForm holds the raw values entered in the apply form.
type ApplyForm struct {
	Experience string          `json:"experience" validate:"intliteral"`
	Skills     string          `json:"skills" validate:"required"`
	Education  string          `json:"education" validate:"oneof=Intermediate Graduate Post-Graduate"`
	Resume     *dto.ResumeFile `json:"resume"`
}

// Application is a form that passed validation, with experience coerced.
type Application struct {
	Experience int
	Skills     string
	Education  model.Education
	Resume     dto.ResumeFile
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("intliteral", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if !integerLiteral.MatchString(s) {
			return false
		}
		_, err := strconv.Atoi(s)
		return err == nil
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		form := sl.Current().Interface().(ApplyForm)
		if !AcceptedResume(form.Resume) {
			sl.ReportError(form.Resume, "resume", "Resume", "resume", "")
		}
	}, ApplyForm{})
	return v
}

// AcceptedResume reports whether a file is selected and declared as PDF or
// Word document.
func AcceptedResume(f *dto.ResumeFile) bool {
	if f == nil {
		return false
	}
	ct := strings.ToLower(strings.TrimSpace(f.ContentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case ContentTypePDF, ContentTypeDoc, ContentTypeDocx:
		return true
	default:
		return false
	}
}

// ValidateApplyForm checks every field independently and returns all failures
// at once as a *util.FormError keyed by field name.
func ValidateApplyForm(form ApplyForm) (*Application, error) {
	err := validate.Struct(form)
	if err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			if _, seen := fields[fe.Field()]; seen {
				continue
			}
			fields[fe.Field()] = fieldMessages[fe.Field()]
		}
		return nil, util.NewFormError("invalid application form", fields)
	}

	experience, _ := strconv.Atoi(form.Experience)
	return &Application{
		Experience: experience,
		Skills:     form.Skills,
		Education:  model.Education(form.Education),
		Resume:     *form.Resume,
	}, nil
}
