package http

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/brevly/internal/entity"
)

const statusError = "error"

// timeLayout renders timestamps in UTC with millisecond precision, matching the CSV report.
const timeLayout = "2006-01-02T15:04:05.000Z"

var aliasRegexp = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// createLinkRequest represents the structure for a request to create a link.
// CustomShortURL is optional; an alias is generated when it is omitted.
type createLinkRequest struct {
	OriginalURL    string `json:"originalUrl" validate:"required,http_url"`
	CustomShortURL string `json:"customShortUrl" validate:"omitempty,min=3,max=20,alias"`
}

// linkResponse represents the structure for a response containing link information.
type linkResponse struct {
	ID          string `json:"id"`
	OriginalURL string `json:"originalUrl"`
	ShortURL    string `json:"shortUrl"`
	AccessCount int64  `json:"accessCount"`
	CreatedAt   string `json:"createdAt"`
}

func toLinkResponse(link *entity.Link) linkResponse {
	return linkResponse{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortURL:    link.ShortURL,
		AccessCount: link.AccessCount,
		CreatedAt:   link.CreatedAt.UTC().Format(timeLayout),
	}
}

// toLinkResponses never returns nil so an empty result is encoded as [].
func toLinkResponses(links []entity.Link) []linkResponse {
	resp := make([]linkResponse, 0, len(links))
	for i := range links {
		resp = append(resp, toLinkResponse(&links[i]))
	}
	return resp
}

type redirectResponse struct {
	OriginalURL string `json:"originalUrl"`
}

type exportResponse struct {
	FileName  string `json:"fileName"`
	PublicURL string `json:"publicUrl"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// validationError represents an individual validation error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []validationError `json:"errors,omitempty"`
}

var (
	emptyRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "empty request body",
	}

	invalidRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "invalid request body",
	}

	aliasConflictResponse = errorResponse{
		Status:  statusError,
		Message: "short url already exists",
	}

	linkNotFoundResponse = errorResponse{
		Status:  statusError,
		Message: "link not found",
	}

	serverErrorResponse = errorResponse{
		Status:  statusError,
		Message: "server error occurred",
	}
)

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "http_url":
		return "invalid url, expected http:// or https://"
	case "min", "max":
		return "must be between 3 and 20 characters"
	case "alias":
		return "may only contain letters, digits, hyphens and underscores"
	default:
		return "invalid value"
	}
}

func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return validationErrs
}

func validationErrorResponse(err error) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors:  getValidationErrors(err),
	}
}

// newValidate returns a validator that reports JSON field names and knows the alias tag.
func newValidate() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag or a nil func.
	_ = validate.RegisterValidation("alias", func(fl validator.FieldLevel) bool {
		return aliasRegexp.MatchString(fl.Field().String())
	})

	return validate
}
