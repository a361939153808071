package validation

import (
	"strings"

	"github.com/inkwell/inkwell/internal/model"
)

// SignupRules validate the signup request.
var SignupRules = []Rule{
	{Field: "firstName", Message: "First name is required.", Check: present},
	{Field: "lastName", Message: "Last name is required.", Check: present},
	{Field: "email", Message: "Email is required.", Check: present},
	{Field: "email", Message: "Email address is not valid.", Check: validEmail},
	{Field: "password", Message: "Password is required.", Check: present},
	{Field: "password", Message: "Password must be a minimum of 8 characters.", Check: minPassword},
	{Field: "confirmPassword", Message: "Please confirm your password by re-entering it in the 'Confirm Password' field.", Check: present},
	{Field: "confirmPassword", Message: "Password and confirm password fields do not match.", Check: matchesPassword},
}

// LoginRules validate the login request.
var LoginRules = []Rule{
	{Field: "email", Message: "Email cannot be empty.", Check: present},
	{Field: "email", Message: "Enter a valid email address.", Check: validEmail},
	{Field: "password", Message: "Password cannot be empty.", Check: present},
	{Field: "password", Message: "Password must be a minimum of 8 characters.", Check: minPassword},
}

// CreateArticleRules validate the article creation request.
var CreateArticleRules = []Rule{
	{Field: "title", Message: "Title is required.", Check: present},
	{Field: "description", Message: "Description is required.", Check: present},
	{Field: "body", Message: "Body content is required.", Check: present},
	{Field: "tags", Message: "Tags are required.", Check: present},
}

// UpdateArticleRules validate the article update request.
// State is optional; when supplied it must be one of the two states.
var UpdateArticleRules = []Rule{
	{
		Field:   "state",
		Message: "Invalid state. Please ensure the article state is either 'draft' or 'published'.",
		Check: func(value string, _ Fields) bool {
			trimmed := strings.TrimSpace(value)
			if trimmed == "" {
				return true
			}
			return model.ArticleState(trimmed).IsValid()
		},
	},
}
