package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleFor(t *testing.T) {
	tests := []struct {
		name     string
		objType  string
		metadata map[string]any
		want     string
	}{
		{"project with name", TypeProjects, map[string]any{"project_name": "Folio"}, "Folio"},
		{"project without name", TypeProjects, map[string]any{}, "New Project"},
		{"project with empty name", TypeProjects, map[string]any{"project_name": ""}, "New Project"},
		{"skill without name", TypeSkills, nil, "New Skill"},
		{"testimonial with client", TypeTestimonials, map[string]any{"client_name": "Ada"}, "Ada"},
		{"contact info", TypeContactInfo, nil, "New Contact Info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFor(tt.objType, tt.metadata))
		})
	}
}

func TestNouns(t *testing.T) {
	assert.Equal(t, "project", Singular(TypeProjects))
	assert.Equal(t, "projects", Plural(TypeProjects))
	assert.Equal(t, "contact info", Plural(TypeContactInfo))
	assert.Equal(t, "widgets", Plural("widgets"))
}

func TestValidateForm(t *testing.T) {
	err := ValidateForm(TypeProjects, map[string]any{"project_name": "Folio"})
	assert.True(t, errors.Is(err, ErrMissingField))
	var fe *FieldError
	assert.True(t, errors.As(err, &fe))
	assert.Equal(t, "short_description", fe.Field)

	assert.NoError(t, ValidateForm(TypeProjects, map[string]any{
		"project_name":      "Folio",
		"short_description": "Portfolio admin",
	}))
	assert.NoError(t, ValidateForm(TypeContactInfo, nil))
	assert.Error(t, ValidateForm(TypeSkills, map[string]any{"skill_name": nil}))
}
