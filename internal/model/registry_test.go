package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterSchemaIsIdempotent(t *testing.T) {
	before := len(RegisteredSchemas())

	// Re-registering an existing schema must be a no-op.
	RegisterSchema("advisor_invitations", &AdvisorInvitation{})
	RegisterSchema("advisor_invitations", &AdvisorInvitation{})

	assert.Equal(t, before, len(RegisteredSchemas()))
	assert.True(t, IsSchemaRegistered("advisor_invitations"))
}

func TestCoreSchemasRegisteredAtInit(t *testing.T) {
	for _, name := range []string{
		"users",
		"assessment_sessions",
		"domain_scores",
		"advisor_invitations",
		"advisor_responses",
		"experiments",
		"experiment_milestones",
		"insights",
		"reports",
	} {
		assert.Truef(t, IsSchemaRegistered(name), "schema %s not registered", name)
	}
}

func TestRegisteredSchemasReturnsCopy(t *testing.T) {
	a := RegisteredSchemas()
	a[0] = nil
	b := RegisteredSchemas()
	assert.NotNil(t, b[0])
}
