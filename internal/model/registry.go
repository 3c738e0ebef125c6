package model

import "sync"

// The schema registry maps a stable schema name to the model prototype that
// AutoMigrate should receive. Registration is explicit and idempotent:
// registering the same name twice is a no-op, not an error, so package init
// order and repeated bootstrap calls cannot double-register a table.

var (
	registryMu    sync.Mutex
	registryNames = make(map[string]bool)
	registryOrder []interface{}
)

// RegisterSchema adds a model prototype under a stable name. Later
// registrations of the same name are ignored.
func RegisterSchema(name string, prototype interface{}) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if registryNames[name] {
		return
	}
	registryNames[name] = true
	registryOrder = append(registryOrder, prototype)
}

// RegisteredSchemas returns the prototypes in registration order, ready to be
// passed to gorm AutoMigrate.
func RegisteredSchemas() []interface{} {
	registryMu.Lock()
	defer registryMu.Unlock()

	out := make([]interface{}, len(registryOrder))
	copy(out, registryOrder)
	return out
}

// IsSchemaRegistered reports whether a schema name has been registered.
func IsSchemaRegistered(name string) bool {
	registryMu.Lock()
	defer registryMu.Unlock()
	return registryNames[name]
}

func init() {
	RegisterSchema("users", &User{})
	RegisterSchema("assessment_sessions", &AssessmentSession{})
	RegisterSchema("domain_scores", &DomainScore{})
	RegisterSchema("advisor_invitations", &AdvisorInvitation{})
	RegisterSchema("advisor_responses", &AdvisorResponse{})
	RegisterSchema("experiments", &Experiment{})
	RegisterSchema("experiment_milestones", &ExperimentMilestone{})
	RegisterSchema("insights", &Insight{})
	RegisterSchema("reports", &Report{})
}
