package labeling

import (
	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/shared"
)

// ErrNoTemplatesAvailable is returned when resolution has nothing to fall back to
var ErrNoTemplatesAvailable = shared.NewDomainError("NO_TEMPLATES_AVAILABLE", "Account has no label templates")

// ResolveTemplate picks the template governing a print request.
//
// Precedence: the explicitly requested id if it is present in the available
// set, then the account default id if present, then the first available
// template in stable order. A requested or default id that no longer exists
// falls through silently so printing stays unblocked; only an empty account
// fails, with ErrNoTemplatesAvailable.
func ResolveTemplate(explicitID, accountDefaultID *uuid.UUID, available []LabelTemplate) (*LabelTemplate, error) {
	if explicitID != nil {
		if t := findByID(available, *explicitID); t != nil {
			return t, nil
		}
	}
	if accountDefaultID != nil {
		if t := findByID(available, *accountDefaultID); t != nil {
			return t, nil
		}
	}
	if len(available) > 0 {
		return &available[0], nil
	}
	return nil, ErrNoTemplatesAvailable
}

func findByID(templates []LabelTemplate, id uuid.UUID) *LabelTemplate {
	for i := range templates {
		if templates[i].ID == id {
			return &templates[i]
		}
	}
	return nil
}
