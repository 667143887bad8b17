package project

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/CoderPush/pulse-sub001/core"
)

type Project struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description null.String `json:"description"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"` // UTC
	UpdatedAt   time.Time   `json:"updated_at"` // UTC
}

// NewProject contains information needed to create a new Project.
type NewProject struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (np *NewProject) Validate(svc Service) error {
	np.Name = core.CleanString(np.Name)
	np.Description = core.CleanString(np.Description)

	if err := core.Validate.Struct(np); err != nil {
		return err
	}
	return svc.CheckUniqueness(np.Name)
}

// UpdateProject defines what information may be provided to modify an existing Project.
type UpdateProject struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

func (up *UpdateProject) Validate(orig Project, svc Service) error {
	name := core.CleanString(up.Name)
	if name != "" {
		up.Name = name
	} else {
		up.Name = orig.Name
	}
	up.Description = core.CleanString(up.Description)

	if err := core.Validate.Struct(up); err != nil {
		return err
	}
	return svc.CheckUniqueness(up.Name, orig)
}
