package resume

import "github.com/Abraxas-365/recruitdesk/pkg/ptrx"

// ExtractedResumeFields es el resultado best-effort de una extracción.
// Un campo nil significa "no encontrado", nunca un error.
type ExtractedResumeFields struct {
	Name            *string `json:"name,omitempty"`
	Email           *string `json:"email,omitempty"`
	Mobile          *string `json:"mobile,omitempty"`
	CurrentJobTitle *string `json:"current_job_title,omitempty"`
	ExperienceYears *int    `json:"experience_years,omitempty"`
	City            *string `json:"city,omitempty"`
	State           *string `json:"state,omitempty"`
}

// IsEmpty reports whether no field was found
func (f ExtractedResumeFields) IsEmpty() bool {
	return len(f.Found()) == 0
}

// IsComplete reports whether every field was found
func (f ExtractedResumeFields) IsComplete() bool {
	return len(f.Found()) == 7
}

// Found lists the names of populated fields
func (f ExtractedResumeFields) Found() []string {
	found := []string{}
	if f.Name != nil {
		found = append(found, "name")
	}
	if f.Email != nil {
		found = append(found, "email")
	}
	if f.Mobile != nil {
		found = append(found, "mobile")
	}
	if f.CurrentJobTitle != nil {
		found = append(found, "current_job_title")
	}
	if f.ExperienceYears != nil {
		found = append(found, "experience_years")
	}
	if f.City != nil {
		found = append(found, "city")
	}
	if f.State != nil {
		found = append(found, "state")
	}
	return found
}

// FillMissing returns a copy of f where absent fields are taken from other.
// Fields already present in f always win. City and state are taken as a pair.
func (f ExtractedResumeFields) FillMissing(other ExtractedResumeFields) ExtractedResumeFields {
	out := f.Clone()
	if out.Name == nil && other.Name != nil {
		out.Name = ptrx.String(*other.Name)
	}
	if out.Email == nil && other.Email != nil {
		out.Email = ptrx.String(*other.Email)
	}
	if out.Mobile == nil && other.Mobile != nil {
		out.Mobile = ptrx.String(*other.Mobile)
	}
	if out.CurrentJobTitle == nil && other.CurrentJobTitle != nil {
		out.CurrentJobTitle = ptrx.String(*other.CurrentJobTitle)
	}
	if out.ExperienceYears == nil && other.ExperienceYears != nil {
		out.ExperienceYears = ptrx.Int(*other.ExperienceYears)
	}
	if out.City == nil && out.State == nil && other.City != nil && other.State != nil {
		out.City = ptrx.String(*other.City)
		out.State = ptrx.String(*other.State)
	}
	return out
}

// Clone copia los punteros para que el resultado no comparta memoria
func (f ExtractedResumeFields) Clone() ExtractedResumeFields {
	clone := func(s *string) *string {
		if s == nil {
			return nil
		}
		return ptrx.String(*s)
	}
	out := ExtractedResumeFields{
		Name:            clone(f.Name),
		Email:           clone(f.Email),
		Mobile:          clone(f.Mobile),
		CurrentJobTitle: clone(f.CurrentJobTitle),
		City:            clone(f.City),
		State:           clone(f.State),
	}
	if f.ExperienceYears != nil {
		out.ExperienceYears = ptrx.Int(*f.ExperienceYears)
	}
	return out
}
