package entities

import "strings"

// UnnamedPlaceholder replaces a blank name on update and import.
const UnnamedPlaceholder = "(Unnamed)"

// Gender of a person. Empty means unknown.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// IsValid reports whether g is empty or one of the known genders.
func (g Gender) IsValid() bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// MemberRole selects the display label for spouses who married into the family.
// It never changes relationship semantics.
type MemberRole string

const (
	RoleMain          MemberRole = "main"
	RoleDaughterInLaw MemberRole = "daughter-in-law"
	RoleSonInLaw      MemberRole = "son-in-law"
)

// IsValid reports whether r is empty or one of the known roles.
func (r MemberRole) IsValid() bool {
	switch r {
	case "", RoleMain, RoleDaughterInLaw, RoleSonInLaw:
		return true
	}
	return false
}

// Person is a member of the family tree.
type Person struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Title      string     `json:"title,omitempty"`
	Address    string     `json:"address,omitempty"`
	BirthPlace string     `json:"birthPlace,omitempty"`
	BuriedAt   string     `json:"buriedAt,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Avatar     string     `json:"avatar,omitempty"` // opaque image reference, e.g. a data URL
	Gender     Gender     `json:"gender,omitempty"`
	BirthDate  FlexDate   `json:"birthDate,omitempty"`
	DeathDate  FlexDate   `json:"deathDate,omitempty"`
	MemberRole MemberRole `json:"memberRole,omitempty"`
}

// Role returns the member role, defaulting to RoleMain.
func (p Person) Role() MemberRole {
	if p.MemberRole == "" {
		return RoleMain
	}
	return p.MemberRole
}

// IsDeceased reports whether a death date is recorded.
func (p Person) IsDeceased() bool {
	return !p.DeathDate.IsEmpty()
}

// PersonUpdate is a partial replacement of a Person's fields.
// Nil fields are left untouched.
type PersonUpdate struct {
	Name       *string
	Title      *string
	Address    *string
	BirthPlace *string
	BuriedAt   *string
	Notes      *string
	Avatar     *string
	Gender     *Gender
	BirthDate  *FlexDate
	DeathDate  *FlexDate
	MemberRole *MemberRole
}

// Apply returns a copy of p with the non-nil fields of u applied.
func (u PersonUpdate) Apply(p Person) Person {
	setString(&p.Name, u.Name)
	setString(&p.Title, u.Title)
	setString(&p.Address, u.Address)
	setString(&p.BirthPlace, u.BirthPlace)
	setString(&p.BuriedAt, u.BuriedAt)
	setString(&p.Notes, u.Notes)
	setString(&p.Avatar, u.Avatar)
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.BirthDate != nil {
		p.BirthDate = *u.BirthDate
	}
	if u.DeathDate != nil {
		p.DeathDate = *u.DeathDate
	}
	if u.MemberRole != nil {
		p.MemberRole = *u.MemberRole
	}
	return p
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// SafeName trims name and substitutes UnnamedPlaceholder when nothing is left.
func SafeName(name string) string {
	if s := strings.TrimSpace(name); s != "" {
		return s
	}
	return UnnamedPlaceholder
}

// NormalizeName converts a name to lowercase for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Validate checks the enumerated fields of p. Name is checked by the store
// because its policy differs between add and import.
func (p Person) Validate() error {
	if !p.Gender.IsValid() {
		return NewValidationError("gender", "unknown gender %q", p.Gender)
	}
	if !p.MemberRole.IsValid() {
		return NewValidationError("memberRole", "unknown member role %q", p.MemberRole)
	}
	return nil
}
