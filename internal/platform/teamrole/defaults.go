package teamrole

// Built-in TeamRole names used when no configuration overrides them.
const (
	DefaultTeamRoleName        = "Member"
	DefaultViewCreatorRoleName = "View Admin"
)

// Defaults names the TeamRoles the platform assigns by itself: Team is
// given to new teams created without a role, ViewCreator to the creator
// team of a new View. Neither may be deleted or renamed.
type Defaults struct {
	Team        string
	ViewCreator string
}

// DefaultNames returns the built-in Defaults.
func DefaultNames() Defaults {
	return Defaults{Team: DefaultTeamRoleName, ViewCreator: DefaultViewCreatorRoleName}
}

// Protects reports whether name is one of the default role names.
func (d Defaults) Protects(name string) bool {
	return name != "" && (name == d.Team || name == d.ViewCreator)
}
