package constants

const (
	ViewData           = "view_data"
	ManageProjects     = "manage_projects"
	RecordPayment      = "record_payment"
	OverrideLedger     = "override_ledger"
	ManageServices     = "manage_services"
	ManageQuotations   = "manage_quotations"
	ManageContacts     = "manage_contacts"
	ManageApplications = "manage_applications"
	AssignRole         = "assign_role"
	RemoveUser         = "remove_user"
)

// PermissionRoles maps each permission to roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ViewData:           {Viewer, Manager, Admin, Superadmin},
	ManageProjects:     {Manager, Admin, Superadmin},
	RecordPayment:      {Manager, Admin, Superadmin},
	OverrideLedger:     {Admin, Superadmin},
	ManageServices:     {Manager, Admin, Superadmin},
	ManageQuotations:   {Manager, Admin, Superadmin},
	ManageContacts:     {Manager, Admin, Superadmin},
	ManageApplications: {Manager, Admin, Superadmin},
	AssignRole:         {Admin, Superadmin},
	RemoveUser:         {Admin, Superadmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
