package auth

// Roles carried in the JWT "role" claim.
const (
	RoleAdmin    = "admin"
	RoleUser     = "user"
	RoleQAAgency = "qa_agency"
)
