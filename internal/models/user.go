package models

// UserPermissions is the per-user feature flag record.
type UserPermissions struct {
	AddMedicine      bool `json:"addMedicine"`
	DeleteMedicine   bool `json:"deleteMedicine"`
	ExportReports    bool `json:"exportReports"`
	InventoryCheck   bool `json:"inventoryCheck"`
	AddToOrders      bool `json:"addToOrders"`
	ManageUsers      bool `json:"manageUsers"`
	SendAlerts       bool `json:"sendAlerts"`
	ManageOrders     bool `json:"manageOrders"`
	FullAdminAccess  bool `json:"fullAdminAccess"`
	ManageBTM        bool `json:"manageBTM"`
	AccessAdminPanel bool `json:"accessAdminPanel"`
	ManagePersonnel  bool `json:"managePersonnel"`
}

type User struct {
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	PasswordHash string          `json:"passwordHash,omitempty"` // bcrypt; never returned by the API
	FullName     string          `json:"fullName"`
	Email        string          `json:"email,omitempty"`
	Role         string          `json:"role"` // admin, supervisor or member
	JobTitle     string          `json:"jobTitle,omitempty"`
	JoinDate     string          `json:"joinDate,omitempty"`
	Permissions  UserPermissions `json:"permissions"`
}

// Sanitized returns a copy safe to hand to API consumers.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// DefaultPermissions is the permission set for a newly created member.
func DefaultPermissions() UserPermissions {
	return UserPermissions{
		AddMedicine:    true,
		DeleteMedicine: true,
		ExportReports:  true,
		InventoryCheck: true,
		AddToOrders:    true,
	}
}

// AdminPermissions grants every flag.
func AdminPermissions() UserPermissions {
	return UserPermissions{
		AddMedicine: true, DeleteMedicine: true, ExportReports: true,
		InventoryCheck: true, AddToOrders: true, ManageUsers: true,
		SendAlerts: true, ManageOrders: true, FullAdminAccess: true,
		ManageBTM: true, AccessAdminPanel: true, ManagePersonnel: true,
	}
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Username    string           `json:"username"`
	Password    string           `json:"password"`
	FullName    string           `json:"fullName"`
	Email       string           `json:"email"`
	Role        string           `json:"role"`
	JobTitle    string           `json:"jobTitle"`
	Permissions *UserPermissions `json:"permissions,omitempty"`
}

// UpdateUserRequest represents the request body for updating a user.
// Password is optional; empty keeps the current one.
type UpdateUserRequest struct {
	Username    string           `json:"username"`
	Password    string           `json:"password,omitempty"`
	FullName    string           `json:"fullName"`
	Email       string           `json:"email"`
	Role        string           `json:"role"`
	JobTitle    string           `json:"jobTitle"`
	Permissions *UserPermissions `json:"permissions,omitempty"`
}
