package entity

import "time"

// Roles válidos para User. Se llevan en el token y definen la variante de Principal.
const (
	RoleSuperuser   = "superuser"
	RoleResponsible = "responsible"
	RoleManager     = "manager"
)

// User usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
