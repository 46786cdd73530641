package kernel

// AuthContext es la sesión autenticada que los middlewares dejan en el request.
// La identidad se establece fuera de este servicio; aquí solo se transporta.
type AuthContext struct {
	UserID   *UserID  `json:"user_id,omitempty"`
	TenantID TenantID `json:"tenant_id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Role     string   `json:"role"`
}

// IsValid verifica que la sesión tenga identidad y agencia
func (a *AuthContext) IsValid() bool {
	if a == nil || a.UserID == nil {
		return false
	}
	return !a.UserID.IsEmpty() && !a.TenantID.IsEmpty()
}

// CurrentRole retorna el rol de la sesión, vacío si no hay sesión
func (a *AuthContext) CurrentRole() string {
	if !a.IsValid() {
		return ""
	}
	return a.Role
}
