package config

// UGMConfig holds the general user/group management settings. Read from the
// environment with cleanenv.ReadEnv.
type UGMConfig struct {
	// Delegated administration (local manager) settings
	DelegationEnabled    bool   `env:"UGM_DELEGATION_ENABLED" env-default:"false"`
	DelegationConfigPath string `env:"UGM_DELEGATION_CONFIG" env-default:""`

	// Fixed super-admin identity, never subject to delegation
	AdminUser string `env:"UGM_ADMIN_USER" env-default:"admin"`

	// Roles that already carry broad management rights; delegation is
	// skipped for principals holding any of them
	AdminRoleNames string `env:"UGM_ADMIN_ROLES" env-default:"admin,manager"`

	// Reserved principal attribute names
	UserIDAttr    string `env:"UGM_USER_ID_ATTR" env-default:"uid"`
	UserLoginAttr string `env:"UGM_USER_LOGIN_ATTR" env-default:"uid"`
}

// AdminRoles returns the parsed admin role name list.
func (c UGMConfig) AdminRoles() []string {
	return ParseAdminRoleNames(c.AdminRoleNames)
}
