// Package config holds the general user/group management settings and the
// admin role name parsing shared by the other packages.
//
// Settings are read from the environment with cleanenv:
//
//	var cfg config.UGMConfig
//	if err := cleanenv.ReadEnv(&cfg); err != nil {
//		// ...
//	}
package config
