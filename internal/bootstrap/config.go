package bootstrap

import (
	"fmt"

	"github.com/go-authgate/hybridauth/internal/config"

	"go.uber.org/zap"
)

// validateAllConfiguration validates all configuration settings
func validateAllConfiguration(cfg *config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logAuthConfig(cfg, log)
	return nil
}

// logAuthConfig reports which backends will handle credentials
func logAuthConfig(cfg *config.Config, log *zap.Logger) {
	if !cfg.LDAPEnabled {
		log.Info("LDAP disabled: users without a local record cannot sign in")
		return
	}
	log.Info("LDAP enabled",
		zap.String("url", cfg.LDAPURL),
		zap.String("base_dn", cfg.LDAPBaseDN),
		zap.Bool("start_tls", cfg.LDAPStartTLS))
	if cfg.LDAPInsecureSkipVerify {
		log.Warn("LDAP TLS certificate verification is disabled")
	}
	if cfg.LDAPBindDN == "" {
		log.Warn("LDAP_BIND_DN not set: user search runs anonymously")
	}
}
