package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Email    EmailConfig    `mapstructure:"email"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains authentication settings for the local identity
// provider.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"omitempty,gte=4,lte=31"`

	// RequireEmailConfirmation makes sign-up return a confirmation-pending
	// outcome instead of a session, and blocks sign-in until the guardian
	// confirms their address.
	RequireEmailConfirmation bool `mapstructure:"require_email_confirmation"`
}

// EmailConfig configures the SES confirmation-email sender. Leaving
// FromAddress empty disables outbound email entirely.
type EmailConfig struct {
	AWSRegion   string `mapstructure:"aws_region"`
	FromAddress string `mapstructure:"from_address" validate:"omitempty,email"`
	FromName    string `mapstructure:"from_name"`
	AppBaseURL  string `mapstructure:"app_base_url" validate:"omitempty,url"`
}
