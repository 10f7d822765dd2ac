// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP ports,
// TLS, logging level, and request limits. AppConfig is everything
// specific to LoreHub.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm in the pool

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: lorehub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Account configuration
	BcryptCost int // bcrypt work factor for password hashing (0 means library default)

	// GroupInheritance controls where a newly created arc, event,
	// character, or organization gets its groups_allowed list when the
	// request does not supply one: "inherit_from_parent" copies the
	// campaign's list, "caller_supplied" starts empty.
	GroupInheritance string

	// Base URL the service is reachable at (used in logs and links)
	BaseURL string
}
