package session

import (
	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries the routing and storage knobs for the session subsystem.
// Values load from SESSION_-prefixed environment variables, with an optional
// .env file for development.
type Config struct {
	// LoginRoute is where unauthenticated navigation is redirected.
	LoginRoute string `env:"LOGIN_ROUTE" envDefault:"/login"`

	// DefaultHomeRoute is the landing page for roles without a mapping.
	DefaultHomeRoute string `env:"DEFAULT_HOME_ROUTE" envDefault:"/dashboard"`

	// HomeRoutes maps roles to their landing pages, e.g.
	// "admin:/admin/dashboard,lecturer:/lecturer/dashboard".
	HomeRoutes map[string]string `env:"HOME_ROUTES"`

	// RejectedRouteKey is the cookie carrying the originally requested
	// location across a login redirect.
	RejectedRouteKey     string `env:"REJECTED_ROUTE_KEY" envDefault:"rejected_route"`
	RejectedRouteDefault string `env:"REJECTED_ROUTE_DEFAULT" envDefault:"/dashboard"`

	// StorePath enables the file store when set.
	StorePath string `env:"STORE_PATH"`

	// RedisAddr enables the redis store when set.
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisNamespace string `env:"REDIS_NAMESPACE" envDefault:"apsas:session"`

	// MockAuth permits LoginMock outside of tests.
	MockAuth bool `env:"MOCK_AUTH" envDefault:"false"`
}

// DefaultConfig returns the configuration used when nothing is injected.
func DefaultConfig() *Config {
	return &Config{
		LoginRoute:           "/login",
		DefaultHomeRoute:     "/dashboard",
		HomeRoutes:           defaultHomeRoutes(),
		RejectedRouteKey:     "rejected_route",
		RejectedRouteDefault: "/dashboard",
		RedisNamespace:       "apsas:session",
	}
}

// LoadConfig reads SESSION_* environment variables, loading a .env file
// first when one is present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "SESSION_"}); err != nil {
		return nil, err
	}

	if len(cfg.HomeRoutes) == 0 {
		cfg.HomeRoutes = defaultHomeRoutes()
	}

	return cfg, nil
}

func defaultHomeRoutes() map[string]string {
	return map[string]string{
		RoleStudent:  "/dashboard",
		RoleLecturer: "/lecturer/dashboard",
		RoleProvider: "/provider/dashboard",
		RoleAdmin:    "/admin/dashboard",
	}
}

// HomeRoute returns the landing page for a role, falling back to the
// default home route for unmapped roles.
func (c *Config) HomeRoute(role UserRole) string {
	if route, ok := c.HomeRoutes[string(role)]; ok && route != "" {
		return route
	}
	return c.DefaultHomeRoute
}
