package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// For returns the global logger tagged with a component name.
func For(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

// ForApp is For plus the application name, used by command entrypoints.
func ForApp(app, component string) zerolog.Logger {
	return log.Logger.With().Str("app", app).Str("component", component).Logger()
}
