package config

import (
	"time"

	"trexxdash/pkg/contracts"
)

// Application constants
const (
	AppName    = "trexx-dashboard"
	AppVersion = contracts.Version

	// Defaults for the artifacts section
	DefaultArtifactsDir = "artifacts"
	DefaultSessionTTL   = 30 * time.Minute
	DefaultMaxSessions  = 256

	// Cache scopes
	CacheScopeProcess = "process"
	CacheScopeSession = "session"

	// Malformed row policies
	RowPolicyPass   = "pass"
	RowPolicyReject = "reject"
	RowPolicyClamp  = "clamp"

	// Panel defaults
	DefaultHighProbabilityThreshold = 0.75
	DefaultTopFeatures              = 15

	// HTTP
	DefaultRequestTimeout = 30 * time.Second
	DefaultRateLimitRPS   = 100
	DefaultRateLimitBurst = 50
	SessionCookieName     = "trexx_session"
	SessionHeader         = "X-Session-ID"

	DefaultLogFile = "logs/app.log"
)
