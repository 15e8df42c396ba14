package services

import "errors"

// Shared sentinel errors used across services and the HTTP error mapping.
var (
	// Lookup failures.
	ErrNotFound       = errors.New("requested resource not found")
	ErrLeagueNotFound = errors.New("league not found")
	ErrSeasonNotFound = errors.New("season not found")
	ErrRoundNotFound  = errors.New("round not found")

	// Invalid configuration: bad input at the call that receives it,
	// never silently clamped.
	ErrInvalidBracketSize   = errors.New("bracket size must be a power of 2 greater than 1")
	ErrInvalidGamesPerMatch = errors.New("games per match must be at least 1")
	ErrInvalidLegsPerStage  = errors.New("matches per stage must be at least 1")
	ErrInvalidSeedingStyle  = errors.New("unknown seeding style")
	ErrInvalidTiebreakValue = errors.New("manual tiebreak value must be non-zero")
	ErrInvalidGameResult    = errors.New("unrecognized game result")
	ErrUnknownScoringPreset = errors.New("unknown scoring preset")
	ErrBracketAlreadyExists = errors.New("season already has a knockout bracket")
	ErrSeasonNotKnockout    = errors.New("season has no knockout bracket")

	// Unresolved competition: a tied match blocks advancement until an
	// operator records a manual tiebreak.
	ErrMatchUnresolved = errors.New("match is tied and needs manual resolution")

	// Precondition violations.
	ErrStageIncomplete   = errors.New("stage is not complete")
	ErrRoundNotReady     = errors.New("round has unfinished matches")
	ErrSnapshotsDisabled = errors.New("snapshot archival is not configured")

	// Authentication.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrEmailTaken         = errors.New("email address is already in use")
)
