package domain

import "errors"

var (
	ErrClassGroupNotFound = errors.New("class group not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrCredentialExists   = errors.New("credential already exists for this team")
)
