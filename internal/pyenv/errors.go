package pyenv

import "errors"

// Sentinel errors for environment operations. Check with errors.Is().
var (
	// ErrEnvMissing indicates the virtual environment directory does not exist.
	ErrEnvMissing = errors.New("pyenv: virtual environment not found")

	// ErrNoInterpreter indicates no base Python interpreter could be located.
	ErrNoInterpreter = errors.New("pyenv: no python interpreter found")

	// ErrLocked indicates another process is bootstrapping the environment.
	ErrLocked = errors.New("pyenv: environment is locked by another process")
)
