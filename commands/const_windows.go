package commands

const (
	_etc = `C:\sheetsync`
	_var = `C:\sheetsync`

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + `\.google\credentials.json`
)
