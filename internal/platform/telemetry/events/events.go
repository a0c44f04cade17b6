package events

const (
	// NotationRolled is emitted after an expression is evaluated.
	NotationRolled = "notation.rolled"
	// NotationExplained is emitted after an expression is evaluated with
	// its individual dice.
	NotationExplained = "notation.explained"
	// NotationParsed is emitted after an expression is compiled without
	// being evaluated.
	NotationParsed = "notation.parsed"
	// NotationRejected is emitted when an expression fails to parse.
	NotationRejected = "notation.rejected"
)
