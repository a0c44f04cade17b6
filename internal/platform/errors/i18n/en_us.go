package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeNotationEmpty       = "NOTATION_EMPTY"
	CodeNotationInvalid     = "NOTATION_INVALID"
	CodeNotationInvalidDice = "NOTATION_INVALID_DICE"
	CodeNotationOutOfRange  = "NOTATION_OUT_OF_RANGE"
	CodeNotationMalformed   = "NOTATION_MALFORMED"
)

var enUSCatalog = NewCatalog(BaseLocale, map[Code]string{
	// Notation errors
	CodeNotationEmpty:       "Enter a dice expression such as 1d20+5.",
	CodeNotationInvalid:     "{{.Expression}} is not valid dice notation.",
	CodeNotationInvalidDice: "Dice in {{.Expression}} need at least one die and one side.",
	CodeNotationOutOfRange:  "A number in {{.Expression}} is too large.",
	CodeNotationMalformed:   "{{.Expression}} is missing a number or an operator.",
})
