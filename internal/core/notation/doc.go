// Package notation parses and evaluates dice notation such as "3d6+2*4".
//
// An expression is normalized (case-folded, whitespace removed), tokenized,
// grouped into a tree where multiplication binds tighter than addition and
// subtraction and equal-precedence operators associate to the left, and then
// compiled into an Evaluator. Each call to an Evaluator rolls its dice again.
//
// Grammar, after normalization:
//
//	expr    = operand { op operand }
//	operand = digits | "d" digits | digits "d" digits
//	op      = "+" | "-" | "*"
//
// Compiled expressions are memoized by their normalized text in a Cache
// owned by an Engine, so repeated requests for the same expression skip the
// parser entirely. The package-level ParseDiceSyntax and Roll functions use a
// process-wide Engine seeded from crypto/rand.
package notation
