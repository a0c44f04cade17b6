// Package events names the roll log events emitted by the notation service.
package events
