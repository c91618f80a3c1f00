// Package memory provides an in-process ports.SessionStore.
package memory
