// Package file stores exploration records as JSON files, one per session.
package file
