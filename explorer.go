package explorer

import (
	_ "embed"
	"strings"

	"github.com/ewallt/ai-subject-explorer/pkg/adapters/mock"
	"github.com/ewallt/ai-subject-explorer/pkg/navigator"
)

//go:embed VERSION
var rawVersion string

// Version is the release of this module.
var Version = strings.TrimSpace(rawVersion)

// NewMock returns a controller backed by the in-process mock topic service.
// It is the quickest way to embed the explorer without a server.
func NewMock(opts ...navigator.Option) *navigator.Controller {
	return navigator.New(mock.New(), opts...)
}
