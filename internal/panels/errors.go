package panels

import (
	"errors"
	"fmt"
	"strings"

	"trexxdash/internal/artifacts"
	"trexxdash/pkg/contracts/domain"
)

// ErrInsufficientData is matched by every UnavailableError.
var ErrInsufficientData = errors.New("insufficient data")

// UnavailableError reports a panel that cannot be built because required
// artifacts are absent.
type UnavailableError struct {
	Panel   string
	Missing []artifacts.Name
}

func (e *UnavailableError) Error() string {
	files := make([]string, len(e.Missing))
	for i, n := range e.Missing {
		files[i] = n.FileName()
	}
	return fmt.Sprintf("%s panel: %s: missing %s", e.Panel, ErrInsufficientData, strings.Join(files, ", "))
}

func (e *UnavailableError) Unwrap() error { return ErrInsufficientData }

// MissingArtifacts converts the missing names for transport.
func (e *UnavailableError) MissingArtifacts() []domain.MissingArtifact {
	return missingArtifacts(e.Missing)
}

func missingArtifacts(names []artifacts.Name) []domain.MissingArtifact {
	out := make([]domain.MissingArtifact, len(names))
	for i, n := range names {
		out[i] = domain.MissingArtifact{Dataset: string(n), File: n.FileName()}
	}
	return out
}

// requireAll returns an UnavailableError naming every nil input.
func requireAll(panel string, inputs ...input) error {
	var missing []artifacts.Name
	for _, in := range inputs {
		if in.table == nil {
			missing = append(missing, in.name)
		}
	}
	if len(missing) > 0 {
		return &UnavailableError{Panel: panel, Missing: missing}
	}
	return nil
}

type input struct {
	name  artifacts.Name
	table *artifacts.Table
}
