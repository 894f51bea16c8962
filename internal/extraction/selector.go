package extraction

import (
	"fmt"
	"strings"

	"astriql/domain/core"
)

const (
	// DefaultModulePrefix is the module prefix of ASTRI DL0 field names (PDM01HI, PDM37T, ...)
	DefaultModulePrefix = "PDM"
	// DefaultModuleCount is the number of PDMs on the ASTRI camera
	DefaultModuleCount = 37
)

// FieldSelector maps a module selection and a base parameter to concrete field names
type FieldSelector struct {
	prefix      string
	moduleCount int
}

// NewFieldSelector creates a selector for a camera with moduleCount modules
func NewFieldSelector(prefix string, moduleCount int) *FieldSelector {
	return &FieldSelector{prefix: prefix, moduleCount: moduleCount}
}

// ModuleCount returns the number of modules the selector iterates in aggregate mode
func (s *FieldSelector) ModuleCount() int { return s.moduleCount }

// Resolve returns one name for moduleIndex > 0, or one name per module 1..N (ascending)
// for moduleIndex == 0.
func (s *FieldSelector) Resolve(moduleIndex int, baseParam string) ([]string, error) {
	if strings.TrimSpace(baseParam) == "" {
		return nil, core.NewValidationError("param", "field name cannot be empty")
	}
	if moduleIndex < 0 || moduleIndex > s.moduleCount {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", core.ErrInvalidModule, moduleIndex, s.moduleCount)
	}
	if moduleIndex > 0 {
		return []string{ModuleFieldName(s.prefix, moduleIndex, baseParam)}, nil
	}
	names := make([]string, 0, s.moduleCount)
	for m := 1; m <= s.moduleCount; m++ {
		names = append(names, ModuleFieldName(s.prefix, m, baseParam))
	}
	return names, nil
}

// ResolveFieldNames resolves names with the default module prefix
func ResolveFieldNames(moduleIndex int, baseParam string, moduleCount int) ([]string, error) {
	return NewFieldSelector(DefaultModulePrefix, moduleCount).Resolve(moduleIndex, baseParam)
}

// ModuleFieldName renders prefix + two-digit module number + param
func ModuleFieldName(prefix string, module int, param string) string {
	return fmt.Sprintf("%s%02d%s", prefix, module, param)
}
