package registry

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateParameters checks a binding's parameter map against a capability's
// declared JSON schema. The sweep engine never calls this; parameters are
// opaque at the engine boundary and validation belongs to the API layer.
func ValidateParameters(schema, params map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	if params == nil {
		params = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(params),
	)
	if err != nil {
		return fmt.Errorf("failed to validate parameters: %w", err)
	}

	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("invalid parameters: %s", errs[0].String())
		}

		return fmt.Errorf("invalid parameters")
	}

	return nil
}
