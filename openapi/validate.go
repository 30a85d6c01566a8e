package openapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/erraggy/oasgen/oaserrors"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
)

// Validate checks a rendered JSON document against the rules of its dialect.
// Swagger 2.0 input is upgraded to 3.0 first, so both dialects are held to
// the same structural checks (unique operation IDs, declared path parameters,
// resolvable references).
func Validate(ctx context.Context, data []byte, dialect Dialect) error {
	var doc3 *openapi3.T
	switch dialect {
	case OpenAPI3:
		loader := openapi3.NewLoader()
		loader.Context = ctx
		t, err := loader.LoadFromData(data)
		if err != nil {
			return &oaserrors.ParseError{Message: "load OpenAPI 3.0 document", Cause: err}
		}
		doc3 = t
	case Swagger2:
		var doc2 openapi2.T
		if err := json.Unmarshal(data, &doc2); err != nil {
			return &oaserrors.ParseError{Message: "load Swagger 2.0 document", Cause: err}
		}
		t, err := openapi2conv.ToV3(&doc2)
		if err != nil {
			return &oaserrors.ConversionError{TargetDialect: OpenAPI3.String(), Message: "upgrade for validation", Cause: err}
		}
		doc3 = t
	default:
		return &oaserrors.ConfigError{Option: "dialect", Value: dialect.String(), Message: "unsupported dialect"}
	}
	if err := doc3.Validate(ctx); err != nil {
		return fmt.Errorf("invalid %s document: %w", dialect, err)
	}
	return nil
}

// Validate renders the document in dialect and validates the result.
func (d *Document) Validate(ctx context.Context, dialect Dialect) error {
	data, err := d.ToJSON(dialect)
	if err != nil {
		return err
	}
	return Validate(ctx, data, dialect)
}
