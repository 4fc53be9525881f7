package abstract

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/xeipuuv/gojsonschema"

	"github.com/datazip-inc/tap-adjust/types"
	"github.com/datazip-inc/tap-adjust/utils/logger"
)

type recordValidator struct {
	schema *gojsonschema.Schema
}

// conformRecord applies the schema drift rule and the configured violation
// policy. Returns a nil record when the record was dropped.
func (a *AbstractDriver) conformRecord(stream types.StreamInterface, record types.Record) (types.Record, error) {
	schema := stream.Schema()

	// schema drift: unexpected fields pass through when additionalProperties is
	// permitted, otherwise they are dropped and logged
	if !schema.AdditionalProperties {
		for field := range record {
			if !schema.HasProperty(field) {
				logger.Debugf("stream %s: dropping undeclared field %q", stream.ID(), field)
				delete(record, field)
			}
		}
	}

	validator, err := a.validator(stream)
	if err != nil {
		return nil, err
	}

	result, err := validator.schema.Validate(gojsonschema.NewGoLoader(record))
	if err != nil {
		return nil, fmt.Errorf("failed to validate record of stream %s: %s", stream.ID(), err)
	}
	if result.Valid() {
		return record, nil
	}

	var violations error
	for _, violation := range result.Errors() {
		violations = multierror.Append(violations, errors.New(violation.String()))
	}

	if a.driver.ViolationPolicy() == types.FailViolation {
		return nil, fmt.Errorf("record of stream %s violates schema: %s", stream.ID(), violations)
	}

	logger.Warnf("stream %s: dropping record violating schema: %s", stream.ID(), violations)
	return nil, nil
}

func (a *AbstractDriver) validator(stream types.StreamInterface) (recordValidator, error) {
	a.vmu.Lock()
	defer a.vmu.Unlock()

	if validator, found := a.validators[stream.ID()]; found {
		return validator, nil
	}

	content, err := json.Marshal(stream.Schema())
	if err != nil {
		return recordValidator{}, fmt.Errorf("failed to marshal schema of stream %s: %s", stream.ID(), err)
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(content))
	if err != nil {
		return recordValidator{}, fmt.Errorf("failed to compile schema of stream %s: %s", stream.ID(), err)
	}

	validator := recordValidator{schema: compiled}
	a.validators[stream.ID()] = validator
	return validator, nil
}
