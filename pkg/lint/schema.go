package lint

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/cpak.schema.json
var schemaBytes []byte

const schemaName = "cpak.schema.json"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaName, doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		if compiledSchema, err = c.Compile(schemaName); err != nil {
			compileErr = fmt.Errorf("compiling schema: %w", err)
		}
	})
	return compiledSchema, compileErr
}

// ValidateDescriptor checks a raw cpak.json document against the embedded
// schema. Schema violations come back as error findings; the error return
// is for documents that are not JSON at all or a broken schema.
func ValidateDescriptor(raw []byte) ([]Finding, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing cpak.json: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil, nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	var findings []Finding
	seen := make(map[string]bool)
	collect(ve, func(f Finding) {
		if key := f.Path + "|" + f.Message; !seen[key] {
			seen[key] = true
			findings = append(findings, f)
		}
	})
	if len(findings) == 0 {
		findings = append(findings, Finding{Severity: SeverityError, Rule: RuleSchema, Message: ve.Error()})
	}
	return findings, nil
}

// collect walks the error tree and reports its leaves.
func collect(ve *jsonschema.ValidationError, add func(Finding)) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collect(cause, add)
		}
		return
	}
	if ve.ErrorKind == nil {
		return
	}
	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	add(Finding{
		Severity: SeverityError,
		Rule:     RuleSchema,
		Path:     path,
		Message:  ve.ErrorKind.LocalizedString(printer),
	})
}
