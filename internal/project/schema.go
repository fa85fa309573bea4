package project

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed project.cue
var schemaSource string

// Schema definitions checked by Validate.
const (
	DefProject = "#Project"
	DefLegacy  = "#Legacy"
)

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaVal  cue.Value
	schemaErr  error

	// A cue.Context is not safe for concurrent use.
	validateMu sync.Mutex
)

func loadSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		schemaVal = schemaCtx.CompileString(schemaSource, cue.Filename("project.cue"))
		if err := schemaVal.Err(); err != nil {
			schemaErr = fmt.Errorf("compile project schema: %w", err)
		}
	})
	return schemaCtx, schemaVal, schemaErr
}

// Validate checks JSON data against the named schema definition.
func Validate(data []byte, def string) error {
	validateMu.Lock()
	defer validateMu.Unlock()

	ctx, schema, err := loadSchema()
	if err != nil {
		return err
	}

	expr, err := cuejson.Extract("project.json", data)
	if err != nil {
		return formatCUEError(err)
	}
	doc := ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return formatCUEError(err)
	}

	definition := schema.LookupPath(cue.ParsePath(def))
	if !definition.Exists() {
		return fmt.Errorf("schema definition %s not found", def)
	}
	unified := definition.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError reduces a CUE error list to its first entry, prefixed with
// the JSON path when CUE reports one.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	format, args := first.Msg()
	msg := fmt.Sprintf(format, args...)
	if path := first.Path(); len(path) > 0 {
		return fmt.Errorf("%s: %s", strings.Join(path, "."), msg)
	}
	return fmt.Errorf("%s", msg)
}
