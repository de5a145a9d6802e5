package dataset

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"FinCrawl/internal/domain/models"
	"FinCrawl/pkg/util"
)

// Validator builds typed records from coerced rows. Rows that cannot be built
// are reported and left out of the batch.
type Validator struct {
	schemas  map[string]Schema
	validate *validator.Validate
}

func NewValidator(schemas map[string]Schema) *Validator {
	return &Validator{schemas: schemas, validate: validator.New()}
}

// Schema looks up a schema by dataset name.
func (v *Validator) Schema(name string) (Schema, bool) {
	s, ok := v.schemas[name]
	return s, ok
}

// Validate converts every row of table. The error is non-nil only when the
// schema itself is unknown; per-row failures come back in rejected.
func (v *Validator) Validate(name string, table models.RawTable) (records []models.Record, rejected []error, err error) {
	schema, ok := v.schemas[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown schema %q", name)
	}
	records = make([]models.Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		rec, err := v.Build(schema, row)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		records = append(records, rec)
	}
	return records, rejected, nil
}

// Build constructs and validates a single record.
func (v *Validator) Build(schema Schema, row models.Row) (models.Record, error) {
	rec := schema.New()
	rv := reflect.ValueOf(rec).Elem()

	for _, f := range schema.Fields {
		val, present := row[f.Name]
		if !present || val == nil {
			if f.Required {
				return nil, &models.SchemaValidationError{Schema: schema.Name, Field: f.Name, Err: fmt.Errorf("required field missing")}
			}
			continue
		}
		fv := rv.FieldByName(f.Name)
		if !fv.IsValid() || !fv.CanSet() {
			return nil, &models.SchemaValidationError{Schema: schema.Name, Field: f.Name, Err: fmt.Errorf("no such field on %T", rec)}
		}
		if err := assign(fv, f.Kind, val); err != nil {
			return nil, &models.SchemaValidationError{Schema: schema.Name, Field: f.Name, Err: err}
		}
	}

	if err := defaults.Set(rec); err != nil {
		return nil, &models.SchemaValidationError{Schema: schema.Name, Err: err}
	}
	if err := v.validate.Struct(rec); err != nil {
		return nil, &models.SchemaValidationError{Schema: schema.Name, Err: err}
	}
	return rec, nil
}

func assign(fv reflect.Value, kind FieldKind, val any) error {
	switch kind {
	case KindFloat:
		switch x := val.(type) {
		case float64:
			fv.SetFloat(x)
		case string:
			f, ok := util.ParseFloat(x)
			if !ok {
				return fmt.Errorf("cannot cast %q to float", x)
			}
			fv.SetFloat(f)
		default:
			return fmt.Errorf("cannot cast %T to float", val)
		}
	case KindDate:
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("date must be text, got %T", val)
		}
		iso, ok := util.NormalizeDate(s)
		if !ok {
			return fmt.Errorf("invalid date %q", s)
		}
		fv.SetString(iso)
	default:
		if _, isFloat := val.(float64); isFloat && kind == KindSession {
			return fmt.Errorf("session must be text")
		}
		fv.SetString(strings.TrimSpace(models.CellString(val)))
	}
	return nil
}
