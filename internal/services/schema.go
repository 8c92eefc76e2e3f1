package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"portfolio-backend-go/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
)

type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
	KindBool
	KindStringList
)

// Field describes one writable column. Rules use validator/v10 tag syntax.
// On create, a missing or falsy value falls back to Default, or to null
// when the column is Nullable.
type Field struct {
	Name     string
	Kind     FieldKind
	Nullable bool
	Rules    string
	Default  any
}

func (f Field) required() bool {
	for _, rule := range strings.Split(f.Rules, ",") {
		if rule == "required" {
			return true
		}
	}
	return false
}

// Schema is what a Repository needs to know about a table.
type Schema struct {
	Name   string
	Plural string
	Table  string
	Fields []Field
	Order  []store.Order
}

func (s Schema) Required() []string {
	names := []string{}
	for _, f := range s.Fields {
		if f.required() {
			names = append(names, f.Name)
		}
	}
	return names
}

func (s Schema) DeletedMessage() string {
	return capitalize(s.Name) + " deleted successfully"
}

var validate = validator.New()

// BuildCreate turns a decoded JSON object into a full row, applying defaults
// and checking every field. Unknown keys are ignored.
func (s Schema) BuildCreate(payload map[string]any) (store.Row, error) {
	row := store.Row{}
	missing := false
	problems := []string{}
	for _, f := range s.Fields {
		value, err := coerce(f, payload[f.Name])
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		if isZero(value) {
			switch {
			case f.Default != nil:
				value = f.Default
			case f.Nullable:
				value = nil
			}
		}
		if value == nil {
			if f.required() {
				missing = true
				problems = append(problems, requiredProblem(f.Name))
			} else {
				row[f.Name] = nil
			}
			continue
		}
		fieldProblems, isMissing := checkRules(f, value)
		if isMissing {
			missing = true
		}
		if len(fieldProblems) > 0 {
			problems = append(problems, fieldProblems...)
			continue
		}
		row[f.Name] = value
	}
	if missing {
		return nil, ErrValidation("Required fields: "+strings.Join(s.Required(), ", "), problems)
	}
	if len(problems) > 0 {
		return nil, ErrValidation("Invalid "+s.Name+" payload", problems)
	}
	return row, nil
}

// BuildUpdate keeps only the schema keys present in payload. Explicit null is
// accepted for nullable columns only. updated_at is always set.
func (s Schema) BuildUpdate(payload map[string]any, now time.Time) (store.Row, error) {
	row := store.Row{}
	problems := []string{}
	for _, f := range s.Fields {
		raw, present := payload[f.Name]
		if !present {
			continue
		}
		value, err := coerce(f, raw)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		if value == nil {
			if !f.Nullable {
				problems = append(problems, fmt.Sprintf("Field '%s' cannot be null", f.Name))
				continue
			}
			row[f.Name] = nil
			continue
		}
		if fieldProblems, _ := checkRules(f, value); len(fieldProblems) > 0 {
			problems = append(problems, fieldProblems...)
			continue
		}
		row[f.Name] = value
	}
	if len(problems) > 0 {
		return nil, ErrValidation("Invalid "+s.Name+" payload", problems)
	}
	row["updated_at"] = now
	return row, nil
}

func checkRules(f Field, value any) ([]string, bool) {
	if f.Rules == "" {
		return nil, false
	}
	err := validate.Var(value, f.Rules)
	if err == nil {
		return nil, false
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}, false
	}
	problems := make([]string, 0, len(verrs))
	missing := false
	for _, verr := range verrs {
		if verr.Tag() == "required" {
			missing = true
			problems = append(problems, requiredProblem(f.Name))
			continue
		}
		problem := fmt.Sprintf("Field '%s' failed on the '%s' tag", f.Name, verr.Tag())
		if verr.Param() != "" {
			problem = fmt.Sprintf("%s (value: %s)", problem, verr.Param())
		}
		problems = append(problems, problem)
	}
	return problems, missing
}

func requiredProblem(name string) string {
	return fmt.Sprintf("Field '%s' failed on the 'required' tag", name)
}

func coerce(f Field, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch f.Kind {
	case KindString:
		switch v := raw.(type) {
		case string:
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case json.Number:
			return v.String(), nil
		}
	case KindInt:
		switch v := raw.(type) {
		case float64:
			if v == math.Trunc(v) {
				return int64(v), nil
			}
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return n, nil
			}
		case string:
			trimmed := strings.TrimSpace(v)
			if trimmed == "" {
				return nil, nil
			}
			if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
				return n, nil
			}
		}
		return nil, fmt.Errorf("Field '%s' must be an integer", f.Name)
	case KindBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b, nil
			}
		}
		return nil, fmt.Errorf("Field '%s' must be a boolean", f.Name)
	case KindStringList:
		switch v := raw.(type) {
		case []string:
			return cleanList(v), nil
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("Field '%s' must be a list of strings", f.Name)
				}
				items = append(items, s)
			}
			return cleanList(items), nil
		case string:
			return cleanList(strings.Split(v, ",")), nil
		}
		return nil, fmt.Errorf("Field '%s' must be a list of strings", f.Name)
	}
	return nil, fmt.Errorf("Field '%s' must be a string", f.Name)
}

func cleanList(items []string) pq.StringArray {
	out := pq.StringArray{}
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isZero(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case int64:
		return v == 0
	case bool:
		return !v
	case pq.StringArray:
		return len(v) == 0
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
