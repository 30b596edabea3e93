package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmptyCatalog   = errors.New("catalog has no cards")
	ErrInvalidCatalog = errors.New("invalid catalog")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRaw checks structural and semantic constraints of a RawCatalog.
func ValidateRaw(raw RawCatalog) error {
	if len(raw.Cards) == 0 {
		return ErrEmptyCatalog
	}

	var errs []string

	if err := validate.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, describe(fe))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	seen := make(map[string]bool, len(raw.Cards))
	for i, c := range raw.Cards {
		if c.ID == "" {
			continue // reported by the struct tags
		}
		if seen[c.ID] {
			errs = append(errs, fmt.Sprintf("cards[%d]: duplicate id %q", i, c.ID))
		}
		seen[c.ID] = true
	}

	for id, q := range raw.Quizzes {
		if !seen[id] {
			errs = append(errs, fmt.Sprintf("quizzes[%s]: no card with this id", id))
		}
		correct := 0
		for _, o := range q.Options {
			if o.Correct {
				correct++
			}
		}
		if correct != 1 {
			errs = append(errs, fmt.Sprintf("quizzes[%s]: must have exactly one correct option, has %d", id, correct))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(errs, "; "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return ns + " is required"
	case "min", "max":
		return fmt.Sprintf("%s fails %s=%s (got %v)", ns, fe.Tag(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s fails %s", ns, fe.Tag())
	}
}
