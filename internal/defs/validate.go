package defs

import (
	"errors"
	"fmt"
	"strings"
)

const namePrefix = "MPI_"

// validate collects every violation; the result joins them in input order.
func (d *Definitions) validate() error {
	var errs []error
	fail := func(kind, name, detail string, err error) {
		errs = append(errs, &EntryError{Source: d.source, Kind: kind, Name: name, Detail: detail, Err: err})
	}

	if len(d.functions) == 0 && len(d.constants) == 0 {
		return fmt.Errorf("%s: %w", d.source, ErrNoDefinitions)
	}

	seen := make(map[string]int, len(d.functions))
	for i, fn := range d.functions {
		switch {
		case fn.Name == "":
			fail("function", fmt.Sprintf("#%d", i+1), "", ErrEmptyName)
			continue
		case !strings.HasPrefix(fn.Name, namePrefix):
			fail("function", fn.Name, "", ErrMissingPrefix)
		}
		if prev, dup := seen[fn.Name]; dup {
			fail("function", fn.Name, fmt.Sprintf("first defined as function #%d", prev+1), ErrDuplicateName)
		} else {
			seen[fn.Name] = i
		}
		if strings.TrimSpace(string(fn.Return)) == "" {
			fail("function", fn.Name, "return", ErrEmptyType)
		}
		params := make(map[string]struct{}, len(fn.Params))
		for j, p := range fn.Params {
			where := fmt.Sprintf("%s parameter %d", fn.Name, j+1)
			if strings.TrimSpace(p.Name) == "" {
				fail("param", where, "", ErrEmptyName)
			} else if _, dup := params[p.Name]; dup {
				fail("param", where, p.Name, ErrDuplicateName)
			} else {
				params[p.Name] = struct{}{}
			}
			if strings.TrimSpace(string(p.Type)) == "" {
				fail("param", where, "", ErrEmptyType)
			}
		}
	}

	seen = make(map[string]int, len(d.constants))
	for i, c := range d.constants {
		switch {
		case c.Name == "":
			fail("constant", fmt.Sprintf("#%d", i+1), "", ErrEmptyName)
			continue
		case !strings.HasPrefix(c.Name, namePrefix):
			fail("constant", c.Name, "", ErrMissingPrefix)
		}
		if prev, dup := seen[c.Name]; dup {
			fail("constant", c.Name, fmt.Sprintf("first defined as constant #%d", prev+1), ErrDuplicateName)
		} else {
			seen[c.Name] = i
		}
		if strings.TrimSpace(string(c.Type)) == "" {
			fail("constant", c.Name, "", ErrEmptyType)
		}
	}
	return errors.Join(errs...)
}
