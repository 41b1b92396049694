package showminting

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Names (and HTML element ids) of the form fields.
const (
	FieldArtistID      = "artist_id"
	FieldBlockHeight   = "blockheight"
	FieldShapes        = "shapes"
	FieldNumberOfSets  = "numberOfSets"
	FieldStonePriceEth = "stonePriceEth"
	FieldSecrets       = "rabbitSecrets"
)

var (
	ErrMissingValue = errors.New("value is required")
	ErrNotInteger   = errors.New("not a decimal integer")
	ErrBlankLine    = errors.New("blank line")
)

type (
	// FieldSource gives access to the submitted form values, url.Values
	// implements it.
	FieldSource interface {
		Get(key string) string
	}

	// Fields is FieldSource backed by a plain map.
	Fields map[string]string

	CollectOptions struct {
		// Drop blank lines of the multi-line fields instead of rejecting them.
		SkipBlankLines bool
	}

	// FieldError describes invalid form input. Line is 1-based and set only
	// for the multi-line fields.
	FieldError struct {
		Field string
		Line  int
		Err   error
	}

	line struct {
		no   int
		text string
	}
)

func (f Fields) Get(key string) string {
	return f[key]
}

func (e *FieldError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s line %d: %v", e.Field, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

/*
CollectInputs reads the six form fields and builds the contract call arguments.

All invalid fields are reported, the returned error joins one *FieldError per
problem. Multi-line fields are split on "\n" with trailing "\r" removed, blank
lines are an error unless opts.SkipBlankLines is set.
*/
func CollectInputs(form FieldSource, opts CollectOptions) (*ShowAvailabilityRequest, error) {
	var errs []error
	fieldErr := func(field string, lineNo int, err error) {
		errs = append(errs, &FieldError{Field: field, Line: lineNo, Err: err})
	}
	integer := func(field string) int64 {
		n, err := parseInteger(form.Get(field))
		if err != nil {
			fieldErr(field, 0, err)
		}
		return n
	}

	req := &ShowAvailabilityRequest{
		ArtistID:     integer(FieldArtistID),
		BlockHeight:  integer(FieldBlockHeight),
		NumberOfSets: integer(FieldNumberOfSets),
	}

	shapeLines, err := splitLines(FieldShapes, form.Get(FieldShapes), true, opts.SkipBlankLines)
	if err != nil {
		errs = append(errs, err)
	}
	req.Shapes = make([]int64, 0, len(shapeLines))
	for _, l := range shapeLines {
		n, err := parseInteger(l.text)
		if err != nil {
			fieldErr(FieldShapes, l.no, err)
			continue
		}
		req.Shapes = append(req.Shapes, n)
		req.shapeLines = append(req.shapeLines, l.no)
	}

	if req.StonePriceWei, err = EtherToWei(form.Get(FieldStonePriceEth)); err != nil {
		fieldErr(FieldStonePriceEth, 0, err)
	}

	secrets, err := ParseSecrets(form.Get(FieldSecrets), opts)
	if err != nil {
		errs = append(errs, err)
	}
	req.SecretHashes = HashSecrets(secrets)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return req, nil
}

// ParseSecrets splits the secrets text into lines the same way CollectInputs does.
func ParseSecrets(text string, opts CollectOptions) ([]string, error) {
	lines, err := splitLines(FieldSecrets, text, false, opts.SkipBlankLines)
	if err != nil {
		return nil, err
	}
	secrets := make([]string, len(lines))
	for i, l := range lines {
		secrets[i] = l.text
	}
	return secrets, nil
}

func parseInteger(text string) (int64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, ErrMissingValue
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%q is out of range", s)
		}
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, s)
	}
	return n, nil
}

// splitLines splits multi-line field value. When trim is set surrounding
// whitespace is removed from the lines, secrets are used as typed (except
// the "\r" of CRLF line endings). Whitespace-only line counts as blank only
// when trimming.
func splitLines(field, text string, trim, skipBlank bool) ([]line, error) {
	if strings.TrimSpace(text) == "" && !skipBlank {
		return nil, &FieldError{Field: field, Err: ErrMissingValue}
	}
	var lines []line
	for i, s := range strings.Split(text, "\n") {
		s = strings.TrimSuffix(s, "\r")
		if trim {
			s = strings.TrimSpace(s)
		}
		if s == "" {
			if skipBlank {
				continue
			}
			return nil, &FieldError{Field: field, Line: i + 1, Err: ErrBlankLine}
		}
		lines = append(lines, line{no: i + 1, text: s})
	}
	return lines, nil
}
