package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/insights"
	"github.com/dmitrijs2005/cvtrack/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkInput validates v and turns validator errors into one short message
// per field.
func checkInput(v any) error {
	err := validate.Struct(v)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, strings.ToLower(fe.Field())+" is required")
		case "datetime":
			msgs = append(msgs, strings.ToLower(fe.Field())+" must be DD-MM-YY")
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

type recordInput struct {
	Date    string `validate:"required,datetime=02-01-06"`
	Company string `validate:"required"`
}

// filterFlags are the list and summary selection flags.
type filterFlags struct {
	status string
	search string
	rng    string
	from   string
	to     string
	radar  string
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.status, "status", "", "only records with this status")
	fs.StringVarP(&f.search, "search", "q", "", "match company or country, case-insensitive")
	fs.StringVar(&f.rng, "range", "", "date range: all, 7d, 30d, 90d, year")
	fs.StringVar(&f.from, "from", "", "first day of a custom range (DD-MM-YY)")
	fs.StringVar(&f.to, "to", "", "last day of a custom range (DD-MM-YY)")
	fs.StringVar(&f.radar, "radar", "", "radar bucket: recent, stale, stalled")
}

func (f *filterFlags) filter() (insights.Filter, error) {
	var out insights.Filter

	if f.status != "" && !strings.EqualFold(f.status, "all") {
		st, err := models.ParseStatus(f.status)
		if err != nil {
			return out, err
		}
		out.Status = st
	}
	out.Search = f.search

	rng, err := insights.ParseRange(f.rng)
	if err != nil {
		return out, err
	}
	if f.from != "" || f.to != "" {
		if f.rng != "" && rng != insights.RangeCustom {
			return out, errors.New("--from/--to cannot be combined with a preset --range")
		}
		if f.from == "" || f.to == "" {
			return out, errors.New("a custom range needs both --from and --to")
		}
		rng = insights.RangeCustom
		if out.From, err = parseDay(f.from); err != nil {
			return out, fmt.Errorf("--from: %w", err)
		}
		if out.To, err = parseDay(f.to); err != nil {
			return out, fmt.Errorf("--to: %w", err)
		}
	}
	out.Range = rng

	if out.Radar, err = insights.ParseRadar(f.radar); err != nil {
		return out, err
	}
	return out, nil
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(models.DateLayout, s, time.Local)
}
