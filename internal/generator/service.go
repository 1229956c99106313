package generator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/common"
	"github.com/dmitrijs2005/cvtrack/internal/logging"
	"github.com/dmitrijs2005/cvtrack/internal/models"
	"github.com/dmitrijs2005/cvtrack/internal/slug"
	"github.com/dmitrijs2005/cvtrack/internal/store"
)

// Registrar records a generated application.
type Registrar interface {
	Add(ctx context.Context, p store.AddParams) (string, error)
}

// Config locates templates and outputs.
type Config struct {
	OutputsDir          string
	CandidateName       string
	CVTemplate          string
	CoverLetterTemplate string
}

type Service struct {
	gen Generator
	reg Registrar
	cfg Config
	log logging.Logger
	now func() time.Time
}

func NewService(gen Generator, reg Registrar, cfg Config, log logging.Logger, now func() time.Time) *Service {
	if log == nil {
		log = logging.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{gen: gen, reg: reg, cfg: cfg, log: log, now: now}
}

// Request describes the application the documents are for.
type Request struct {
	Company   string
	Country   string
	RoleTitle string
	// Extra is merged into the template fields.
	Extra map[string]string
}

// Document is the outcome for one generated file.
type Document struct {
	Kind string
	Path string
	Err  error
}

// Outcome reports what was generated and the id registered, if any.
type Outcome struct {
	ID        string
	Documents []Document
}

// OK reports whether every document was produced.
func (o Outcome) OK() bool {
	for _, d := range o.Documents {
		if d.Err != nil {
			return false
		}
	}
	return len(o.Documents) > 0
}

const (
	KindCV          = "cv"
	KindCoverLetter = "cover_letter"
)

// outputExt derives the output extension from a template name:
// "cv.md.tmpl" gives ".md", "cv.tmpl" gives ".txt".
func outputExt(templatePath string) string {
	ext := filepath.Ext(strings.TrimSuffix(filepath.Base(templatePath), ".tmpl"))
	if ext == "" {
		return ".txt"
	}
	return ext
}

func (s *Service) folder(date, company string) string {
	return filepath.Join(s.cfg.OutputsDir, date, slug.DefaultFolder(company))
}

func (s *Service) fields(date string, r Request) map[string]string {
	f := map[string]string{
		"Company":   r.Company,
		"Country":   r.Country,
		"RoleTitle": r.RoleTitle,
		"Candidate": s.cfg.CandidateName,
		"Date":      date,
	}
	for k, v := range r.Extra {
		f[k] = v
	}
	return f
}

func validate(r Request) (Request, error) {
	r.Company = strings.TrimSpace(r.Company)
	r.Country = strings.TrimSpace(r.Country)
	if r.Company == "" {
		return r, fmt.Errorf("generate: %w", common.ErrEmptyCompany)
	}
	if r.Country == "" {
		r.Country = models.CountryUnknown
	}
	return r, nil
}

func (s *Service) renderCV(ctx context.Context, date string, r Request) Document {
	name := slug.Segment(s.cfg.CandidateName) + "_CV_" + slug.Segment(r.Country) + outputExt(s.cfg.CVTemplate)
	out := filepath.Join(s.folder(date, r.Company), name)
	path, err := s.gen.Generate(ctx, s.cfg.CVTemplate, out, s.fields(date, r))
	return Document{Kind: KindCV, Path: path, Err: err}
}

func (s *Service) renderCoverLetter(ctx context.Context, date string, r Request) Document {
	name := "Cover_Letter_" + slug.Segment(r.Company) + outputExt(s.cfg.CoverLetterTemplate)
	out := filepath.Join(s.folder(date, r.Company), name)
	path, err := s.gen.Generate(ctx, s.cfg.CoverLetterTemplate, out, s.fields(date, r))
	return Document{Kind: KindCoverLetter, Path: path, Err: err}
}

func (s *Service) register(ctx context.Context, date string, r Request, o *Outcome) error {
	id, err := s.reg.Add(ctx, store.AddParams{
		Date:      date,
		Company:   r.Company,
		Country:   r.Country,
		Status:    models.StatusInProcess,
		RoleTitle: r.RoleTitle,
	})
	if err != nil {
		return fmt.Errorf("register application: %w", err)
	}
	o.ID = id
	return nil
}

// GenerateCV writes the CV into today's company folder and registers the
// application.
func (s *Service) GenerateCV(ctx context.Context, r Request) (Outcome, error) {
	r, err := validate(r)
	if err != nil {
		return Outcome{}, err
	}
	date := s.now().Format(models.DateLayout)

	doc := s.renderCV(ctx, date, r)
	o := Outcome{Documents: []Document{doc}}
	if doc.Err != nil {
		s.log.Error(ctx, "cv generation failed", "company", r.Company, "error", doc.Err)
		return o, doc.Err
	}
	if err := s.register(ctx, date, r, &o); err != nil {
		return o, err
	}
	s.log.Info(ctx, "cv generated", "id", o.ID, "path", doc.Path)
	return o, nil
}

// GenerateCoverLetter writes the cover letter only. Cover letters alone do
// not register an application.
func (s *Service) GenerateCoverLetter(ctx context.Context, r Request) (Outcome, error) {
	r, err := validate(r)
	if err != nil {
		return Outcome{}, err
	}
	date := s.now().Format(models.DateLayout)

	doc := s.renderCoverLetter(ctx, date, r)
	o := Outcome{Documents: []Document{doc}}
	if doc.Err != nil {
		s.log.Error(ctx, "cover letter generation failed", "company", r.Company, "error", doc.Err)
		return o, doc.Err
	}
	s.log.Info(ctx, "cover letter generated", "path", doc.Path)
	return o, nil
}

// GenerateBoth writes both documents. The application is registered when the
// CV was produced, even if the cover letter failed.
func (s *Service) GenerateBoth(ctx context.Context, r Request) (Outcome, error) {
	r, err := validate(r)
	if err != nil {
		return Outcome{}, err
	}
	date := s.now().Format(models.DateLayout)

	cv := s.renderCV(ctx, date, r)
	cl := s.renderCoverLetter(ctx, date, r)
	o := Outcome{Documents: []Document{cv, cl}}

	if cv.Err == nil {
		if err := s.register(ctx, date, r, &o); err != nil {
			return o, err
		}
	}
	if err := errors.Join(cv.Err, cl.Err); err != nil {
		s.log.Error(ctx, "document generation incomplete", "company", r.Company, "error", err)
		return o, err
	}
	s.log.Info(ctx, "documents generated", "id", o.ID)
	return o, nil
}
